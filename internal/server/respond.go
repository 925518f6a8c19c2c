package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	errs "github.com/matzehuels/jsonscope/pkg/errors"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Code: code, Message: errs.UserMessage(err)})
}

func statusFor(code errs.Code) int {
	switch code.Category() {
	case errs.CategoryInvalid:
		return http.StatusBadRequest
	case errs.CategoryNotFound:
		return http.StatusNotFound
	case errs.CategoryLimit:
		return http.StatusRequestEntityTooLarge
	case errs.CategoryUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// decode reads a JSON body of at most MaxDocumentSize bytes plus framing.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, int64(errs.MaxDocumentSize)+4096)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return errs.New(errs.ErrCodeTooLarge, "request body too large (max %d bytes)", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return errs.New(errs.ErrCodeEmptyInput, "request body is empty")
		default:
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "%s", fmt.Sprintf("invalid request body: %v", err))
		}
	}
	return nil
}
