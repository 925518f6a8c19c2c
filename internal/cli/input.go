package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/pipeline"
	"github.com/matzehuels/jsonscope/pkg/value"
)

// stdinPath selects standard input in place of a file argument.
const stdinPath = "-"

// readInput reads document text from path, or from the command's input
// when path is empty or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == stdinPath {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), errs.MaxDocumentSize+1))
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if err := errs.ValidateDocumentSize(len(data)); err != nil {
			return "", err
		}
		return string(data), nil
	}

	if err := errs.ValidateFilePath(path); err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "file %s not found", path)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if err := errs.ValidateDocumentSize(int(info.Size())); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// readDocument reads and parses a document. Blank input is an EMPTY_INPUT
// error.
func readDocument(cmd *cobra.Command, path string) (value.Value, string, error) {
	text, err := readInput(cmd, path)
	if err != nil {
		return value.Value{}, "", err
	}
	if strings.TrimSpace(text) == "" {
		return value.Value{}, text, errs.New(errs.ErrCodeEmptyInput, "%s is empty", displayName(path))
	}
	doc, err := value.Parse(text)
	if err != nil {
		return value.Value{}, text, fmt.Errorf("%s: %w", displayName(path), err)
	}
	return doc, text, nil
}

// writeOutput writes data to path, or to the command's output when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == stdinPath {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := errs.ValidateFilePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// replaceFile atomically replaces the contents of path, keeping its mode.
func replaceFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == stdinPath {
			return "graph"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func displayName(path string) string {
	if path == "" || path == stdinPath {
		return "stdin"
	}
	return path
}
