package pipeline

import (
	"context"
	"strings"
	"sync"

	"github.com/matzehuels/jsonscope/pkg/mutate"
	"github.com/matzehuels/jsonscope/pkg/observability"
	"github.com/matzehuels/jsonscope/pkg/value"
	"github.com/matzehuels/jsonscope/pkg/view"
)

// Workspace owns the document of record for one editing session.
//
// It keeps the current text and query, the last accepted document (the
// baseline for focus detection) and the result of the last run. The
// previous document is only replaced by a successful parse: blank text and
// parse errors clear the focus and the current document, but the next valid
// text is still compared against the last accepted one.
//
// A Workspace is safe for concurrent use; every operation runs the pipeline
// to completion under one lock, so readers never observe a partial update.
type Workspace struct {
	runner *Runner
	opts   Options

	mu    sync.Mutex
	text  string
	query string
	doc   *value.Value
	prev  *value.Value
	res   *Result
}

// NewWorkspace creates an empty workspace. A nil runner runs uncached.
func NewWorkspace(runner *Runner, opts Options) *Workspace {
	if runner == nil {
		runner = NewRunner(nil, nil, discardLogger())
	}
	return &Workspace{
		runner: runner,
		opts:   opts,
		res:    emptyResult(""),
	}
}

// SetText replaces the text and re-runs the pipeline. A parse error is
// recorded in the result and also returned.
func (w *Workspace) SetText(ctx context.Context, text string) (*Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.setText(ctx, text)
}

func (w *Workspace) setText(ctx context.Context, text string) (*Result, error) {
	res, err := w.runner.Execute(ctx, Input{Text: text, Previous: w.prev, Query: w.query}, w.opts)
	if res == nil {
		return nil, err
	}
	w.text = text
	w.res = res
	if res.OK() {
		doc := res.Document
		w.doc = &doc
		w.prev = &doc
	} else {
		w.doc = nil
	}
	return res, err
}

// SetQuery changes the search string. Matches and dimming are recomputed
// on the current result; the focus stays where it was.
func (w *Workspace) SetQuery(query string) *Result {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.query = query
	switch {
	case w.res.OK():
		w.res = w.res.Highlight(query)
	case w.res.Empty:
		w.res = emptyResult(query)
	default:
		res := *w.res
		res.Query = query
		w.res = &res
	}
	return w.res
}

// Edit replaces the value at path with raw, re-serializes the document and
// runs the pipeline on the new text. It reports false without running
// anything when there is no document or the path does not resolve.
func (w *Workspace) Edit(ctx context.Context, path value.Path, raw string) (*Result, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.doc == nil || len(path) == 0 {
		observability.Pipeline().OnEdit(ctx, false)
		return w.res, false, nil
	}
	updated, ok := mutate.Apply(*w.doc, path, raw)
	observability.Pipeline().OnEdit(ctx, ok)
	if !ok {
		return w.res, false, nil
	}
	res, err := w.setText(ctx, value.Pretty(updated))
	return res, err == nil, err
}

// Format pretty-prints the text with two-space indentation. Blank text is
// left alone and reports false. Unparseable text is left alone and the parse
// error is returned.
func (w *Workspace) Format(ctx context.Context) (*Result, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if strings.TrimSpace(w.text) == "" {
		return w.res, false, nil
	}
	doc, err := value.Parse(w.text)
	if err != nil {
		return w.res, false, err
	}
	pretty := value.Pretty(doc)
	if pretty == w.text {
		return w.res, false, nil
	}
	res, err := w.setText(ctx, pretty)
	return res, err == nil, err
}

// Clear empties the text. The last accepted document remains the baseline
// for the next focus computation.
func (w *Workspace) Clear() *Result {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.text = ""
	w.doc = nil
	w.res = emptyResult(w.query)
	return w.res
}

// Text returns the current text.
func (w *Workspace) Text() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.text
}

// Query returns the current search string.
func (w *Workspace) Query() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.query
}

// Document returns the current document, if the text parsed.
func (w *Workspace) Document() (value.Value, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.doc == nil {
		return value.Value{}, false
	}
	return *w.doc, true
}

// Focus returns the path of the last change, or nil.
func (w *Workspace) Focus() value.Path {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.res.Focus
}

// Err returns the parse error of the current text, or nil.
func (w *Workspace) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.res.Err
}

// Result returns the result of the last run.
func (w *Workspace) Result() *Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.res
}

// View returns the renderer output of the last run.
func (w *Workspace) View() view.View {
	return w.Result().View
}
