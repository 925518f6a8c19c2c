package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a one-line status message while a slow render step runs.
// The line is erased when the spinner stops or its context ends.
type spinner struct {
	w       io.Writer
	message string
	parent  context.Context
	cancel  context.CancelFunc
	stopped chan struct{}

	mu    sync.Mutex
	drawn int
}

// startSpinner draws the first frame immediately and keeps animating until
// stop is called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	runCtx, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:       w,
		message: message,
		parent:  ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	s.draw()
	go s.run(runCtx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.draw()
		}
	}
}

func (s *spinner) draw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame := spinnerFrames[s.drawn%len(spinnerFrames)]
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
	s.drawn++
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", utf8.RuneCountInString(s.message)+4))
}

// stop ends the animation and waits for the line to be erased. Calling it
// more than once is fine.
func (s *spinner) stop() {
	s.cancel()
	<-s.stopped
}

// cancelled reports whether the caller's context ended, as opposed to a
// regular stop.
func (s *spinner) cancelled() bool {
	return s.parent.Err() != nil
}

// frames returns how many frames have been drawn so far.
func (s *spinner) frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawn
}

// withSpinner runs fn while a spinner shows message on w.
func withSpinner[T any](ctx context.Context, w io.Writer, message string, fn func() (T, bool, error)) (T, bool, error) {
	s := startSpinner(ctx, w, message)
	defer s.stop()
	return fn()
}
