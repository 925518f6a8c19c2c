package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer lets the test read what the spinner goroutine writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out syncBuffer
	s := startSpinner(context.Background(), &out, "Rendering svg...")
	time.Sleep(3 * spinnerInterval)
	s.stop()

	if s.frames() < 2 {
		t.Errorf("drew %d frames, want the animation to advance", s.frames())
	}
	got := out.String()
	if !strings.Contains(got, "Rendering svg...") {
		t.Errorf("output is missing the message: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("line should be erased on stop: %q", got)
	}
	if s.cancelled() {
		t.Error("a regular stop is not a cancellation")
	}
}

func TestSpinnerStopTwice(t *testing.T) {
	var out syncBuffer
	s := startSpinner(context.Background(), &out, "x")
	s.stop()
	s.stop()
}

func TestSpinnerFollowsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), spinnerInterval/2)
	defer cancel()

	var out syncBuffer
	s := startSpinner(ctx, &out, "Rendering pdf...")
	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after its context ended")
	}
	if !s.cancelled() {
		t.Error("cancelled() = false after the context ended")
	}
	s.stop()
}

func TestWithSpinner(t *testing.T) {
	var out syncBuffer
	data, cached, err := withSpinner(context.Background(), &out, "Rendering png...", func() ([]byte, bool, error) {
		return []byte("png"), true, nil
	})
	if err != nil || !cached || string(data) != "png" {
		t.Errorf("withSpinner = %q, %v, %v", data, cached, err)
	}

	boom := errors.New("boom")
	if _, _, err := withSpinner(context.Background(), &out, "x", func() ([]byte, bool, error) {
		return nil, false, boom
	}); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}
