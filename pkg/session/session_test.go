package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/jsonscope/pkg/pipeline"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration) (*MemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(ttl)
	s.now = clock.now
	return s, clock
}

func TestMemoryStoreCreateGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(time.Minute)

	ws := pipeline.NewWorkspace(nil, pipeline.Options{})
	sess, err := s.Create(ctx, ws)
	if err != nil {
		t.Fatal(err)
	}
	if !ValidID(sess.ID) {
		t.Errorf("ID %q is not a uuid", sess.ID)
	}

	got, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Workspace != ws {
		t.Error("Get returned a different workspace")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d", s.Len())
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(time.Minute)
	sess, _ := s.Create(ctx, pipeline.NewWorkspace(nil, pipeline.Options{}))

	// Activity extends the lifetime.
	clock.advance(50 * time.Second)
	if _, err := s.Get(ctx, sess.ID); err != nil {
		t.Fatalf("Get() = %v", err)
	}
	clock.advance(50 * time.Second)
	if _, err := s.Get(ctx, sess.ID); err != nil {
		t.Fatalf("Get() after touch = %v", err)
	}

	clock.advance(2 * time.Minute)
	if _, err := s.Get(ctx, sess.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get() error = %v, want ErrExpired", err)
	}
	if s.Len() != 0 {
		t.Error("expired session should be removed")
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(time.Minute)
	old, _ := s.Create(ctx, nil)
	clock.advance(45 * time.Second)
	fresh, _ := s.Create(ctx, nil)
	clock.advance(30 * time.Second)

	removed, err := s.Cleanup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 1 || removed[0] != old.ID || s.Len() != 1 {
		t.Errorf("removed %v, %d left", removed, s.Len())
	}
	if _, err := s.Get(ctx, old.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("old session: %v", err)
	}
	if _, err := s.Get(ctx, fresh.ID); err != nil {
		t.Errorf("fresh session: %v", err)
	}
}

func TestMemoryStoreTouch(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(time.Minute)
	sess, _ := s.Create(ctx, nil)

	for range 5 {
		clock.advance(40 * time.Second)
		if err := s.Touch(ctx, sess.ID); err != nil {
			t.Fatalf("Touch() = %v", err)
		}
	}
	if removed, _ := s.Cleanup(ctx); len(removed) != 0 {
		t.Errorf("touched session was removed: %v", removed)
	}

	clock.advance(2 * time.Minute)
	if err := s.Touch(ctx, sess.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Touch() after expiry = %v, want ErrExpired", err)
	}
	if err := s.Touch(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Touch(missing) = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(0)
	sess, _ := s.Create(ctx, nil)

	if err := s.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, sess.ID); err != nil {
		t.Errorf("second Delete() = %v", err)
	}
	if _, err := s.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete = %v", err)
	}
}

func TestValidID(t *testing.T) {
	if !ValidID(GenerateID()) {
		t.Error("generated IDs must validate")
	}
	for _, id := range []string{"", "abc", "../etc/passwd"} {
		if ValidID(id) {
			t.Errorf("ValidID(%q) = true", id)
		}
	}
}
