// Package session keeps the explorer workspaces of connected HTTP clients.
//
// Each session owns one [pipeline.Workspace]: the text, query and document
// of record of one browser tab. Sessions live in memory only and disappear
// with the process. They expire after a period without activity; every
// successful Get extends the lifetime.
//
// # Usage
//
//	store := session.NewMemoryStore(session.DefaultTTL)
//	sess, err := store.Create(ctx, pipeline.NewWorkspace(runner, opts))
//	if err != nil {
//	    return err
//	}
//
//	sess, err = store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/jsonscope/pkg/pipeline"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// Session is one client's workspace.
type Session struct {
	ID        string              `json:"id"`
	Workspace *pipeline.Workspace `json:"-"`
	CreatedAt time.Time           `json:"created_at"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store is the interface for session storage backends.
type Store interface {
	// Create registers a new session around ws.
	Create(ctx context.Context, ws *pipeline.Workspace) (*Session, error)

	// Get retrieves a session by ID and extends its lifetime.
	// Returns ErrNotFound if the session does not exist and ErrExpired if
	// it has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Touch extends a session's lifetime, with the same errors as Get.
	Touch(ctx context.Context, id string) error

	// Delete removes a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns their IDs.
	Cleanup(ctx context.Context) ([]string, error)

	// Len returns the number of stored sessions.
	Len() int
}

// GenerateID returns a new random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the form produced by GenerateID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// New creates a session around ws that expires after ttl.
func New(ws *pipeline.Workspace, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        GenerateID(),
		Workspace: ws,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
