// Package cache stores computed layouts and rendered artifacts.
//
// All backends implement [Cache], a byte-oriented key/value store with
// per-entry TTLs:
//
//   - [NullCache] stores nothing (caching disabled)
//   - [FileCache] keeps entries on disk for the CLI
//   - [MemoryCache] is a bounded in-process LRU for the server
//   - [RedisCache] shares entries between server instances
//
// Keys come from a [Keyer]. Layout keys depend only on the shape of the
// document graph and the layout options, so editing a primitive value in
// place reuses the cached layout.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache is the interface implemented by every backend.
type Cache interface {
	// Get returns the data stored under key. A miss is reported with
	// false and a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey identifies the layout of a graph shape under opts.
	LayoutKey(shapeHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a view.
	ArtifactKey(viewHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the layout options that affect coordinates.
type LayoutKeyOpts struct {
	NodeWidth  float64 `json:"w"`
	NodeHeight float64 `json:"h"`
	NodeSep    float64 `json:"ns"`
	RankSep    float64 `json:"rs"`
}

// ArtifactKeyOpts holds the options that affect a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(shapeHash string, opts LayoutKeyOpts) string {
	return compositeKey("layout", shapeHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(viewHash string, opts ArtifactKeyOpts) string {
	return compositeKey("artifact", viewHash, opts)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// compositeKey is kind, a colon and the digest of the JSON-encoded parts.
func compositeKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}
