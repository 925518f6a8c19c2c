package layout

import (
	errs "github.com/matzehuels/jsonscope/pkg/errors"
)

// Default node box and spacing, in pixels.
const (
	DefaultNodeWidth  = 200.0
	DefaultNodeHeight = 40.0
	DefaultNodeSep    = 30.0
	DefaultRankSep    = 60.0
)

// Options controls node size and spacing. Zero fields take the defaults.
type Options struct {
	NodeWidth  float64 `json:"node_width" toml:"node_width"`
	NodeHeight float64 `json:"node_height" toml:"node_height"`
	NodeSep    float64 `json:"node_sep" toml:"node_sep"`
	RankSep    float64 `json:"rank_sep" toml:"rank_sep"`
}

// DefaultOptions returns the default box size and spacing.
func DefaultOptions() Options {
	return Options{
		NodeWidth:  DefaultNodeWidth,
		NodeHeight: DefaultNodeHeight,
		NodeSep:    DefaultNodeSep,
		RankSep:    DefaultRankSep,
	}
}

// SetDefaults fills zero fields with defaults.
func (o *Options) SetDefaults() {
	if o.NodeWidth == 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	if o.NodeSep == 0 {
		o.NodeSep = DefaultNodeSep
	}
	if o.RankSep == 0 {
		o.RankSep = DefaultRankSep
	}
}

// Validate rejects non-positive box sizes and negative gaps.
func (o Options) Validate() error {
	if o.NodeWidth <= 0 || o.NodeHeight <= 0 {
		return errs.New(errs.ErrCodeInvalidOptions, "node size must be positive (got %gx%g)", o.NodeWidth, o.NodeHeight)
	}
	if o.NodeSep < 0 || o.RankSep < 0 {
		return errs.New(errs.ErrCodeInvalidOptions, "node and rank separation must not be negative")
	}
	return nil
}
