package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. The CLI scopes keys by
// release, so a new binary never reads layouts computed by an old one:
//
//	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer wraps inner, or [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) ScopedKeyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

func (k ScopedKeyer) LayoutKey(shapeHash string, opts LayoutKeyOpts) string {
	return k.Prefix + k.Inner.LayoutKey(shapeHash, opts)
}

func (k ScopedKeyer) ArtifactKey(viewHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Inner.ArtifactKey(viewHash, opts)
}
