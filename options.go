package odata

// Metadata is an optional, read-only EDM schema descriptor threaded through
// a parse. The core never writes to it and doesn't prescribe its shape
// beyond this interface. No combinator in this package currently consults
// it: names parse as ordinary identifiers whether or not a Metadata is
// supplied.
type Metadata interface {
	// ResolveEntitySet reports whether name is a known entity set or
	// singleton.
	ResolveEntitySet(name string) (ok bool)
	// ResolveType reports whether name is a known EDM primitive,
	// complex, or entity type name, for cast()/isof() validation.
	ResolveType(name string) (ok bool)
}

// config carries the optional collaborators a parse may be configured
// with. It is never mutated once built; Option values only ever set a
// field exactly once, a plain struct-by-value configuration pattern.
type config struct {
	metadata Metadata
}

// Option configures an optional parse-time collaborator.
type Option func(*config)

// WithMetadata supplies an EDM schema descriptor to the parse. It is
// carried into the parse's config only; the result of a parse is the same
// with or without it.
func WithMetadata(m Metadata) Option {
	return func(c *config) {
		c.metadata = m
	}
}

func buildConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
