package domain

// DataRequest carries one inbound request's path segments and query-string
// directives. Built per request, never persisted.
type DataRequest struct {
	// Path is the canonical request path, used as the cache key.
	Path string

	// Year is the raw year segment ("all", "2010", "2008-2012", ...).
	Year string

	// Bra, Hs, Wld are the raw dimension segments ("all" when the
	// dimension is absent from the route).
	Bra string
	Hs  string
	Wld string

	// Raw query-string directives.
	Order  string
	Filter string
	Limit  string
	Offset string
}

// Segment returns the raw path segment for the given dimension.
func (r DataRequest) Segment(d Dimension) string {
	switch d {
	case DimensionBra:
		return r.Bra
	case DimensionHs:
		return r.Hs
	default:
		return r.Wld
	}
}

// Paginated reports whether the request carries limit/offset directives.
// Paginated responses are deliberately never cached.
func (r DataRequest) Paginated() bool {
	return r.Limit != "" || r.Offset != ""
}
