package domain

// JoinSpec declares the one secondary join a route may carry: extra columns
// pulled from another fact table, matched on shared columns. Merged columns
// appear in each serialized row under their own name.
type JoinSpec struct {
	Table   string   // secondary fact table
	On      []string // shared columns (equality join)
	Columns []string // columns selected from the secondary table
}

// RouteSpec is the per-route configuration built once at startup: which
// fact table serves the route, which dimensions are present, and the
// optional secondary join. One fact table variant exists per distinct
// combination of dimensions.
type RouteSpec struct {
	Table      string
	Dimensions []Dimension
	Measures   []string
	Join       *JoinSpec
}

// SelectColumns returns the columns selected from the primary fact table,
// in serialization order: year, dimension keys, measures.
func (r *RouteSpec) SelectColumns() []string {
	cols := make([]string, 0, 1+len(r.Dimensions)+len(r.Measures))
	cols = append(cols, "year")
	for _, d := range r.Dimensions {
		cols = append(cols, d.Column())
	}
	cols = append(cols, r.Measures...)
	return cols
}

// HasColumn reports whether name is a column of the primary fact table.
// Order and filter directives may only reference these.
func (r *RouteSpec) HasColumn(name string) bool {
	for _, c := range r.SelectColumns() {
		if c == name {
			return true
		}
	}
	return false
}

// HasDimension reports whether the route exposes the given dimension.
func (r *RouteSpec) HasDimension(d Dimension) bool {
	for _, rd := range r.Dimensions {
		if rd == d {
			return true
		}
	}
	return false
}
