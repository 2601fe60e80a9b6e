package domain

// Dimension identifies one of the three axes a fact table can be broken
// down by. The identifier codes of every dimension are hierarchical: code
// length encodes nesting depth, and a longer code nests under the shorter
// code it is prefixed by.
type Dimension int

const (
	// DimensionBra is the reporting subnational region ("bra").
	DimensionBra Dimension = iota
	// DimensionHs is the product classification ("hs").
	DimensionHs
	// DimensionWld is the trading partner / world region ("wld").
	DimensionWld
)

// Column returns the fact-table foreign-key column for the dimension.
func (d Dimension) Column() string {
	switch d {
	case DimensionBra:
		return "bra_id"
	case DimensionHs:
		return "hs_id"
	default:
		return "wld_id"
	}
}

// AttrTable returns the reference table holding the dimension's entities.
func (d Dimension) AttrTable() string {
	switch d {
	case DimensionBra:
		return "attr_bra"
	case DimensionHs:
		return "attr_hs"
	default:
		return "attr_wld"
	}
}

// EnvelopeKey returns the response-envelope key under which the resolved
// entities of this dimension are reported.
func (d Dimension) EnvelopeKey() string {
	switch d {
	case DimensionBra:
		return "location"
	case DimensionHs:
		return "product"
	default:
		return "wld"
	}
}

// LevelKey returns the envelope key used when a hierarchical-level filter
// was applied instead of explicit keys.
func (d Dimension) LevelKey() string {
	switch d {
	case DimensionBra:
		return "bra_level"
	case DimensionHs:
		return "hs_level"
	default:
		return "wld_level"
	}
}

// OrderToken returns the order-directive token that selects ordering by
// this dimension's display name.
func (d Dimension) OrderToken() string {
	switch d {
	case DimensionBra:
		return "bra"
	case DimensionHs:
		return "hs"
	default:
		return "wld"
	}
}

func (d Dimension) String() string { return d.OrderToken() }

// Attr is a dimension entity: a hierarchical identifier code plus a display
// name. Reference data, immutable after seeding.
type Attr struct {
	ID     string
	NameEN string
}

// Serialize returns the wire representation used in response envelopes.
func (a Attr) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"id":      a.ID,
		"name_en": a.NameEN,
	}
}

// SerializeAttrs serializes a slice of entities preserving order.
func SerializeAttrs(attrs []Attr) []map[string]interface{} {
	out := make([]map[string]interface{}, len(attrs))
	for i, a := range attrs {
		out[i] = a.Serialize()
	}
	return out
}
