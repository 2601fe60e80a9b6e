package api

import "secex-api/internal/domain"

// Dimension-presence bits for route selection. A dimension is present
// when its path segment differs from the literal "all".
const (
	maskBra = 1 << iota
	maskHs
	maskWld
)

var tradeMeasures = []string{"export_val", "import_val"}

// BuildRoutes constructs the fixed route table, one RouteSpec per fact
// table variant, keyed by which dimensions the request names. Built once
// at startup. The region×product route joins the product-year table to
// merge in the complexity measure by (year, hs_id).
func BuildRoutes() map[int]*domain.RouteSpec {
	return map[int]*domain.RouteSpec{
		maskBra: {
			Table:      "yb",
			Dimensions: []domain.Dimension{domain.DimensionBra},
			Measures:   tradeMeasures,
		},
		maskHs: {
			Table:      "yp",
			Dimensions: []domain.Dimension{domain.DimensionHs},
			Measures:   []string{"export_val", "import_val", "complexity"},
		},
		maskWld: {
			Table:      "yw",
			Dimensions: []domain.Dimension{domain.DimensionWld},
			Measures:   tradeMeasures,
		},
		maskBra | maskWld: {
			Table:      "ybw",
			Dimensions: []domain.Dimension{domain.DimensionBra, domain.DimensionWld},
			Measures:   tradeMeasures,
		},
		maskBra | maskHs: {
			Table:      "ybp",
			Dimensions: []domain.Dimension{domain.DimensionBra, domain.DimensionHs},
			Measures:   tradeMeasures,
			Join: &domain.JoinSpec{
				Table:   "yp",
				On:      []string{"year", "hs_id"},
				Columns: []string{"complexity"},
			},
		},
		maskHs | maskWld: {
			Table:      "ypw",
			Dimensions: []domain.Dimension{domain.DimensionHs, domain.DimensionWld},
			Measures:   tradeMeasures,
		},
		maskBra | maskHs | maskWld: {
			Table:      "ybpw",
			Dimensions: []domain.Dimension{domain.DimensionBra, domain.DimensionHs, domain.DimensionWld},
			Measures:   tradeMeasures,
		},
	}
}
