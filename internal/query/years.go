package query

import (
	"sort"
	"strconv"
	"strings"

	"secex-api/internal/domain"
)

// ParseYears parses a year expression into a sorted, de-duplicated year
// list. Supported forms: a single year ("2010"), an inclusive range
// ("2008-2012"), or a comma-separated list of either.
func ParseYears(expr string) ([]int, error) {
	seen := make(map[int]bool)
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, domain.ErrValidation("empty year expression in %q", expr)
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, domain.ErrValidation("invalid year %q", lo)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(hi)
			if err != nil {
				return nil, domain.ErrValidation("invalid year %q", hi)
			}
			if end < start {
				return nil, domain.ErrValidation("invalid year range %q", part)
			}
		}
		for y := start; y <= end; y++ {
			seen[y] = true
		}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}
