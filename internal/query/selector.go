// Package query implements the path-segment mini-DSL and the construction
// of parameterized SQL for the fact tables.
package query

import (
	"strconv"
	"strings"

	"secex-api/internal/domain"
)

// SelectorKind tags the parsed form of one dimension path segment.
type SelectorKind int

const (
	// SelectorWildcard applies no constraint on the dimension.
	SelectorWildcard SelectorKind = iota
	// SelectorLevel constrains by identifier length (nesting depth),
	// optionally combined with an identifier prefix.
	SelectorLevel
	// SelectorNeighbors expands an anchor region to everything within a
	// hop distance, the anchor included. Regions only.
	SelectorNeighbors
	// SelectorKeys is an explicit "+"-joined key set.
	SelectorKeys
)

// Selector is the parsed form of a dimension path segment.
type Selector struct {
	Kind SelectorKind

	// SelectorLevel
	Prefix string
	Level  int

	// SelectorNeighbors
	Key      string
	Distance int

	// SelectorKeys, order and duplicates preserved
	Keys []string
}

// ParseSelector parses a raw dimension path segment.
//
// Region grammar, checked in precedence order: "all" wildcard; "show."
// hierarchical level (with an optional prefix before ".show."); a "."
// neighbor-distance lookup; a "+"-joined explicit key set. Product and
// partner segments use the simplified grammar: any segment containing
// "show" drops explicit-key filtering, with "show.<n>" adding a level
// constraint applied directly to the fact column.
func ParseSelector(dim domain.Dimension, segment string) (Selector, error) {
	if segment == "all" {
		return Selector{Kind: SelectorWildcard}, nil
	}

	if strings.Contains(segment, "show") {
		return parseShow(dim, segment)
	}

	if dim == domain.DimensionBra && strings.Contains(segment, ".") {
		key, dist, _ := strings.Cut(segment, ".")
		n, err := strconv.Atoi(dist)
		if err != nil || n < 0 {
			return Selector{}, domain.ErrValidation("invalid neighbor distance %q", dist)
		}
		return Selector{Kind: SelectorNeighbors, Key: key, Distance: n}, nil
	}

	return Selector{Kind: SelectorKeys, Keys: strings.Split(segment, "+")}, nil
}

func parseShow(dim domain.Dimension, segment string) (Selector, error) {
	rest, ok := cutAfter(segment, "show.")
	if !ok {
		// bare "show" drops explicit keys without adding a level
		return Selector{Kind: SelectorWildcard}, nil
	}

	level, err := strconv.Atoi(rest)
	if err != nil || level <= 0 {
		return Selector{}, domain.ErrValidation("invalid nesting level %q", rest)
	}

	sel := Selector{Kind: SelectorLevel, Level: level}
	if dim == domain.DimensionBra {
		if prefix, _, found := strings.Cut(segment, ".show."); found {
			sel.Prefix = prefix
		}
	}
	return sel, nil
}

// cutAfter returns the part of s after the first occurrence of sep.
func cutAfter(s, sep string) (string, bool) {
	_, after, ok := strings.Cut(s, sep)
	return after, ok
}
