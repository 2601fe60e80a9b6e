package query

import (
	"strconv"
	"strings"

	"secex-api/internal/domain"
)

// CompareOp is a numeric comparison operator of the filter directive.
type CompareOp int

const (
	OpGT CompareOp = iota
	OpGE
	OpLT
	OpLE
)

// opTokens maps directive syntax to operators. ">=" and "<=" must be tried
// before ">" and "<" or they would be truncated to their one-char forms.
var opTokens = []struct {
	token string
	op    CompareOp
}{
	{">=", OpGE},
	{"<=", OpLE},
	{">", OpGT},
	{"<", OpLT},
}

// SQL returns the SQL spelling of the operator.
func (op CompareOp) SQL() string {
	switch op {
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	case OpLT:
		return "<"
	default:
		return "<="
	}
}

// FilterExpr is a parsed filter directive: a numeric comparison on one
// measure column.
type FilterExpr struct {
	Column string
	Op     CompareOp
	Value  float64
}

// ParseFilter parses a "<column><op><number>" filter directive.
func ParseFilter(s string) (FilterExpr, error) {
	for _, t := range opTokens {
		col, val, found := strings.Cut(s, t.token)
		if !found {
			continue
		}
		if col == "" {
			return FilterExpr{}, domain.ErrValidation("filter %q has no column", s)
		}
		n, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return FilterExpr{}, domain.ErrValidation("filter value %q is not numeric", val)
		}
		return FilterExpr{Column: col, Op: t.op, Value: n}, nil
	}
	return FilterExpr{}, domain.ErrValidation("filter %q has no comparison operator", s)
}

// OrderTerm is one parsed token of the order directive.
type OrderTerm struct {
	Column string
	Desc   bool
	// Explicit is set when the direction came from an ".asc"/".desc"
	// suffix rather than the default.
	Explicit bool
}

// ParseOrder parses the space-separated order directive. Each token may be
// suffixed ".asc" or ".desc"; an unsuffixed token sorts descending.
func ParseOrder(s string) ([]OrderTerm, error) {
	var terms []OrderTerm
	for _, tok := range strings.Fields(s) {
		term := OrderTerm{Desc: true}
		col, dir, found := strings.Cut(tok, ".")
		term.Column = col
		if found {
			term.Explicit = true
			switch dir {
			case "asc":
				term.Desc = false
			case "desc":
				term.Desc = true
			default:
				return nil, domain.ErrValidation("invalid order direction %q", dir)
			}
		}
		if term.Column == "" {
			return nil, domain.ErrValidation("invalid order token %q", tok)
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// ParseBound parses a limit/offset directive value.
func ParseBound(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, domain.ErrValidation("invalid %s %q", name, s)
	}
	return n, nil
}
