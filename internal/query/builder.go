package query

import (
	"fmt"
	"strings"

	"secex-api/internal/domain"
)

// DimConstraint is the predicate derived from a resolved selector for one
// dimension. The zero value applies no constraint (wildcard).
type DimConstraint struct {
	// Level > 0 constrains the identifier length of the fact column,
	// optionally combined with a Prefix match.
	Level  int
	Prefix string

	// Keys constrains the fact column to an explicit identifier set.
	Keys []string
}

// Input collects everything the builder needs beyond the route itself:
// parsed year set, per-dimension constraints, and directives.
type Input struct {
	Years  []int // nil = no year filter
	Dims   map[domain.Dimension]DimConstraint
	Order  []OrderTerm
	Filter *FilterExpr
	Limit  int // 0 = return all rows
	Offset int
}

// Build constructs one parameterized SQL query for the route. Stage order
// is fixed: join, year filter, dimension filters, ordering, filter
// directive, pagination. Order and filter column names are validated
// against the route's column set before they reach the SQL text.
func Build(route *domain.RouteSpec, in Input) (string, []interface{}, error) {
	var (
		sb   strings.Builder
		args []interface{}
	)

	sb.WriteString("SELECT ")
	for i, col := range route.SelectColumns() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("f." + col)
	}
	if j := route.Join; j != nil {
		for _, col := range j.Columns {
			sb.WriteString(", j." + col)
		}
	}
	sb.WriteString(" FROM " + route.Table + " AS f")

	if j := route.Join; j != nil {
		sb.WriteString(" JOIN " + j.Table + " AS j ON ")
		for i, col := range j.On {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			sb.WriteString(fmt.Sprintf("j.%s = f.%s", col, col))
		}
	}

	orderBy, err := buildOrder(route, in.Order, &sb)
	if err != nil {
		return "", nil, err
	}

	var where []string
	if len(in.Years) > 0 {
		where = append(where, "f.year IN ("+placeholders(len(in.Years))+")")
		for _, y := range in.Years {
			args = append(args, y)
		}
	}

	for _, dim := range route.Dimensions {
		c := in.Dims[dim]
		col := "f." + dim.Column()
		switch {
		case c.Level > 0:
			where = append(where, "length("+col+") = ?")
			args = append(args, c.Level)
			if c.Prefix != "" {
				where = append(where, col+" LIKE ?")
				args = append(args, c.Prefix+"%")
			}
		case len(c.Keys) == 1:
			where = append(where, col+" = ?")
			args = append(args, c.Keys[0])
		case len(c.Keys) > 1:
			where = append(where, col+" IN ("+placeholders(len(c.Keys))+")")
			for _, k := range c.Keys {
				args = append(args, k)
			}
		}
	}

	if f := in.Filter; f != nil {
		if !route.HasColumn(f.Column) {
			return "", nil, domain.ErrValidation("unknown filter column %q", f.Column)
		}
		where = append(where, "f."+f.Column+" "+f.Op.SQL()+" ?")
		args = append(args, f.Value)
	}

	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	if orderBy != "" {
		sb.WriteString(" ORDER BY " + orderBy)
	}
	if in.Limit > 0 {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, in.Limit, in.Offset)
	}

	return sb.String(), args, nil
}

// buildOrder validates order terms against the route and returns the ORDER
// BY body. Dimension-name tokens append a reference-table join to sb and
// order by display name, ascending unless an explicit suffix says
// otherwise; any other token orders the literal column, descending by
// default.
func buildOrder(route *domain.RouteSpec, terms []OrderTerm, sb *strings.Builder) (string, error) {
	var parts []string
	for _, t := range terms {
		if dim, ok := dimensionForToken(route, t.Column); ok {
			alias := "o_" + t.Column
			fmt.Fprintf(sb, " JOIN %s AS %s ON %s.id = f.%s",
				dim.AttrTable(), alias, alias, dim.Column())
			dir := "ASC"
			if t.Explicit && t.Desc {
				dir = "DESC"
			}
			parts = append(parts, alias+".name_en "+dir)
			continue
		}
		if !route.HasColumn(t.Column) {
			return "", domain.ErrValidation("unknown order column %q", t.Column)
		}
		dir := "DESC"
		if !t.Desc {
			dir = "ASC"
		}
		parts = append(parts, "f."+t.Column+" "+dir)
	}
	return strings.Join(parts, ", "), nil
}

func dimensionForToken(route *domain.RouteSpec, token string) (domain.Dimension, bool) {
	for _, d := range route.Dimensions {
		if d.OrderToken() == token {
			return d, true
		}
	}
	return 0, false
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
