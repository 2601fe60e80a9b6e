// Package service orchestrates request resolution, query execution, and
// response assembly for the trade statistics API.
package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"secex-api/internal/domain"
	"secex-api/internal/query"
)

// DataService turns a resolved route plus raw request directives into an
// encoded response envelope. Stateless apart from the shared cache.
type DataService struct {
	attrs  domain.AttrStore
	facts  domain.FactStore
	cache  domain.ResponseCache // nil disables caching
	logger *slog.Logger
}

// NewDataService creates a DataService. cache may be nil to disable
// response caching.
func NewDataService(attrs domain.AttrStore, facts domain.FactStore, cache domain.ResponseCache, logger *slog.Logger) *DataService {
	return &DataService{attrs: attrs, facts: facts, cache: cache, logger: logger}
}

// Fetch executes the request against the route's fact table and returns
// the gzip-encoded JSON envelope. The second return reports a cache hit.
//
// Non-paginated responses are cached by request path; any explicitly named
// dimension key that does not exist aborts with a NotFoundError before a
// fact query runs.
func (s *DataService) Fetch(ctx context.Context, route *domain.RouteSpec, req domain.DataRequest) ([]byte, bool, error) {
	limit, offset, err := pagination(req)
	if err != nil {
		return nil, false, err
	}

	cacheable := s.cache != nil && !req.Paginated()
	if cacheable {
		if cached, ok := s.cache.Get(req.Path); ok {
			return cached, true, nil
		}
	}

	envelope := make(map[string]interface{})
	in := query.Input{
		Dims:   make(map[domain.Dimension]query.DimConstraint),
		Limit:  limit,
		Offset: offset,
	}

	if req.Year != "all" {
		years, err := query.ParseYears(req.Year)
		if err != nil {
			return nil, false, err
		}
		in.Years = years
		envelope["year"] = years
	}

	for _, dim := range route.Dimensions {
		if err := s.resolveDimension(ctx, dim, req.Segment(dim), &in, envelope); err != nil {
			return nil, false, err
		}
	}

	if req.Order != "" {
		if in.Order, err = query.ParseOrder(req.Order); err != nil {
			return nil, false, err
		}
	}
	if req.Filter != "" {
		f, err := query.ParseFilter(req.Filter)
		if err != nil {
			return nil, false, err
		}
		in.Filter = &f
	}

	q, args, err := query.Build(route, in)
	if err != nil {
		return nil, false, err
	}

	rows, err := s.facts.QueryFacts(ctx, q, args...)
	if err != nil {
		return nil, false, fmt.Errorf("query %s: %w", route.Table, err)
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	envelope["data"] = rows

	encoded, err := encodeEnvelope(envelope)
	if err != nil {
		return nil, false, err
	}

	if cacheable {
		s.cache.Set(req.Path, encoded)
	}
	return encoded, false, nil
}

// resolveDimension parses one dimension segment, resolves any explicitly
// named entities, and records the resulting predicate and envelope keys.
func (s *DataService) resolveDimension(ctx context.Context, dim domain.Dimension, segment string, in *query.Input, envelope map[string]interface{}) error {
	sel, err := query.ParseSelector(dim, segment)
	if err != nil {
		return err
	}

	switch sel.Kind {
	case query.SelectorWildcard:
		// no predicate, no envelope key

	case query.SelectorLevel:
		in.Dims[dim] = query.DimConstraint{Level: sel.Level, Prefix: sel.Prefix}
		envelope[dim.LevelKey()] = sel.Level

	case query.SelectorNeighbors:
		if _, err := s.attrs.Get(ctx, dim, sel.Key); err != nil {
			return err
		}
		attrs, err := s.attrs.Neighbors(ctx, sel.Key, sel.Distance)
		if err != nil {
			return err
		}
		in.Dims[dim] = query.DimConstraint{Keys: attrIDs(attrs)}
		envelope[dim.EnvelopeKey()] = domain.SerializeAttrs(attrs)

	case query.SelectorKeys:
		attrs := make([]domain.Attr, 0, len(sel.Keys))
		for _, key := range sel.Keys {
			a, err := s.attrs.Get(ctx, dim, key)
			if err != nil {
				return err
			}
			attrs = append(attrs, *a)
		}
		in.Dims[dim] = query.DimConstraint{Keys: attrIDs(attrs)}
		envelope[dim.EnvelopeKey()] = domain.SerializeAttrs(attrs)
	}
	return nil
}

// pagination applies the directive defaults: an offset without a limit
// implies a limit of 50.
func pagination(req domain.DataRequest) (limit, offset int, err error) {
	if req.Limit != "" {
		if limit, err = query.ParseBound("limit", req.Limit); err != nil {
			return 0, 0, err
		}
	}
	if req.Offset != "" {
		if offset, err = query.ParseBound("offset", req.Offset); err != nil {
			return 0, 0, err
		}
		if limit == 0 {
			limit = 50
		}
	}
	return limit, offset, nil
}

// encodeEnvelope marshals the envelope and gzip-compresses it for
// transport. The compressed form is what gets cached, so cache hits are
// byte-identical to the first response.
func encodeEnvelope(envelope map[string]interface{}) ([]byte, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func attrIDs(attrs []domain.Attr) []string {
	ids := make([]string, len(attrs))
	for i, a := range attrs {
		ids[i] = a.ID
	}
	return ids
}
