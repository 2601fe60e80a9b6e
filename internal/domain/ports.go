package domain

import "context"

// AttrStore provides read-only access to dimension reference data.
// Implemented by repository.AttrRepo.
type AttrStore interface {
	// Get returns the entity with the given identifier, or a
	// NotFoundError when no such key exists.
	Get(ctx context.Context, dim Dimension, id string) (*Attr, error)

	// ListByLevel returns all entities whose identifier starts with
	// prefix (empty = any) and whose identifier length equals level,
	// ordered by identifier.
	ListByLevel(ctx context.Context, dim Dimension, prefix string, level int) ([]Attr, error)

	// Neighbors returns the region itself plus every region within the
	// given hop distance, nearest first. Regions only.
	Neighbors(ctx context.Context, id string, distance int) ([]Attr, error)
}

// FactStore executes a built fact query and returns one map per row keyed
// by column name. Implemented by repository.FactRepo.
type FactStore interface {
	QueryFacts(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error)
}

// ResponseCache is a process-wide key to bytes store for encoded responses.
// Entries are written once per key and read many times; concurrent first
// writers for the same key may benignly race.
type ResponseCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}
