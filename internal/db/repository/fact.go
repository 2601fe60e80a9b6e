package repository

import (
	"context"
	"database/sql"

	"secex-api/internal/domain"
)

// FactRepo executes built fact queries against the read pool.
type FactRepo struct {
	db *sql.DB
}

// NewFactRepo creates a new FactRepo.
func NewFactRepo(db *sql.DB) *FactRepo {
	return &FactRepo{db: db}
}

var _ domain.FactStore = (*FactRepo)(nil)

// QueryFacts runs the query and returns one map per row keyed by result
// column name. []byte values are converted to string; NULLs come back nil.
func (r *FactRepo) QueryFacts(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
