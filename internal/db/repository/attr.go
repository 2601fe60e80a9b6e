// Package repository implements the storage ports over SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"secex-api/internal/domain"
)

// AttrRepo provides read-only access to dimension reference data.
type AttrRepo struct {
	db *sql.DB
}

// NewAttrRepo creates a new AttrRepo on the given (read) pool.
func NewAttrRepo(db *sql.DB) *AttrRepo {
	return &AttrRepo{db: db}
}

var _ domain.AttrStore = (*AttrRepo)(nil)

// Get returns the entity with the given identifier, or a NotFoundError.
func (r *AttrRepo) Get(ctx context.Context, dim domain.Dimension, id string) (*domain.Attr, error) {
	var a domain.Attr
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id, name_en FROM %s WHERE id = ?`, dim.AttrTable()), id).
		Scan(&a.ID, &a.NameEN)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("%s %q not found", dim, id)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByLevel returns all entities whose identifier starts with prefix
// (empty = any) and whose identifier length equals level, ordered by
// identifier.
func (r *AttrRepo) ListByLevel(ctx context.Context, dim domain.Dimension, prefix string, level int) ([]domain.Attr, error) {
	q := fmt.Sprintf(`SELECT id, name_en FROM %s WHERE length(id) = ?`, dim.AttrTable())
	args := []interface{}{level}
	if prefix != "" {
		q += ` AND id LIKE ?`
		args = append(args, prefix+"%")
	}
	q += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var attrs []domain.Attr
	for rows.Next() {
		var a domain.Attr
		if err := rows.Scan(&a.ID, &a.NameEN); err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, rows.Err()
}

// Neighbors returns the region itself plus every region within the given
// hop distance, nearest first. The adjacency table carries self rows at
// distance 0, so one range query covers "including itself".
func (r *AttrRepo) Neighbors(ctx context.Context, id string, distance int) ([]domain.Attr, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.name_en
		   FROM bra_neighbors AS n
		   JOIN attr_bra AS a ON a.id = n.neighbor_id
		  WHERE n.bra_id = ? AND n.distance <= ?
		  ORDER BY n.distance, a.id`,
		id, distance)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var attrs []domain.Attr
	for rows.Next() {
		var a domain.Attr
		if err := rows.Scan(&a.ID, &a.NameEN); err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, rows.Err()
}
