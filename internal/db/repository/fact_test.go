package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secex-api/internal/db"
	"secex-api/internal/seed"
)

func TestFactRepo_QueryFacts(t *testing.T) {
	writeDB, readDB := db.OpenTestSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, seed.Run(context.Background(), writeDB, logger))

	repo := NewFactRepo(readDB)
	ctx := context.Background()

	rows, err := repo.QueryFacts(ctx,
		`SELECT year, hs_id, export_val, complexity FROM yp WHERE year = ? AND hs_id = ?`,
		2010, "52")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, int64(2010), rows[0]["year"])
	assert.Equal(t, "52", rows[0]["hs_id"], "text columns come back as strings")
	assert.Equal(t, float64(8900000), rows[0]["export_val"])
	assert.Equal(t, 0.29, rows[0]["complexity"])
}

func TestFactRepo_QueryFacts_NoRows(t *testing.T) {
	writeDB, readDB := db.OpenTestSQLite(t)
	_ = writeDB

	repo := NewFactRepo(readDB)
	rows, err := repo.QueryFacts(context.Background(), `SELECT year FROM yb WHERE year = ?`, 1900)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
