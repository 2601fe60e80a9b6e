package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secex-api/internal/db"
	"secex-api/internal/domain"
	"secex-api/internal/seed"
)

func seededRepo(t *testing.T) *AttrRepo {
	t.Helper()
	writeDB, readDB := db.OpenTestSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, seed.Run(context.Background(), writeDB, logger))
	return NewAttrRepo(readDB)
}

func TestAttrRepo_Get(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	a, err := repo.Get(ctx, domain.DimensionBra, "mg")
	require.NoError(t, err)
	assert.Equal(t, "Minas Gerais", a.NameEN)

	a, err = repo.Get(ctx, domain.DimensionHs, "52")
	require.NoError(t, err)
	assert.Equal(t, "Cotton", a.NameEN)

	_, err = repo.Get(ctx, domain.DimensionWld, "nope")
	var notFound *domain.NotFoundError
	require.Error(t, err)
	assert.ErrorAs(t, err, &notFound)
	assert.Contains(t, err.Error(), "nope")
}

func TestAttrRepo_ListByLevel(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	attrs, err := repo.ListByLevel(ctx, domain.DimensionBra, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"mg", "rj", "sp"}, attrIDs(attrs))

	attrs, err = repo.ListByLevel(ctx, domain.DimensionBra, "mg", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"mg01", "mg02"}, attrIDs(attrs))

	attrs, err = repo.ListByLevel(ctx, domain.DimensionHs, "", 6)
	require.NoError(t, err)
	assert.Equal(t, []string{"010101", "520100", "840734"}, attrIDs(attrs))

	attrs, err = repo.ListByLevel(ctx, domain.DimensionBra, "zz", 4)
	require.NoError(t, err)
	assert.Empty(t, attrs)
}

func TestAttrRepo_Neighbors(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	// Distance 0 is just the region itself.
	attrs, err := repo.Neighbors(ctx, "mg", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"mg"}, attrIDs(attrs))

	attrs, err = repo.Neighbors(ctx, "mg", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"mg", "rj", "sp"}, attrIDs(attrs))

	// rj reaches sp only at two hops.
	attrs, err = repo.Neighbors(ctx, "rj", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"rj", "mg"}, attrIDs(attrs))

	attrs, err = repo.Neighbors(ctx, "rj", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"rj", "mg", "sp"}, attrIDs(attrs))
}

func attrIDs(attrs []domain.Attr) []string {
	ids := make([]string, len(attrs))
	for i, a := range attrs {
		ids[i] = a.ID
	}
	return ids
}
