package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/folio/internal/db"
	"github.com/templui/folio/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

func TestUploadRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUploadRepository(newTestDB(t))

	older := &model.Upload{
		ID:           "a",
		Filename:     "1-1.png",
		OriginalName: "cat.png",
		MimeType:     "image/png",
		Size:         10,
		URL:          "/uploads/1-1.png",
		CreatedAt:    time.Now().Add(-time.Hour).UTC(),
	}
	newer := &model.Upload{
		ID:        "b",
		Filename:  "2-2.pdf",
		MimeType:  "application/pdf",
		Size:      20,
		URL:       "/uploads/2-2.pdf",
		Mirrored:  true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	got, err := repo.ByFilename(ctx, "1-1.png")
	require.NoError(t, err)
	assert.Equal(t, "cat.png", got.OriginalName)
	assert.Equal(t, int64(10), got.Size)
	assert.False(t, got.Mirrored)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2-2.pdf", list[0].Filename)
	assert.True(t, list[0].Mirrored)

	require.NoError(t, repo.Delete(ctx, "1-1.png"))
	assert.ErrorIs(t, repo.Delete(ctx, "1-1.png"), ErrUploadNotFound)

	_, err = repo.ByFilename(ctx, "1-1.png")
	assert.ErrorIs(t, err, ErrUploadNotFound)
}
