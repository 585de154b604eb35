package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presshealth/domain/core"
	"presshealth/domain/press"
	"presshealth/internal/migration"
	"presshealth/ports"
)

func newSQLiteRepo(t *testing.T) ports.UploadRepository {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "uploads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migration.NewRunner().Run(ctx, db))
	// Running twice must be harmless.
	require.NoError(t, migration.NewRunner().Run(ctx, db))
	return NewUploadRepository(db)
}

func sampleRows(n int) []press.Row {
	rows := make([]press.Row, n)
	for i := range rows {
		rows[i] = press.Row{
			SN:                   7,
			CalibrationID:        "c1",
			StatusForHistory:     "Succeeded",
			ImageScalingErrorUPM: float64(i) * 0.5,
			BlanketID:            i + 1,
			StartTime:            "2024-03-01 10:00:00.1",
		}
	}
	return rows
}

func TestSaveAndGetByFilename(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	rows := sampleRows(3)
	rows[1].Extra = map[string]string{"operator": "ana"}
	upload := &press.Upload{Filename: "press.csv", MimeType: "text/csv", FileSize: 120, Rows: rows}
	require.NoError(t, repo.Save(ctx, upload))
	assert.False(t, upload.ID.String() == "")

	got, err := repo.GetByFilename(ctx, "press.csv")
	require.NoError(t, err)
	assert.Equal(t, upload.ID, got.ID)
	assert.Equal(t, 3, got.RowCount)
	assert.Equal(t, rows, got.Rows)
	assert.Equal(t, "text/csv", got.MimeType)
}

func TestSaveLargeUploadInBatches(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	rows := sampleRows(insertBatchSize*2 + 3)
	require.NoError(t, repo.Save(ctx, &press.Upload{Filename: "big.csv", Rows: rows}))

	got, err := repo.GetByFilename(ctx, "big.csv")
	require.NoError(t, err)
	require.Len(t, got.Rows, len(rows))
	assert.Equal(t, len(rows), got.Rows[len(rows)-1].BlanketID)
}

func TestSaveReplacesSameFilename(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	first := &press.Upload{Filename: "press.csv", Rows: sampleRows(2), CreatedAt: time.Now().Add(-time.Minute)}
	require.NoError(t, repo.Save(ctx, first))
	second := &press.Upload{Filename: "press.csv", Rows: sampleRows(5)}
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.GetByFilename(ctx, "press.csv")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Len(t, got.Rows, 5)

	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, core.ErrUploadNotFound)

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteAndNotFound(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	upload := &press.Upload{Filename: "a.csv", Rows: sampleRows(1)}
	require.NoError(t, repo.Save(ctx, upload))
	require.NoError(t, repo.Delete(ctx, upload.ID))

	_, err := repo.GetByFilename(ctx, "a.csv")
	assert.ErrorIs(t, err, core.ErrUploadNotFound)
	assert.True(t, core.IsNotFoundError(err))
}
