package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"presshealth/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations for the upload store.
// The DDL sticks to types shared by postgres, mysql and sqlite; timestamps are
// stored as unix milliseconds.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createUploadsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create uploads table")
	}

	if err := r.createUploadRowsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create upload_rows table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createUploadsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS uploads (
			id VARCHAR(64) PRIMARY KEY,
			filename VARCHAR(512) NOT NULL,
			mime_type VARCHAR(128) NOT NULL DEFAULT '',
			file_size BIGINT NOT NULL DEFAULT 0,
			row_count INTEGER NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createUploadRowsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS upload_rows (
			upload_id VARCHAR(64) NOT NULL,
			seq INTEGER NOT NULL,
			sn INTEGER NOT NULL,
			calibration_name VARCHAR(255) NOT NULL DEFAULT '',
			calibration_id VARCHAR(255) NOT NULL DEFAULT '',
			substrate_name VARCHAR(255) NOT NULL DEFAULT '',
			status_for_history VARCHAR(512) NOT NULL DEFAULT '',
			scaling_status VARCHAR(512) NOT NULL DEFAULT '',
			gap_status VARCHAR(512) NOT NULL DEFAULT '',
			image_scaling_used_upm DOUBLE PRECISION NOT NULL DEFAULT 0,
			image_scaling_error_upm DOUBLE PRECISION NOT NULL DEFAULT 0,
			gap_error_final_um DOUBLE PRECISION NOT NULL DEFAULT 0,
			blanket_id INTEGER NOT NULL DEFAULT 0,
			start_time VARCHAR(64) NOT NULL DEFAULT '',
			extra TEXT,
			PRIMARY KEY (upload_id, seq)
		)
	`)
	return err
}

// createIndexes adds the filename lookup index. MySQL has no CREATE INDEX IF NOT
// EXISTS, so existence is checked through information_schema there.
func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	if db.DriverName() == "mysql" {
		var n int
		err := db.GetContext(ctx, &n, `
			SELECT COUNT(*) FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = 'uploads' AND index_name = 'idx_uploads_filename'`)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		_, err = db.ExecContext(ctx, `CREATE INDEX idx_uploads_filename ON uploads (filename)`)
		return err
	}

	_, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_uploads_filename ON uploads (filename)`)
	return err
}
