// Package sqlstore keeps parsed uploads in a SQL database through sqlx. The same
// queries serve postgres, mysql and sqlite; placeholders are rebound per driver.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"presshealth/domain/core"
	"presshealth/domain/press"
	"presshealth/ports"
)

// insertBatchSize keeps bulk inserts under every driver's placeholder limit
const insertBatchSize = 500

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open connects to driver ("postgres", "mysql" or "sqlite") and pings it
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return db, nil
}

type uploadRecord struct {
	ID        string `db:"id"`
	Filename  string `db:"filename"`
	MimeType  string `db:"mime_type"`
	FileSize  int64  `db:"file_size"`
	RowCount  int    `db:"row_count"`
	CreatedAt int64  `db:"created_at"`
}

type rowRecord struct {
	UploadID             string         `db:"upload_id"`
	Seq                  int            `db:"seq"`
	SN                   int            `db:"sn"`
	CalibrationName      string         `db:"calibration_name"`
	CalibrationID        string         `db:"calibration_id"`
	SubstrateName        string         `db:"substrate_name"`
	StatusForHistory     string         `db:"status_for_history"`
	ScalingStatus        string         `db:"scaling_status"`
	GapStatus            string         `db:"gap_status"`
	ImageScalingUsedUPM  float64        `db:"image_scaling_used_upm"`
	ImageScalingErrorUPM float64        `db:"image_scaling_error_upm"`
	GapErrorFinalUM      float64        `db:"gap_error_final_um"`
	BlanketID            int            `db:"blanket_id"`
	StartTime            string         `db:"start_time"`
	Extra                sql.NullString `db:"extra"`
}

const uploadColumns = `id, filename, mime_type, file_size, row_count, created_at`

const rowColumns = `upload_id, seq, sn, calibration_name, calibration_id, substrate_name, status_for_history,
	scaling_status, gap_status, image_scaling_used_upm, image_scaling_error_upm, gap_error_final_um,
	blanket_id, start_time, extra`

// uploadRepository implements the UploadRepository interface
type uploadRepository struct {
	db *sqlx.DB
}

// NewUploadRepository creates a new upload repository
func NewUploadRepository(db *sqlx.DB) ports.UploadRepository {
	return &uploadRepository{db: db}
}

// Save replaces any upload stored under the same filename and inserts the new one
func (r *uploadRepository) Save(ctx context.Context, upload *press.Upload) error {
	if upload.ID.String() == "" {
		upload.ID = core.NewUploadID()
	}
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now()
	}
	upload.RowCount = len(upload.Rows)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var previous []string
	if err := tx.SelectContext(ctx, &previous, tx.Rebind(`SELECT id FROM uploads WHERE filename = ?`), upload.Filename); err != nil {
		return fmt.Errorf("failed to look up previous uploads: %w", err)
	}
	for _, id := range previous {
		if err := deleteUpload(ctx, tx, id); err != nil {
			return err
		}
	}

	_, err = tx.NamedExecContext(ctx, `INSERT INTO uploads (`+uploadColumns+`)
		VALUES (:id, :filename, :mime_type, :file_size, :row_count, :created_at)`, uploadRecord{
		ID:        upload.ID.String(),
		Filename:  upload.Filename,
		MimeType:  upload.MimeType,
		FileSize:  upload.FileSize,
		RowCount:  upload.RowCount,
		CreatedAt: upload.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}

	records := make([]rowRecord, 0, insertBatchSize)
	flush := func() error {
		if len(records) == 0 {
			return nil
		}
		_, err := tx.NamedExecContext(ctx, `INSERT INTO upload_rows (`+rowColumns+`) VALUES (
			:upload_id, :seq, :sn, :calibration_name, :calibration_id, :substrate_name, :status_for_history,
			:scaling_status, :gap_status, :image_scaling_used_upm, :image_scaling_error_upm, :gap_error_final_um,
			:blanket_id, :start_time, :extra)`, records)
		records = records[:0]
		return err
	}
	for i, row := range upload.Rows {
		rec, err := toRecord(upload.ID.String(), i, row)
		if err != nil {
			return err
		}
		records = append(records, rec)
		if len(records) == insertBatchSize {
			if err := flush(); err != nil {
				return fmt.Errorf("failed to insert upload rows: %w", err)
			}
		}
	}
	if err := flush(); err != nil {
		return fmt.Errorf("failed to insert upload rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upload: %w", err)
	}
	return nil
}

// GetByFilename retrieves the latest upload stored under filename
func (r *uploadRepository) GetByFilename(ctx context.Context, filename string) (*press.Upload, error) {
	var rec uploadRecord
	err := r.db.GetContext(ctx, &rec, r.db.Rebind(`SELECT `+uploadColumns+` FROM uploads
		WHERE filename = ? ORDER BY created_at DESC, id DESC LIMIT 1`), filename)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", core.ErrUploadNotFound, filename)
		}
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	return r.withRows(ctx, rec)
}

// GetByID retrieves an upload by its ID
func (r *uploadRepository) GetByID(ctx context.Context, id core.UploadID) (*press.Upload, error) {
	var rec uploadRecord
	err := r.db.GetContext(ctx, &rec, r.db.Rebind(`SELECT `+uploadColumns+` FROM uploads WHERE id = ?`), id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", core.ErrUploadNotFound, id)
		}
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	return r.withRows(ctx, rec)
}

// List returns upload headers, newest first
func (r *uploadRepository) List(ctx context.Context, limit int) ([]*press.Upload, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []uploadRecord
	err := r.db.SelectContext(ctx, &recs, r.db.Rebind(`SELECT `+uploadColumns+` FROM uploads
		ORDER BY created_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	uploads := make([]*press.Upload, 0, len(recs))
	for _, rec := range recs {
		uploads = append(uploads, fromUploadRecord(rec))
	}
	return uploads, nil
}

// Delete removes an upload and its rows
func (r *uploadRepository) Delete(ctx context.Context, id core.UploadID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteUpload(ctx, tx, id.String()); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteUpload(ctx context.Context, tx *sqlx.Tx, id string) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM upload_rows WHERE upload_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete upload rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM uploads WHERE id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

func (r *uploadRepository) withRows(ctx context.Context, rec uploadRecord) (*press.Upload, error) {
	var recs []rowRecord
	err := r.db.SelectContext(ctx, &recs, r.db.Rebind(`SELECT `+rowColumns+` FROM upload_rows
		WHERE upload_id = ? ORDER BY seq`), rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load upload rows: %w", err)
	}

	upload := fromUploadRecord(rec)
	upload.Rows = make([]press.Row, 0, len(recs))
	for _, rr := range recs {
		row, err := fromRecord(rr)
		if err != nil {
			return nil, err
		}
		upload.Rows = append(upload.Rows, row)
	}
	return upload, nil
}

func fromUploadRecord(rec uploadRecord) *press.Upload {
	return &press.Upload{
		ID:        core.UploadID(rec.ID),
		Filename:  rec.Filename,
		MimeType:  rec.MimeType,
		FileSize:  rec.FileSize,
		RowCount:  rec.RowCount,
		CreatedAt: time.UnixMilli(rec.CreatedAt),
	}
}

func toRecord(uploadID string, seq int, row press.Row) (rowRecord, error) {
	rec := rowRecord{
		UploadID:             uploadID,
		Seq:                  seq,
		SN:                   row.SN,
		CalibrationName:      row.CalibrationName,
		CalibrationID:        row.CalibrationID,
		SubstrateName:        row.SubstrateName,
		StatusForHistory:     row.StatusForHistory,
		ScalingStatus:        row.ScalingStatus,
		GapStatus:            row.GapStatus,
		ImageScalingUsedUPM:  row.ImageScalingUsedUPM,
		ImageScalingErrorUPM: row.ImageScalingErrorUPM,
		GapErrorFinalUM:      row.GapErrorFinalUM,
		BlanketID:            row.BlanketID,
		StartTime:            row.StartTime,
	}
	if len(row.Extra) > 0 {
		extra, err := json.Marshal(row.Extra)
		if err != nil {
			return rec, fmt.Errorf("failed to marshal extra columns: %w", err)
		}
		rec.Extra = sql.NullString{String: string(extra), Valid: true}
	}
	return rec, nil
}

func fromRecord(rec rowRecord) (press.Row, error) {
	row := press.Row{
		SN:                   rec.SN,
		CalibrationName:      rec.CalibrationName,
		CalibrationID:        rec.CalibrationID,
		SubstrateName:        rec.SubstrateName,
		StatusForHistory:     rec.StatusForHistory,
		ScalingStatus:        rec.ScalingStatus,
		GapStatus:            rec.GapStatus,
		ImageScalingUsedUPM:  rec.ImageScalingUsedUPM,
		ImageScalingErrorUPM: rec.ImageScalingErrorUPM,
		GapErrorFinalUM:      rec.GapErrorFinalUM,
		BlanketID:            rec.BlanketID,
		StartTime:            rec.StartTime,
	}
	if rec.Extra.Valid && rec.Extra.String != "" {
		if err := json.Unmarshal([]byte(rec.Extra.String), &row.Extra); err != nil {
			return row, fmt.Errorf("failed to unmarshal extra columns: %w", err)
		}
	}
	return row, nil
}
