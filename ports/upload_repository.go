package ports

import (
	"context"

	"presshealth/domain/core"
	"presshealth/domain/press"
)

// UploadRepository defines the interface for parsed upload storage
type UploadRepository interface {
	// Save stores an upload with its rows; a later upload with the same filename replaces it
	Save(ctx context.Context, upload *press.Upload) error
	// GetByFilename returns the latest upload stored under filename, rows included
	GetByFilename(ctx context.Context, filename string) (*press.Upload, error)
	// GetByID returns an upload by id, rows included
	GetByID(ctx context.Context, id core.UploadID) (*press.Upload, error)
	// List returns upload headers (no rows), newest first
	List(ctx context.Context, limit int) ([]*press.Upload, error)
	// Delete removes an upload and its rows
	Delete(ctx context.Context, id core.UploadID) error
}
