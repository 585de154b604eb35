package ports

import (
	"context"
	"io"

	"presshealth/domain/press"
)

// PressService is the computation service the dashboard talks to.
// The client never computes statistics itself; it only goes through this contract.
type PressService interface {
	// Upload parses a file and returns either a multi-press summary or a single press's sessions
	Upload(ctx context.Context, filename string, file io.Reader) (*press.UploadResult, error)
	// FetchPressData returns the sessions of one press of a stored upload
	FetchPressData(ctx context.Context, filename string, sn int) (*press.PressData, error)
	// ProcessData cleans a session for plotting and reports its error spread
	ProcessData(ctx context.Context, req press.ProcessRequest) (*press.ProcessResult, error)
	// ErrorStats counts the status columns of a session
	ErrorStats(ctx context.Context, rows []press.Row) (*press.ErrorStats, error)
}
