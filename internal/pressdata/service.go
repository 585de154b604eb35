// Package pressdata is the server side of the press dashboard: it parses
// uploads, keeps them in an UploadRepository and answers the per-press and
// per-session queries the dashboard makes.
package pressdata

import (
	"context"
	"fmt"
	"io"

	"presshealth/adapters/excel"
	"presshealth/domain/core"
	"presshealth/domain/health"
	"presshealth/domain/press"
	"presshealth/internal"
	"presshealth/internal/analysis"
	"presshealth/internal/report"
	"presshealth/ports"
)

// Service implements ports.PressService on top of an upload repository
type Service struct {
	repo         ports.UploadRepository
	readerConfig excel.ReaderConfig
	defaultLevel int
	logger       *internal.Logger
}

// Option customizes a Service
type Option func(*Service)

// WithReaderConfig overrides how uploads are parsed
func WithReaderConfig(cfg excel.ReaderConfig) Option {
	return func(s *Service) { s.readerConfig = cfg }
}

// WithDefaultOutlierLevel sets the level used when a request leaves it unset
func WithDefaultOutlierLevel(level int) Option {
	return func(s *Service) { s.defaultLevel = level }
}

// WithLogger sets the service logger
func WithLogger(logger *internal.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a press data service
func NewService(repo ports.UploadRepository, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		readerConfig: excel.DefaultReaderConfig(),
		defaultLevel: analysis.DefaultOutlierLevel,
		logger:       internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("PressService")
	return s
}

var _ ports.PressService = (*Service)(nil)

// Upload parses and stores a file. Files with more than one press return the
// press summary; single-press files return that press's sessions directly.
func (s *Service) Upload(ctx context.Context, filename string, file io.Reader) (*press.UploadResult, error) {
	reader, err := excel.NewDataReader(filename, s.readerConfig)
	if err != nil {
		return nil, err
	}
	reader.WithLogger(s.logger)

	counter := &countingReader{r: file}
	rows, err := reader.ReadRows(counter)
	if err != nil {
		s.logger.Warn("rejected upload %s: %v", filename, err)
		return nil, err
	}

	upload := &press.Upload{
		Filename: filename,
		MimeType: reader.MimeType(),
		FileSize: counter.n,
		Rows:     rows,
	}
	if err := s.repo.Save(ctx, upload); err != nil {
		return nil, fmt.Errorf("failed to store upload %s: %w", filename, err)
	}
	s.logger.Info("stored upload %s (%s, %d rows)", filename, upload.ID, len(rows))

	sns, bySN := analysis.SplitBySN(rows)
	if len(sns) > 1 {
		summary, err := analysis.Summarize(ctx, rows)
		if err != nil {
			return nil, err
		}
		return &press.UploadResult{
			Filename: filename,
			View:     press.ViewMultiPress,
			Summary:  summary,
		}, nil
	}

	data := analysis.BuildPressData(sns[0], bySN[sns[0]])
	return &press.UploadResult{
		Filename:      filename,
		View:          press.ViewSingle,
		SN:            data.SN,
		StartTimes:    data.StartTimes,
		OverallHealth: data.OverallHealth,
		Sessions:      data.Sessions,
	}, nil
}

// FetchPressData returns the sessions of press sn in the stored upload filename
func (s *Service) FetchPressData(ctx context.Context, filename string, sn int) (*press.PressData, error) {
	upload, err := s.repo.GetByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	rows := analysis.FilterSN(upload.Rows, sn)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sn %d in %s", core.ErrPressNotFound, sn, filename)
	}
	s.logger.Debug("press %d of %s: %d rows", sn, filename, len(rows))
	return analysis.BuildPressData(sn, rows), nil
}

// ProcessData cleans a session and reports its error spread
func (s *Service) ProcessData(ctx context.Context, req press.ProcessRequest) (*press.ProcessResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.RemoveOutliers && req.OutlierLevel == 0 {
		req.OutlierLevel = s.defaultLevel
	}
	return analysis.Process(req)
}

// ErrorStats counts the scaling and gap statuses of a session
func (s *Service) ErrorStats(ctx context.Context, rows []press.Row) (*press.ErrorStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return analysis.SessionErrorStats(rows), nil
}

// SessionHealth evaluates one session of a stored upload
func (s *Service) SessionHealth(ctx context.Context, filename string, sn int, sessionKey string) (health.Health, error) {
	data, err := s.FetchPressData(ctx, filename, sn)
	if err != nil {
		return health.Health{}, err
	}
	rows, ok := data.Session(sessionKey)
	if !ok {
		return health.Health{}, fmt.Errorf("%w: %s", core.ErrSessionNotFound, sessionKey)
	}
	return health.Evaluate(rows), nil
}

// Report builds the health report of a stored upload
func (s *Service) Report(ctx context.Context, filename string) (*report.Document, error) {
	upload, err := s.repo.GetByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	return report.Build(ctx, filename, upload.Rows)
}

// Uploads lists stored upload headers, newest first
func (s *Service) Uploads(ctx context.Context, limit int) ([]*press.Upload, error) {
	return s.repo.List(ctx, limit)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
