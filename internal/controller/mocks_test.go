package controller

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"presshealth/domain/chart"
	"presshealth/domain/press"
)

type MockPressService struct {
	mock.Mock
}

func (m *MockPressService) Upload(ctx context.Context, filename string, file io.Reader) (*press.UploadResult, error) {
	args := m.Called(ctx, filename, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*press.UploadResult), args.Error(1)
}

func (m *MockPressService) FetchPressData(ctx context.Context, filename string, sn int) (*press.PressData, error) {
	args := m.Called(ctx, filename, sn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*press.PressData), args.Error(1)
}

func (m *MockPressService) ProcessData(ctx context.Context, req press.ProcessRequest) (*press.ProcessResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*press.ProcessResult), args.Error(1)
}

func (m *MockPressService) ErrorStats(ctx context.Context, rows []press.Row) (*press.ErrorStats, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*press.ErrorStats), args.Error(1)
}

// recordingRenderer keeps every draw call in order
type recordingRenderer struct {
	mu       sync.Mutex
	rendered []chart.Panel
	removed  []string
	onRender func(chart.Panel)
}

func (r *recordingRenderer) RenderPanel(p chart.Panel) {
	r.mu.Lock()
	r.rendered = append(r.rendered, p)
	hook := r.onRender
	r.mu.Unlock()
	if hook != nil {
		hook(p)
	}
}

func (r *recordingRenderer) RemovePanel(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, key)
}

func (r *recordingRenderer) renders(key string) []chart.Panel {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chart.Panel
	for _, p := range r.rendered {
		if p.SessionKey == key {
			out = append(out, p)
		}
	}
	return out
}
