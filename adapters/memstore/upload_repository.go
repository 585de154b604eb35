// Package memstore keeps uploads in process memory. It backs STORE_DRIVER=memory
// and tests; nothing survives a restart.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"presshealth/domain/core"
	"presshealth/domain/press"
	"presshealth/ports"
)

type uploadRepository struct {
	mu         sync.RWMutex
	byID       map[core.UploadID]*press.Upload
	byFilename map[string]core.UploadID
}

// NewUploadRepository creates an empty in-memory repository
func NewUploadRepository() ports.UploadRepository {
	return &uploadRepository{
		byID:       make(map[core.UploadID]*press.Upload),
		byFilename: make(map[string]core.UploadID),
	}
}

func (r *uploadRepository) Save(ctx context.Context, upload *press.Upload) error {
	if upload.ID.String() == "" {
		upload.ID = core.NewUploadID()
	}
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now()
	}
	upload.RowCount = len(upload.Rows)

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byFilename[upload.Filename]; ok {
		delete(r.byID, prev)
	}
	r.byID[upload.ID] = clone(upload, true)
	r.byFilename[upload.Filename] = upload.ID
	return nil
}

func (r *uploadRepository) GetByFilename(ctx context.Context, filename string) (*press.Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byFilename[filename]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUploadNotFound, filename)
	}
	return clone(r.byID[id], true), nil
}

func (r *uploadRepository) GetByID(ctx context.Context, id core.UploadID) (*press.Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUploadNotFound, id)
	}
	return clone(u, true), nil
}

func (r *uploadRepository) List(ctx context.Context, limit int) ([]*press.Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*press.Upload, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, clone(u, false))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *uploadRepository) Delete(ctx context.Context, id core.UploadID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byID, id)
	if r.byFilename[u.Filename] == id {
		delete(r.byFilename, u.Filename)
	}
	return nil
}

// clone copies the header and, when asked, the row slice so callers cannot
// mutate stored state
func clone(u *press.Upload, withRows bool) *press.Upload {
	c := *u
	c.Rows = nil
	if withRows {
		c.Rows = append([]press.Row(nil), u.Rows...)
	}
	return &c
}
