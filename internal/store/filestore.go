package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"threshold-studio/internal/logger"
)

// FileStore keeps opened image files in memory, keyed by a generated id, so
// the thresholding endpoint locator ("/api/thresholding/<id>") addresses a
// real file when no remote backend is configured.
type FileStore struct {
	mu     sync.RWMutex
	files  map[string][]byte
	logger logger.Logger
}

func NewFileStore(log logger.Logger) *FileStore {
	return &FileStore{
		files:  make(map[string][]byte),
		logger: log,
	}
}

// Upload assigns a fresh id to the file and stores its bytes. The signature
// matches the backend client's Upload, so screens do not care which of the
// two they were given.
func (s *FileStore) Upload(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("refusing to store empty file %q", name)
	}

	id := uuid.NewString()

	s.mu.Lock()
	s.files[id] = data
	s.mu.Unlock()

	s.logger.Debug("FileStore", "file stored", map[string]interface{}{
		"name":       name,
		"file_id":    id,
		"size_bytes": len(data),
	})

	return id, nil
}

func (s *FileStore) Get(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[id]
	return data, ok
}

// Clear drops every stored file. Called on shutdown.
func (s *FileStore) Clear() {
	s.mu.Lock()
	count := len(s.files)
	s.files = make(map[string][]byte)
	s.mu.Unlock()

	s.logger.Debug("FileStore", "cleared", map[string]interface{}{
		"files_dropped": count,
	})
}
