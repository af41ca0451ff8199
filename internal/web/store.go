// Package web provides the HTTP server and browsing UI for the collection dataset.
package web

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/justestif/go-vinyl-collection/internal/collection"
	"github.com/justestif/go-vinyl-collection/internal/dataset"
)

// DatasetStore serves the dataset file, reloading it when the file changes.
type DatasetStore struct {
	path string

	mu      sync.RWMutex
	loaded  bool
	modTime time.Time
	size    int64
	ds      collection.Dataset
}

// NewDatasetStore creates a store for the dataset at path. Nothing is read
// until the first Get.
func NewDatasetStore(path string) *DatasetStore {
	return &DatasetStore{path: path}
}

// Get returns the current dataset. A missing file yields an empty dataset.
func (s *DatasetStore) Get() (collection.Dataset, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return collection.Dataset{}, nil
	}
	if err != nil {
		return collection.Dataset{}, fmt.Errorf("stat dataset: %w", err)
	}

	s.mu.RLock()
	if s.loaded && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		ds := s.ds
		s.mu.RUnlock()
		return ds, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have reloaded while the lock was released.
	if s.loaded && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return s.ds, nil
	}

	ds, err := dataset.Load(s.path)
	if err != nil {
		return collection.Dataset{}, err
	}
	s.ds = ds
	s.modTime = info.ModTime()
	s.size = info.Size()
	s.loaded = true
	return ds, nil
}
