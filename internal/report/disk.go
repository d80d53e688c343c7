package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DiskStore writes Records as JSON files to a lazily-created directory.
// The default directory lives under the user cache dir so records
// survive across processes (the CLI's inspect command reads runs that
// earlier commands recorded).
type DiskStore struct {
	mu  sync.Mutex
	dir string
	// configured is the requested directory; empty means pick the default.
	configured string
}

// NewDiskStore creates a DiskStore rooted at the default location
// (user cache dir, falling back to a temp dir). The directory is
// created lazily on first use.
func NewDiskStore() *DiskStore {
	return &DiskStore{}
}

// NewDiskStoreIn creates a DiskStore rooted at dir, created lazily.
func NewDiskStoreIn(dir string) *DiskStore {
	return &DiskStore{configured: dir}
}

// Save writes a Record as a JSON file to disk.
func (s *DiskStore) Save(rec *Record) error {
	dir, err := s.ensureDir()
	if err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling record %s: %w", rec.ID, err)
	}
	path := filepath.Join(dir, rec.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing record %s: %w", rec.ID, err)
	}
	return nil
}

// Load reads a Record from disk.
func (s *DiskStore) Load(runID string) (*Record, error) {
	dir, err := s.ensureDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, runID+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", runID, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling record %s: %w", runID, err)
	}
	return &rec, nil
}

func (s *DiskStore) ensureDir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir != "" {
		return s.dir, nil
	}

	dir := s.configured
	if dir == "" {
		if cache, err := os.UserCacheDir(); err == nil {
			dir = filepath.Join(cache, "sigrokdev", "runs")
		} else {
			dir = filepath.Join(os.TempDir(), "sigrokdev-runs")
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating record directory: %w", err)
	}
	s.dir = dir
	return dir, nil
}
