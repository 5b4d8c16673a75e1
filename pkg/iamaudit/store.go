package iamaudit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ReportFilename returns the conventional report file name,
// e.g. iam_report_2025-03-01.txt.
func ReportFilename(date, ext string) string {
	return fmt.Sprintf("iam_report_%s.%s", date, ext)
}

// FileReportStore writes reports into a directory on disk.
type FileReportStore struct {
	dir string
}

// NewFileReportStore creates a file-based report store rooted at dir.
// An empty dir selects DefaultReportDir.
func NewFileReportStore(dir string) *FileReportStore {
	if dir == "" {
		dir = DefaultReportDir
	}
	return &FileReportStore{dir: dir}
}

// Dir returns the directory reports are written to.
func (s *FileReportStore) Dir() string {
	return s.dir
}

// Save implements ReportStore. The file is written atomically.
func (s *FileReportStore) Save(ctx context.Context, name string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", ErrStorage("failed to create report directory").WithCause(err)
	}

	path := filepath.Join(s.dir, name)
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, content, 0o644); err != nil {
		return "", ErrStorage("failed to write temp report file").WithCause(err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return "", ErrStorage("failed to rename report file").WithCause(err)
	}

	return path, nil
}

// MemoryReportStore keeps reports in memory. Used in tests.
type MemoryReportStore struct {
	mu      sync.RWMutex
	reports map[string][]byte
}

// NewMemoryReportStore creates a new in-memory report store.
func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{reports: make(map[string][]byte)}
}

// Save implements ReportStore.
func (s *MemoryReportStore) Save(_ context.Context, name string, content []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[name] = append([]byte(nil), content...)
	return name, nil
}

// Get returns a stored report.
func (s *MemoryReportStore) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.reports[name]
	return data, ok
}
