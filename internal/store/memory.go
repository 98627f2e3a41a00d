// Package store keeps processed files in memory for the lifetime of the
// process. Uploads are profiled once and then only read.
package store

import (
	"sync"

	"datalens/domain/core"
	"datalens/domain/profile"
	"datalens/internal/errors"
)

// FileKind distinguishes how an upload was processed
type FileKind string

const (
	KindTabular  FileKind = "tabular"
	KindWorkbook FileKind = "workbook"
	KindDocument FileKind = "document"
)

// ProcessedFile is the stored result of one upload
type ProcessedFile struct {
	ID         core.FileID              `json:"file_id"`
	Filename   string                   `json:"filename"`
	Kind       FileKind                 `json:"kind"`
	UploadedAt core.Timestamp           `json:"uploaded_at"`
	Analysis   *profile.AnalysisSummary `json:"analysis,omitempty"`
	Sheets     []profile.SheetAnalysis  `json:"sheets,omitempty"`
	Workbook   *profile.WorkbookSummary `json:"workbook,omitempty"`
	Document   *profile.DocumentStats   `json:"document,omitempty"`
	Chunks     []string                 `json:"-"`
}

// MemoryStore is a concurrency-safe registry of processed files
type MemoryStore struct {
	mu    sync.RWMutex
	files map[core.FileID]*ProcessedFile
}

// NewMemoryStore creates an empty registry
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[core.FileID]*ProcessedFile)}
}

// Put registers a processed file under its ID
func (s *MemoryStore) Put(file *ProcessedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[file.ID] = file
}

// Get returns the file for an ID
func (s *MemoryStore) Get(id core.FileID) (*ProcessedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	file, found := s.files[id]
	if !found {
		return nil, errors.NotFound("file " + id.String())
	}
	return file, nil
}

// Len returns the number of stored files
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
