package ui

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"datalens/domain/core"
	"datalens/internal/errors"
	"datalens/internal/ingest"
	"datalens/internal/profiler"
	"datalens/internal/store"
)

// handleUpload accepts a multipart file, routes it by extension and stores
// the analysis under a fresh file ID.
func (s *Server) handleUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, errors.InvalidInput("missing multipart field 'file'"))
		return
	}
	if header.Size > s.cfg.Upload.MaxBytes {
		s.respondError(c, errors.InvalidInput("file exceeds the upload size limit"))
		return
	}

	processed, err := s.processUpload(c, header.Filename, func(dst string) error {
		return c.SaveUploadedFile(header, dst)
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.files.Put(processed)
	if err := s.retriever.Index(c.Request.Context(), processed.ID, processed.Chunks); err != nil {
		s.logger.Warn("failed to index chunks for %s: %v", processed.ID, err)
	}

	s.logger.Info("processed %s as %s (%s)", header.Filename, processed.ID, processed.Kind)
	c.JSON(http.StatusOK, processed)
}

// processUpload saves the upload to a temp file and dispatches on the
// extension. The temp file is removed before returning.
func (s *Server) processUpload(c *gin.Context, filename string, save func(dst string) error) (*store.ProcessedFile, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	tmp, err := os.CreateTemp(s.cfg.Upload.TempDir, "upload-*"+ext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := save(tmpPath); err != nil {
		return nil, errors.Wrap(err, "failed to save upload")
	}

	processed := &store.ProcessedFile{
		ID:         core.NewFileID(),
		Filename:   filename,
		UploadedAt: core.Now(),
	}

	switch ext {
	case ".csv":
		return s.processTabular(tmpPath, processed)
	case ".xlsx", ".xls":
		return s.processWorkbook(c, tmpPath, processed)
	case ".txt":
		return s.processDocument(tmpPath, processed)
	default:
		return nil, errors.UnsupportedFormat(ext)
	}
}

func (s *Server) processTabular(path string, processed *store.ProcessedFile) (*store.ProcessedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open upload")
	}
	defer f.Close()

	ds, err := ingest.ReadCSV(f)
	if err != nil {
		return nil, err
	}
	summary, err := s.profiler.ProfileDataset(ds)
	if err != nil {
		return nil, err
	}

	processed.Kind = store.KindTabular
	processed.Analysis = summary
	processed.Chunks = s.chunker.ChunkSummary(summary)
	return processed, nil
}

func (s *Server) processWorkbook(c *gin.Context, path string, processed *store.ProcessedFile) (*store.ProcessedFile, error) {
	sheets, err := ingest.ReadWorkbook(path)
	if err != nil {
		return nil, err
	}

	analyses, workbook, err := s.profiler.ProfileWorkbook(c.Request.Context(), sheets, s.cfg.Upload.SheetConcurrency)
	if err != nil {
		return nil, errors.Wrap(err, "workbook analysis aborted")
	}

	processed.Kind = store.KindWorkbook
	processed.Sheets = analyses
	processed.Workbook = workbook
	for _, sheet := range analyses {
		if sheet.Analysis != nil {
			processed.Chunks = append(processed.Chunks, s.chunker.ChunkSummary(sheet.Analysis)...)
		}
	}
	if len(processed.Chunks) == 0 {
		return nil, errors.InvalidInput("no sheet could be analyzed")
	}
	return processed, nil
}

func (s *Server) processDocument(path string, processed *store.ProcessedFile) (*store.ProcessedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}
	text := string(content)
	if strings.TrimSpace(text) == "" {
		return nil, errors.InvalidInput("document is empty")
	}

	words := len(strings.Fields(text))
	processed.Kind = store.KindDocument
	processed.Document = profiler.AnalyzeDocument(text, []int{words})
	processed.Chunks = s.chunker.ChunkDocument(text)
	return processed, nil
}

// handleFile returns a previously processed file by ID
func (s *Server) handleFile(c *gin.Context) {
	id, err := core.ParseFileID(c.Param("id"))
	if err != nil {
		s.respondError(c, errors.InvalidInput("invalid file ID"))
		return
	}
	processed, err := s.files.Get(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, processed)
}

type chatContextRequest struct {
	FileID   string `json:"file_id" binding:"required"`
	Question string `json:"question" binding:"required"`
	TopK     int    `json:"top_k"`
}

// handleChatContext returns the chunks most relevant to a question about
// an uploaded file.
func (s *Server) handleChatContext(c *gin.Context) {
	var req chatContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput("file_id and question are required"))
		return
	}
	id, err := core.ParseFileID(req.FileID)
	if err != nil {
		s.respondError(c, errors.InvalidInput("invalid file ID"))
		return
	}

	chunks, err := s.retriever.Query(c.Request.Context(), id, req.Question, req.TopK)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"file_id": id,
		"chunks":  chunks,
	})
}

// respondError maps error codes to HTTP statuses
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeUnsupportedFormat:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
