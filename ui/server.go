// Package ui exposes the analysis pipeline over HTTP: upload a file, read
// its analysis back, and pull retrieval context for chat questions.
package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datalens/internal"
	"datalens/internal/config"
	"datalens/internal/profiler"
	"datalens/internal/retrieval"
	"datalens/internal/store"
)

// Server wires the HTTP routes to the analysis services
type Server struct {
	router    *gin.Engine
	cfg       *config.Config
	logger    *internal.Logger
	profiler  *profiler.Profiler
	files     *store.MemoryStore
	chunker   *retrieval.Chunker
	retriever *retrieval.Retriever
}

// NewServer creates a server with all dependencies wired
func NewServer(cfg *config.Config, logger *internal.Logger, p *profiler.Profiler, files *store.MemoryStore, chunker *retrieval.Chunker, retriever *retrieval.Retriever) *Server {
	gin.SetMode(cfg.Server.GinMode)
	s := &Server{
		router:    gin.New(),
		cfg:       cfg,
		logger:    logger,
		profiler:  p,
		files:     files,
		chunker:   chunker,
		retriever: retriever,
	}
	s.router.Use(gin.Recovery())
	s.router.MaxMultipartMemory = cfg.Upload.MaxBytes
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleHealth)
	s.router.POST("/upload", s.handleUpload)
	s.router.GET("/file/:id", s.handleFile)
	s.router.POST("/chat-context", s.handleChatContext)
}

// Handler exposes the router for the http server and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"files_processed": s.files.Len(),
	})
}
