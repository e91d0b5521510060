package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/agenthands/textgraph/internal/buildlog"
	"github.com/agenthands/textgraph/internal/config"
	"github.com/agenthands/textgraph/internal/core"
	"github.com/agenthands/textgraph/internal/nlp"
	"github.com/agenthands/textgraph/internal/pdftext"
)

const version = "1.0.0"

// BuildLister answers build history queries.
type BuildLister interface {
	ListBuilds(ctx context.Context, sessionID string, limit int) ([]buildlog.BuildRecord, error)
}

type Server struct {
	Builder *core.Builder
	Builds  BuildLister
	Config  config.ServerConfig
	Logger  *logrus.Logger
}

func NewServer(builder *core.Builder, builds BuildLister, cfg config.ServerConfig, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{Builder: builder, Builds: builds, Config: cfg, Logger: logger}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequest)
	r.Use(cors.New(s.corsConfig()))
	if s.Config.MaxUploadMB > 0 {
		r.MaxMultipartMemory = int64(s.Config.MaxUploadMB) << 20
	}

	r.GET("/", s.Root)
	r.GET("/health", s.Health)

	r.POST("/build", s.Build)
	r.POST("/build/pdf", s.BuildPDF)
	r.POST("/build/bulk", s.BuildBulk)
	r.POST("/extract", s.Extract)

	sessions := r.Group("/sessions/:id")
	{
		sessions.DELETE("", s.ClearSession)
		sessions.GET("/stats", s.Stats)
		sessions.GET("/graph", s.Graph)
		sessions.GET("/builds", s.ListBuilds)
	}

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       time.Duration(s.Config.CORSMaxAgeHours) * time.Hour,
	}
	for _, o := range s.Config.CORSOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = s.Config.CORSOrigins
	cfg.AllowCredentials = true
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cfg
}

func (s *Server) logRequest(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.Logger.WithFields(logrus.Fields{
		"method":  c.Request.Method,
		"path":    c.FullPath(),
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}).Info("request")
}

func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Knowledge Graph Builder API",
		"status":  "running",
		"version": version,
	})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) Build(c *gin.Context) {
	var req core.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	resp, err := s.Builder.Build(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err, "Failed to build graph")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) BuildPDF(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A PDF file is required in the 'file' field"})
		return
	}
	if limit := int64(s.Config.MaxUploadMB) << 20; limit > 0 && header.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	f, err := header.Open()
	if err != nil {
		s.fail(c, err, "Failed to read upload")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		s.fail(c, err, "Failed to read upload")
		return
	}

	text, err := pdftext.Extract(data)
	if err != nil {
		s.Logger.WithError(err).WithField("file", header.Filename).Warn("pdf extraction failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not extract text from PDF"})
		return
	}

	documentID := c.PostForm("document_id")
	if documentID == "" {
		documentID = header.Filename
	}
	resp, err := s.Builder.Build(c.Request.Context(), core.BuildRequest{
		Text:       text,
		SessionID:  c.PostForm("session_id"),
		DocumentID: documentID,
	})
	if err != nil {
		s.fail(c, err, "Failed to build graph")
		return
	}
	c.JSON(http.StatusOK, resp)
}

type BulkRequest struct {
	Documents []core.BuildRequest `json:"documents"`
}

type BulkItem struct {
	core.BatchResult
	Error string `json:"error,omitempty"`
}

func (s *Server) BuildBulk(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Documents) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	results, err := s.Builder.BuildBatch(c.Request.Context(), req.Documents)
	if err != nil {
		s.fail(c, err, "Failed to build graphs")
		return
	}

	items := make([]BulkItem, len(results))
	for i, r := range results {
		items[i] = BulkItem{BatchResult: r}
		if r.Err != nil {
			items[i].Error = r.Err.Error()
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": items})
}

type ExtractRequest struct {
	Text       string `json:"text"`
	DocumentID string `json:"document_id"`
}

func (s *Server) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	res, err := s.Builder.Extract(c.Request.Context(), req.Text, req.DocumentID)
	if err != nil {
		s.fail(c, err, "Failed to extract")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) ClearSession(c *gin.Context) {
	id := c.Param("id")
	if err := s.Builder.ClearSession(c.Request.Context(), id); err != nil {
		s.fail(c, err, "Failed to clear session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared", "session_id": id})
}

func (s *Server) Stats(c *gin.Context) {
	stats, err := s.Builder.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Failed to load stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) Graph(c *gin.Context) {
	vis, err := s.Builder.Visualization(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Failed to load graph")
		return
	}
	c.JSON(http.StatusOK, vis)
}

func (s *Server) ListBuilds(c *gin.Context) {
	if s.Builds == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Build history is not enabled"})
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	builds, err := s.Builds.ListBuilds(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		s.fail(c, err, "Failed to list builds")
		return
	}
	c.JSON(http.StatusOK, gin.H{"builds": builds})
}

// fail maps pipeline errors to status codes; anything unrecognised is a 500.
func (s *Server) fail(c *gin.Context, err error, msg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.WithError(err).Error(msg)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrEmptyText), errors.Is(err, core.ErrEmptySession):
		return http.StatusBadRequest
	case errors.Is(err, nlp.ErrDocumentTooLong):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
