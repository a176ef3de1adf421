// Package server exposes the metadata fetcher over HTTP for callers that
// would rather POST a URL than link the library.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"metafetcher"
)

// defaultFetchTimeout bounds the two network round trips behind one request.
const defaultFetchTimeout = 30 * time.Second

// FetchFunc resolves a URL to its metadata. Wired to metafetcher.FetchMetadata
// in production; tests substitute a double.
type FetchFunc func(ctx context.Context, rawURL string) (metafetcher.Metadata, error)

type previewRequest struct {
	URL string `json:"url" binding:"required"`
}

type previewResponse struct {
	URL string `json:"url"`
	metafetcher.Metadata
}

// Server serves link-preview metadata over HTTP.
type Server struct {
	engine       *gin.Engine
	logger       *zap.Logger
	fetch        FetchFunc
	fetchTimeout time.Duration
}

// New assembles the routes. A zero fetchTimeout selects the default.
func New(logger *zap.Logger, fetch FetchFunc, fetchTimeout time.Duration) *Server {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:       engine,
		logger:       logger,
		fetch:        fetch,
		fetchTimeout: fetchTimeout,
	}

	engine.GET("/healthz", s.handleHealth)
	engine.POST("/preview", s.handlePreview)

	return s
}

// Handler returns the server's HTTP handler for mounting in an http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePreview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected JSON body with a 'url' field"})
		return
	}

	rawURL := strings.TrimSpace(req.URL)

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.fetchTimeout)
	defer cancel()

	meta, err := s.fetch(ctx, rawURL)
	if err != nil {
		status := statusForError(err)
		s.logger.Warn("preview fetch failed",
			zap.String("url", rawURL),
			zap.Int("status", status),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": err.Error(), "url": rawURL})
		return
	}

	s.logger.Info("preview fetched", zap.String("url", rawURL))
	c.JSON(http.StatusOK, previewResponse{URL: rawURL, Metadata: meta})
}

// Maps the fetcher's error kinds onto HTTP statuses. Upstream failures are
// the gateway's fault as far as our caller is concerned.
func statusForError(err error) int {
	switch {
	case errors.Is(err, metafetcher.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, metafetcher.ErrCrawlingDisallowed):
		return http.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	var httpErr *metafetcher.HTTPError
	if errors.As(err, &httpErr) {
		return http.StatusBadGateway
	}
	return http.StatusBadGateway
}
