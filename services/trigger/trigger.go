package trigger

import (
	"context"
	"crypto/subtle"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"sjsage522/offerwatch/logger"
	"sjsage522/offerwatch/pkg/errors"
	"sjsage522/offerwatch/services/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIKeyHeader carries the shared secret when one is configured
const APIKeyHeader = "x-api-key"

// snapshotRequest is the optional body of POST /snapshot-products
type snapshotRequest struct {
	ForceNotify bool `json:"force_notify"`
}

// Server exposes on-demand snapshot runs over HTTP
type Server struct {
	runner worker.Runner
	apiKey string
	router *gin.Engine
	server *http.Server
	logger *logger.Logger
}

// New creates the trigger server. An empty apiKey disables the key check.
func New(runner worker.Runner, apiKey string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		runner: runner,
		apiKey: apiKey,
		router: gin.New(),
		logger: logger.ForTrigger(),
	}

	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.GET("/healthz", s.health)
	s.router.POST("/snapshot-products", s.requireAPIKey(), s.snapshotProducts)
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until Shutdown
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info().Str("addr", addr).Msg("HTTP trigger listening")

	err := s.server.ListenAndServe()
	if stderrors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for active ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) snapshotProducts(c *gin.Context) {
	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := s.runner.Run(c.Request.Context(), worker.RunOptions{ForceNotify: req.ForceNotify})
	if stderrors.Is(err, worker.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": worker.ErrorSummary(err),
			"type":  errors.TypeOf(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": result.Summary()})
}

func (s *Server) requireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.apiKey == "" {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
