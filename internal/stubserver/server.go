// Package stubserver serves the recommendation backend's HTTP surface for
// local development: GET /hello and POST /recommend_cocktail.
package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cocktailnerd/internal/backend"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const statusSuccess = "success"

// Config configures the stub server.
type Config struct {
	Addr           string
	AllowedOrigins []string
}

type recommendRequest struct {
	Query string   `json:"query" binding:"required"`
	Tags  []string `json:"tags"`
}

type recommendResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Server is the stub backend.
type Server struct {
	cfg         Config
	recommender backend.Backend
	log         *zap.Logger
	engine      *gin.Engine
}

// New builds the router. A nil recommender serves canned answers.
func New(cfg Config, recommender backend.Backend, log *zap.Logger) *Server {
	if recommender == nil {
		recommender = Canned{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cfg: cfg, recommender: recommender, log: log}
	s.engine = s.newRouter()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	if len(s.cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: s.cfg.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Content-Type", "X-Request-ID"},
			MaxAge:       12 * time.Hour,
		}))
	}

	router.GET("/hello", s.hello)
	router.POST("/recommend_cocktail", s.recommend)
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("method", strings.ToUpper(c.Request.Method)),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if id := c.GetHeader("X-Request-ID"); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			s.log.Error("HTTP request", fields...)
		case status >= 400:
			s.log.Warn("HTTP request", fields...)
		default:
			s.log.Info("HTTP request", fields...)
		}
	}
}

func (s *Server) hello(c *gin.Context) {
	c.JSON(http.StatusOK, backend.HelloResponse{Message: "Hello, World!", Status: statusSuccess})
}

func (s *Server) recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: `Missing or empty "query" field`})
		return
	}

	payload, err := s.recommender.Recommend(c.Request.Context(), backend.Request{
		ID:    c.GetHeader("X-Request-ID"),
		Query: req.Query,
		Tags:  req.Tags,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("Error: %v", err)})
		return
	}

	var out recommendResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Error: recommender returned an unreadable payload"})
		return
	}
	c.JSON(http.StatusOK, recommendResponse{Response: out.Response, Status: statusSuccess})
}

// Run serves on cfg.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("stub backend listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stub backend shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
