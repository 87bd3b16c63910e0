// Package server exposes the conversion service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JoquimMarques/flipdoc/convert"
	"github.com/JoquimMarques/flipdoc/internal/config"
	"github.com/JoquimMarques/flipdoc/internal/logger"
	"github.com/JoquimMarques/flipdoc/internal/metrics"
)

// Options wires a Server. Metrics may be nil.
type Options struct {
	Name        string
	Service     *convert.Service
	Logger      *zap.Logger
	Metrics     *metrics.Collector
	MetricsPath string
	MaxBodySize int64
	CORS        CORSConfig
}

// Server routes HTTP requests to a conversion service.
type Server struct {
	name   string
	svc    *convert.Service
	log    *zap.Logger
	engine *gin.Engine
	// largest accepted upload, 0 for no limit
	maxFile int64
}

// New builds the router and its middleware chain.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Name == "" {
		opts.Name = "flipdoc"
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	setupValidator()

	s := &Server{name: opts.Name, svc: opts.Service, log: opts.Logger, maxFile: opts.MaxBodySize}

	engine := gin.New()
	engine.Use(RequestID())
	engine.Use(logger.Recovery(opts.Logger))
	engine.Use(logger.GinMiddleware(opts.Logger))
	if opts.Metrics != nil {
		engine.Use(opts.Metrics.GinMiddleware())
	}
	engine.Use(CORS(opts.CORS))

	engine.GET("/", s.status)

	convertGroup := engine.Group("/")
	if opts.MaxBodySize > 0 {
		convertGroup.Use(BodyLimit(opts.MaxBodySize))
	}
	convertGroup.POST("/text-to-pdf", s.textToPDF)
	convertGroup.POST("/image-to-pdf", s.imageToPDF)
	convertGroup.POST("/word-to-pdf", s.wordToPDF)

	if opts.Metrics != nil {
		engine.GET(opts.MetricsPath, gin.WrapH(opts.Metrics.Handler()))
	}
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse("NOT_FOUND", "route not found", ""))
	})

	s.engine = engine
	return s
}

// NewFromConfig builds a Server from loaded configuration.
func NewFromConfig(cfg *config.Config, svc *convert.Service, log *zap.Logger, m *metrics.Collector) *Server {
	if !cfg.Metrics.Enabled {
		m = nil
	}
	return New(Options{
		Name:        cfg.App.Name,
		Service:     svc,
		Logger:      log,
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
		MaxBodySize: cfg.HTTP.MaxBodySize,
		CORS: CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
			MaxAge:       12 * time.Hour,
		},
	})
}

// Handler returns the gin engine as an http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is canceled, then drains in-flight requests for up to
// cfg.HTTP.ShutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, hc config.HTTPConfig) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  hc.ReadTimeout,
		WriteTimeout: hc.WriteTimeout,
		IdleTimeout:  hc.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), hc.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("Server exited gracefully")
	return nil
}
