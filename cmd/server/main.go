// Command server runs the flipdoc HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JoquimMarques/flipdoc/convert"
	"github.com/JoquimMarques/flipdoc/extract"
	"github.com/JoquimMarques/flipdoc/internal/config"
	"github.com/JoquimMarques/flipdoc/internal/logger"
	"github.com/JoquimMarques/flipdoc/internal/metrics"
	"github.com/JoquimMarques/flipdoc/internal/server"
	"github.com/JoquimMarques/flipdoc/layout"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.LoggerConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	geometry, err := cfg.Page.Geometry()
	if err != nil {
		return err
	}
	backend, err := convert.OpenBackend(convert.BackendOptions{
		Name:     cfg.Render.Backend,
		Creator:  cfg.Render.Creator,
		Font:     geometry.Font,
		FontPath: cfg.Render.FontPath,
	})
	if err != nil {
		return err
	}

	log.Info("Starting flipdoc",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("backend", cfg.Render.Backend),
		zap.Float64("page_width", geometry.Width),
		zap.Float64("page_height", geometry.Height),
		zap.Int("lines_per_page", geometry.LinesPerPage()),
	)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	collector := metrics.New(metrics.Config{Namespace: "flipdoc"})
	svc := convert.New(backend, extract.Office{}, convert.Options{
		Geometry: geometry,
		Bounds:   cfg.Image.Bounds(),
		Meta:     layout.DocumentMeta{Title: cfg.Render.Title, Creator: cfg.Render.Creator},
		TempDir:  cfg.App.TempDir,
		Logger:   log,
		Recorder: collector,
	})
	srv := server.NewFromConfig(cfg, svc, log, collector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, cfg.Addr(), cfg.HTTP)
}
