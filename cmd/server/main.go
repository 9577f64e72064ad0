package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/classlogo/designer/internal/config"
	"github.com/classlogo/designer/internal/engine"
	"github.com/classlogo/designer/internal/export"
	"github.com/classlogo/designer/internal/project"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	projectService, err := project.NewService(cfg.ProjectDir)
	if err != nil {
		slog.Error("open project store", "error", err, "dir", cfg.ProjectDir)
		os.Exit(1)
	}
	projectHandler := project.NewHandler(projectService)

	canvas := engine.Viewport{Width: float64(cfg.CanvasWidth), Height: float64(cfg.CanvasHeight)}
	exportHandler := export.NewHandler(canvas, cfg.ThumbnailSize)

	r := newRouter(cfg, projectHandler, exportHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "web", cfg.WebDir, "projects", cfg.ProjectDir)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
