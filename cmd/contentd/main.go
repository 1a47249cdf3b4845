package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/controlplane-com/content-seeder/pkg/config"
	"github.com/controlplane-com/content-seeder/pkg/content/badges"
	"github.com/controlplane-com/content-seeder/pkg/content/lessons"
	"github.com/controlplane-com/content-seeder/pkg/server"
	"github.com/controlplane-com/content-seeder/pkg/watch"
)

func main() {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	cfg, err := config.LoadConfig(getEnv("CONFIG_FILE", ""))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	srv := server.New()
	if err := loadContent(srv, cfg); err != nil {
		slog.Error("failed to load content", "error", err)
		os.Exit(1)
	}

	topicsPath := cfg.OutputPath(cfg.Output.TopicsFile)
	if err := loadTopics(srv, topicsPath); err != nil {
		slog.Error("failed to load topic catalog", "path", topicsPath, "error", err)
		os.Exit(1)
	}

	if cfg.Server.Token == "" {
		slog.Warn("AUTH_TOKEN not set, API is unauthenticated")
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Handler(cfg.Server.Token),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("content server starting HTTP server", "listenAddr", cfg.Server.Listen)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if getEnv("WATCH", "true") == "true" {
		go watchTopics(ctx, srv, topicsPath)
	}

	<-ctx.Done()
	slog.Info("received shutdown signal, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

// loadContent generates the badge catalog and course in memory.
func loadContent(srv *server.Server, cfg *config.Config) error {
	tables, err := cfg.Content.LoadBadgeTables()
	if err != nil {
		return err
	}
	catalog, err := badges.Generate(tables)
	if err != nil {
		return err
	}
	srv.SetBadges(catalog)

	def, err := cfg.Content.LoadCourseDef()
	if err != nil {
		return err
	}
	course := lessons.BuildCourse(def)
	srv.SetCourse(course)

	slog.Info("loaded content", "badges", catalog.TotalBadges, "courseId", course.CourseID, "lessons", course.TotalLessons)
	return nil
}

// loadTopics reads the topic catalog file. A missing file is not an error.
func loadTopics(srv *server.Server, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("topic catalog not found, serving courses only", "path", path)
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	catalog, err := lessons.ReadTopicCatalog(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	srv.SetTopics(catalog)

	slog.Info("loaded topic catalog", "path", path, "modules", len(catalog.Modules), "totalTopics", catalog.TotalTopics)
	return nil
}

// watchTopics reloads the topic catalog whenever the file changes.
func watchTopics(ctx context.Context, srv *server.Server, path string) {
	w, err := watch.New([]string{path}, func(string) error {
		return loadTopics(srv, path)
	}, watch.DefaultDebounce)
	if err != nil {
		slog.Warn("topic catalog watch disabled", "path", path, "error", err)
		return
	}
	defer w.Close()

	if err := w.Run(ctx); err != nil {
		slog.Error("topic catalog watch stopped", "error", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
