package main

import (
	"log/slog"
	"os"

	"github.com/controlplane-com/content-seeder/actions"
	"github.com/controlplane-com/content-seeder/pkg/config"
)

func main() {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// Configuration from environment
	action := getEnv("ACTION", "all")
	configPath := getEnv("CONFIG_FILE", "")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("content generator starting", "action", action, "outputDir", cfg.Output.Dir)

	ctx := &actions.Context{Config: cfg}

	// Execute action
	var actionErr error
	switch action {
	case "badges":
		actionErr = actions.Badges(ctx)
	case "course":
		actionErr = actions.Course(ctx)
	case "topics":
		actionErr = actions.Topics(ctx)
	case "tests":
		actionErr = actions.Tests(ctx)
	case "module":
		actionErr = actions.Module(ctx)
	case "all":
		actionErr = actions.All(ctx)
	default:
		slog.Error("unknown action", "action", action)
		os.Exit(1)
	}

	if actionErr != nil {
		slog.Error("action failed", "action", action, "error", actionErr)
		os.Exit(2)
	}

	slog.Info("action completed successfully", "action", action)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
