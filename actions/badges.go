package actions

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/controlplane-com/content-seeder/pkg/content/badges"
	"github.com/controlplane-com/content-seeder/pkg/content/lessons"
)

// Badges generates the badge catalog file
func Badges(ctx *Context) error {
	tables, err := ctx.Config.Content.LoadBadgeTables()
	if err != nil {
		return fmt.Errorf("failed to load badge tables: %w", err)
	}

	catalog, err := badges.Generate(tables)
	if err != nil {
		return fmt.Errorf("failed to generate badges: %w", err)
	}

	path := ctx.Config.OutputPath(ctx.Config.Output.BadgesFile)
	if err := ctx.writeFile(path, func(f *os.File) error {
		return lessons.WriteJSON(f, catalog)
	}); err != nil {
		return err
	}

	slog.Info("generated badges", "total", catalog.TotalBadges)
	for _, c := range catalog.Distribution() {
		slog.Info("badge distribution", "category", c.Category, "count", c.Count)
	}
	return nil
}
