package actions

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/controlplane-com/content-seeder/pkg/content/lessons"
)

// Topics patches the topic modules into the topic catalog file, creating
// the file if it does not exist yet
func Topics(ctx *Context) error {
	set, err := ctx.Config.Content.LoadTopicSet()
	if err != nil {
		return fmt.Errorf("failed to load topic set: %w", err)
	}

	path := ctx.Config.OutputPath(ctx.Config.Output.TopicsFile)
	catalog, err := readTopicCatalog(path)
	if err != nil {
		return err
	}

	res, err := set.PatchTopics(catalog)
	if err != nil {
		return fmt.Errorf("failed to patch topics: %w", err)
	}

	if err := ctx.writeFile(path, func(f *os.File) error {
		return lessons.WriteJSON(f, catalog)
	}); err != nil {
		return err
	}

	slog.Info("patched topics", "added", res.Added, "replaced", res.Replaced, "modules", len(catalog.Modules), "totalTopics", catalog.TotalTopics)
	return nil
}

func readTopicCatalog(path string) (*lessons.TopicCatalog, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("topic catalog not found, starting empty", "path", path)
		return &lessons.TopicCatalog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open topic catalog: %w", err)
	}
	defer f.Close()

	catalog, err := lessons.ReadTopicCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return catalog, nil
}
