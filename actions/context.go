package actions

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/controlplane-com/content-seeder/pkg/config"
)

// Context holds the execution context for actions
type Context struct {
	Config *config.Config
}

// writeFile creates the output directory and writes the file produced by
// write to path. The file is written next to path and renamed into place.
func (c *Context) writeFile(path string, write func(f *os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting output file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving output file into place: %w", err)
	}

	slog.Info("wrote file", "path", path)
	return nil
}
