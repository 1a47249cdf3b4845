package actions

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/controlplane-com/content-seeder/pkg/content/lessons"
)

// Module adds the hand-written module definition to the existing course
// catalog file. A module with the same ID is replaced. It is not part of
// All because there is no built-in module definition.
func Module(ctx *Context) error {
	def, err := ctx.Config.Content.LoadModuleDef()
	if err != nil {
		return fmt.Errorf("failed to load module definition: %w", err)
	}

	mod, err := def.Build()
	if err != nil {
		return fmt.Errorf("failed to build module %s: %w", def.ModuleID, err)
	}

	path := ctx.Config.OutputPath(ctx.Config.Output.CatalogFile)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open course catalog: %w", err)
	}
	catalog, err := lessons.ReadCourseCatalog(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	replaced := catalog.PatchModule(mod)

	if err := ctx.writeFile(path, func(f *os.File) error {
		return lessons.WriteJSON(f, catalog)
	}); err != nil {
		return err
	}

	slog.Info("patched module", "moduleId", mod.ModuleID, "lessons", len(mod.Lessons), "replaced", replaced, "modules", len(catalog.Modules), "totalLessons", catalog.TotalLessons)
	return nil
}
