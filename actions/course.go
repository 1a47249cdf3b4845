package actions

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/controlplane-com/content-seeder/pkg/content/lessons"
)

// Course generates the course catalog file
func Course(ctx *Context) error {
	def, err := ctx.Config.Content.LoadCourseDef()
	if err != nil {
		return fmt.Errorf("failed to load course definition: %w", err)
	}

	course := lessons.BuildCourse(def)

	path := ctx.Config.OutputPath(ctx.Config.Output.CourseFile)
	if err := ctx.writeFile(path, func(f *os.File) error {
		return lessons.WriteJSON(f, course)
	}); err != nil {
		return err
	}

	slog.Info("generated course", "courseId", course.CourseID, "modules", len(course.Modules), "lessons", course.TotalLessons)
	return nil
}
