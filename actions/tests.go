package actions

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/controlplane-com/content-seeder/pkg/content/quiz"
)

// Tests generates the quiz INSERT script
func Tests(ctx *Context) error {
	series, err := ctx.Config.Content.LoadTestSeries()
	if err != nil {
		return fmt.Errorf("failed to load test series: %w", err)
	}

	tests := quiz.Generate(series)

	var statements int
	path := ctx.Config.OutputPath(ctx.Config.Output.TestsFile)
	if err := ctx.writeFile(path, func(f *os.File) error {
		n, err := quiz.WriteInserts(f, series, tests, ctx.Config.Content.TestBatchSize)
		statements = n
		return err
	}); err != nil {
		return err
	}

	slog.Info("generated tests", "courseId", series.CourseID, "tests", len(tests), "statements", statements)
	return nil
}
