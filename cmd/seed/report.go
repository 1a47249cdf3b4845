package main

import (
	"io"
	"strings"

	"github.com/controlplane-com/content-seeder/pkg/seed/runner"
	"github.com/fatih/color"
)

const rule = "================================================"

// reporter prints the human-facing run report.
type reporter struct {
	w       io.Writer
	header  *color.Color
	info    *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
}

func newReporter(w io.Writer) *reporter {
	return &reporter{
		w:       w,
		header:  color.New(color.FgCyan, color.Bold),
		info:    color.New(color.FgHiBlack),
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
}

func (r *reporter) Header(msg string) {
	r.header.Fprintf(r.w, "\n%s\n%s\n%s\n\n", rule, msg, rule)
}

func (r *reporter) Info(format string, args ...any) {
	r.info.Fprintf(r.w, format+"\n", args...)
}

func (r *reporter) Success(format string, args ...any) {
	r.success.Fprintf(r.w, format+"\n", args...)
}

func (r *reporter) Warning(format string, args ...any) {
	r.warning.Fprintf(r.w, format+"\n", args...)
}

func (r *reporter) Failure(format string, args ...any) {
	r.failure.Fprintf(r.w, format+"\n", args...)
}

// Script summarizes the script about to run.
func (r *reporter) Script(path, script string) {
	r.Success("✓ Seed file read: %s", path)
	r.Info("  Size: %.2f KB", float64(len(script))/1024)
	r.Info("  Lines: %d", strings.Count(script, "\n")+1)
}

// Result prints a successful run.
func (r *reporter) Result(res *runner.Result) {
	r.Header("✓ Script completed")
	r.Success("Duration: %.2f seconds", res.Duration.Seconds())
	r.Info("Run ID: %s", res.RunID)
}

// ScriptError prints a failed run with the lines around the failure.
func (r *reporter) ScriptError(se *runner.ScriptError) {
	r.Header("✗ Script failed")
	r.Failure("SQL error: %s", se.Message)
	if se.Code != "" {
		r.Info("Code: %s", se.Code)
	}

	if se.Line > 0 {
		r.Failure("Position: %d (line %d)", se.Position, se.Line)
	}

	if len(se.Context) > 0 {
		first, last := se.Context[0].Number, se.Context[len(se.Context)-1].Number
		r.Warning("\nFailing region (lines %d-%d):", first, last)
		for _, l := range se.Context {
			if l.Failing {
				r.Failure(">>> %d: %s", l.Number, l.Text)
			} else {
				r.Info("    %d: %s", l.Number, l.Text)
			}
		}
	}

	if se.Hint != "" {
		r.Warning("Hint: %s", se.Hint)
	}
	if se.Detail != "" {
		r.Info("Detail: %s", se.Detail)
	}
	if se.IsJSON() {
		r.Warning("\nNote: JSON errors usually mean a jsonb literal in the seed file has a bad escape.")
		r.Warning("Run sqlfix on the file or check the literal by hand.")
	}
}

