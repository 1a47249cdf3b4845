package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/controlplane-com/content-seeder/pkg/sqlfix"
	"github.com/controlplane-com/content-seeder/pkg/watch"
)

const version = "1.0.0"

var (
	inputFile   string
	outputFile  string
	inPlace     bool
	watchMode   bool
	quiet       bool
	showVersion bool
)

// usageError marks invalid flag combinations.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func init() {
	flag.StringVar(&inputFile, "file", "", "Path to SQL file (required, use - for stdin)")
	flag.StringVar(&inputFile, "f", "", "Path to SQL file (shorthand)")

	flag.StringVar(&outputFile, "output", "-", "Output path (- for stdout)")
	flag.StringVar(&outputFile, "o", "-", "Output path (shorthand)")

	flag.BoolVar(&inPlace, "in-place", false, "Rewrite the input file")
	flag.BoolVar(&inPlace, "i", false, "In-place (shorthand)")

	flag.BoolVar(&watchMode, "watch", false, "Re-run whenever the input file changes")
	flag.BoolVar(&watchMode, "w", false, "Watch (shorthand)")

	flag.BoolVar(&quiet, "quiet", false, "Do not print the summary")
	flag.BoolVar(&quiet, "q", false, "Quiet (shorthand)")

	flag.BoolVar(&showVersion, "version", false, "Display version information")
	flag.BoolVar(&showVersion, "v", false, "Version (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "sqlfix - Double unescaped apostrophes inside SQL string literals\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage:\n  sqlfix [flags]\n\nFlags:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  -f, --file string        Path to SQL file (required, use - for stdin)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  -o, --output string      Output path (default: stdout)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  -i, --in-place           Rewrite the input file\n")
		_, _ = fmt.Fprintf(os.Stderr, "  -w, --watch              Re-run whenever the input file changes\n")
		_, _ = fmt.Fprintf(os.Stderr, "  -q, --quiet              Do not print the summary\n")
		_, _ = fmt.Fprintf(os.Stderr, "  -v, --version            Display version information\n")
		_, _ = fmt.Fprintf(os.Stderr, "  -h, --help               Display help information\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nExamples:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  sqlfix -f seed.sql -o seed.fixed.sql\n")
		_, _ = fmt.Fprintf(os.Stderr, "  cat seed.sql | sqlfix -f - | psql\n")
		_, _ = fmt.Fprintf(os.Stderr, "  sqlfix -f seed.sql -i -w\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nThe escaper is a heuristic: an apostrophe followed by a comma, a\n")
		_, _ = fmt.Fprintf(os.Stderr, "closing bracket or whitespace is read as the end of the literal.\n")
	}
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("sqlfix version %s\n", version)
		os.Exit(0)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "sqlfix: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func run() error {
	if err := validateFlags(); err != nil {
		return err
	}

	target := outputFile
	if inPlace {
		target = inputFile
	}

	if inputFile == "-" {
		return processStream(os.Stdin, os.Stdout, os.Stderr)
	}

	if err := fixFile(inputFile, target, os.Stdout, os.Stderr); err != nil {
		return err
	}
	if !watchMode {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New([]string{inputFile}, func(string) error {
		return fixFile(inputFile, target, os.Stdout, os.Stderr)
	}, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Close()

	slog.Info("watching for changes", "file", inputFile, "output", target)
	return w.Run(ctx)
}

func validateFlags() error {
	if inputFile == "" {
		return &usageError{"error: --file is required"}
	}
	if inPlace && inputFile == "-" {
		return &usageError{"error: --in-place cannot be used with stdin"}
	}
	if inPlace && outputFile != "-" {
		return &usageError{"error: --in-place and --output are mutually exclusive"}
	}
	if watchMode && inputFile == "-" {
		return &usageError{"error: --watch cannot be used with stdin"}
	}
	if watchMode && !inPlace && outputFile == "-" {
		return &usageError{"error: --watch needs --output or --in-place"}
	}
	return nil
}

// processStream escapes input to output and reports the summary on
// report.
func processStream(input io.Reader, output io.Writer, report io.Writer) error {
	stats, err := sqlfix.Copy(output, input)
	if err != nil {
		return err
	}
	printSummary(report, stats)
	return nil
}

// fixFile escapes the file at in and writes the result to out, which may
// be "-" for stdout. When out names the input file it is only rewritten
// if something changed.
func fixFile(in, out string, stdout, report io.Writer) error {
	src, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("reading SQL file: %w", err)
	}

	if out == "-" {
		return processStream(bytes.NewReader(src), stdout, report)
	}

	var buf bytes.Buffer
	stats, err := sqlfix.Copy(&buf, bytes.NewReader(src))
	if err != nil {
		return err
	}

	sameFile := false
	if a, err := filepath.Abs(in); err == nil {
		if b, err := filepath.Abs(out); err == nil {
			sameFile = a == b
		}
	}

	if !sameFile || stats.Changed > 0 {
		if err := writeFileAtomic(out, buf.Bytes()); err != nil {
			return err
		}
	}

	printSummary(report, stats)
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write error: %w", err)
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
	return nil
}

func printSummary(w io.Writer, stats sqlfix.Stats) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(w, "sqlfix: %d lines read, %d lines changed\n", stats.Lines, stats.Changed)
}
