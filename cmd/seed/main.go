package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/controlplane-com/content-seeder/pkg/config"
	"github.com/controlplane-com/content-seeder/pkg/seed/runner"
	"github.com/controlplane-com/content-seeder/pkg/sqlfix"
)

const version = "1.0.0"

var (
	seedFile    string
	configFile  string
	assumeYes   bool
	fixQuotes   bool
	timeout     time.Duration
	showVersion bool
)

// errAborted is returned when the operator declines the confirmation prompt.
var errAborted = errors.New("aborted by user")

func init() {
	flag.StringVar(&seedFile, "file", "database-seed.sql", "Path to the seed SQL file")
	flag.StringVar(&seedFile, "f", "database-seed.sql", "Path to the seed SQL file (shorthand)")

	flag.StringVar(&configFile, "config", "", "Path to YAML config file")
	flag.StringVar(&configFile, "c", "", "Path to config file (shorthand)")

	flag.BoolVar(&assumeYes, "yes", false, "Run without asking for confirmation")
	flag.BoolVar(&assumeYes, "y", false, "Yes (shorthand)")

	flag.BoolVar(&fixQuotes, "fix", false, "Escape apostrophes inside string literals before running")

	flag.DurationVar(&timeout, "timeout", 10*time.Minute, "Maximum time the script may run")

	flag.BoolVar(&showVersion, "version", false, "Display version information")
	flag.BoolVar(&showVersion, "v", false, "Version (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "seed - Run a seed SQL file against the platform database\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage:\n  seed [flags]\n\nFlags:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  -f, --file string        Path to the seed SQL file (default: database-seed.sql)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  -c, --config string      Path to YAML config file\n")
		_, _ = fmt.Fprintf(os.Stderr, "  -y, --yes                Run without asking for confirmation\n")
		_, _ = fmt.Fprintf(os.Stderr, "      --fix                Escape apostrophes inside string literals first\n")
		_, _ = fmt.Fprintf(os.Stderr, "      --timeout duration   Maximum time the script may run (default: 10m)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  -v, --version            Display version information\n")
		_, _ = fmt.Fprintf(os.Stderr, "  -h, --help               Display help information\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SEED_DRIVER, SEED_DSN (or DATABASE_URL), AUTO_CONFIRM, LOG_LEVEL, NO_COLOR\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nExamples:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SEED_DSN=postgres://localhost/app?sslmode=disable seed -f database-seed.sql\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AUTO_CONFIRM=1 seed -f database-seed.sql --fix\n")
	}
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("seed version %s\n", version)
		os.Exit(0)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	rep := newReporter(os.Stdout)
	rep.Header("Database Seed Script Runner")

	if err := run(rep); err != nil {
		if errors.Is(err, errAborted) {
			rep.Warning("Cancelled.")
			os.Exit(0)
		}
		_, _ = fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		if config.IsValidationError(err) || errors.Is(err, runner.ErrEmptyScript) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func run(rep *reporter) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if assumeYes {
		cfg.Database.AutoConfirm = true
	}
	if err := cfg.RequireDSN(); err != nil {
		return err
	}

	script, err := readSeed(seedFile, fixQuotes, rep)
	if err != nil {
		return err
	}

	if cfg.Database.AutoConfirm {
		rep.Info("Auto-confirm enabled, running script.")
	} else if !confirm(os.Stdin, os.Stdout) {
		return errAborted
	}

	db, err := runner.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rn := runner.New(db)
	rn.Transaction = cfg.Database.Transaction

	rep.Info("Connecting (%s)...", cfg.Database.Driver)
	if err := rn.Ping(ctx); err != nil {
		return err
	}
	rep.Success("✓ Connected")

	return execute(ctx, rn, script, rep)
}

// readSeed reads and cleans the seed file, optionally running the quote
// escaper over it.
func readSeed(path string, fix bool, rep *reporter) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading seed file: %w", err)
	}

	script := runner.Prepare(string(data))
	if script == "" {
		return "", runner.ErrEmptyScript
	}
	rep.Script(path, script)

	if fix {
		fixed := sqlfix.EscapeText(script)
		changed := 0
		before, after := strings.Split(script, "\n"), strings.Split(fixed, "\n")
		for i := range before {
			if before[i] != after[i] {
				changed++
			}
		}
		rep.Info("  Escaped apostrophes on %d lines", changed)
		script = fixed
	}

	return script, nil
}

// confirm asks the operator whether to continue. Turkish and English
// answers are accepted.
func confirm(in io.Reader, out io.Writer) bool {
	_, _ = fmt.Fprint(out, "Continue? (E/H, y/n): ")

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "e", "evet", "y", "yes":
		return true
	default:
		return false
	}
}

// execute runs the script and reports the outcome.
func execute(ctx context.Context, rn *runner.Runner, script string, rep *reporter) error {
	rep.Warning("Running script, this may take a few minutes...")

	res, err := rn.Run(ctx, script)
	if err != nil {
		var se *runner.ScriptError
		if errors.As(err, &se) {
			rep.ScriptError(se)
		}
		return err
	}

	rep.Result(res)
	return nil
}
