package runner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// ErrEmptyScript is returned when a script has no statements after cleanup.
var ErrEmptyScript = errors.New("seed script is empty")

// Supported driver names.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Result describes a successful run.
type Result struct {
	RunID    string
	Duration time.Duration
	Lines    int
	Bytes    int
}

// Runner executes seed scripts against a database.
type Runner struct {
	db *sql.DB

	// Transaction wraps the script in BEGIN/COMMIT on the client side.
	// Leave it off for scripts that manage their own transaction.
	Transaction bool
}

// New creates a runner on an open database handle.
func New(db *sql.DB) *Runner {
	return &Runner{db: db}
}

// Open opens a database handle for a supported driver. For MySQL the DSN is
// rewritten to allow multiple statements per Exec, which seed scripts need.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres:
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parsing mysql DSN: %w", err)
		}
		cfg.MultiStatements = true
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	default:
		return nil, fmt.Errorf("unsupported driver %q (want %s or %s)", driver, DriverPostgres, DriverMySQL)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", driver, err)
	}
	return db, nil
}

// Prepare strips a UTF-8 byte order mark and surrounding whitespace.
func Prepare(script string) string {
	script = strings.TrimSpace(script)
	script = strings.TrimPrefix(script, "\uFEFF")
	return strings.TrimSpace(script)
}

// Ping verifies the connection.
func (r *Runner) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	return nil
}

// Run executes the whole script as a single batch.
// Database errors are returned as *ScriptError.
func (r *Runner) Run(ctx context.Context, script string) (*Result, error) {
	script = Prepare(script)
	if script == "" {
		return nil, ErrEmptyScript
	}

	res := &Result{
		RunID: uuid.New().String(),
		Lines: strings.Count(script, "\n") + 1,
		Bytes: len(script),
	}

	slog.Info("running seed script", "runId", res.RunID, "lines", res.Lines, "bytes", res.Bytes,
		"transaction", r.Transaction)

	start := time.Now()
	if err := r.exec(ctx, script); err != nil {
		slog.Error("seed script failed", "runId", res.RunID, "error", err)
		return nil, newScriptError(script, err)
	}
	res.Duration = time.Since(start)

	slog.Info("seed script completed", "runId", res.RunID, "duration", res.Duration)
	return res, nil
}

func (r *Runner) exec(ctx context.Context, script string) error {
	if !r.Transaction {
		_, err := r.db.ExecContext(ctx, script)
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, script); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Warn("rollback failed", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}
