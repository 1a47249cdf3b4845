// Package config loads the YAML configuration shared by the generators,
// the seed runner and the content server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/controlplane-com/content-seeder/pkg/content/badges"
	"github.com/controlplane-com/content-seeder/pkg/content/lessons"
	"github.com/controlplane-com/content-seeder/pkg/content/quiz"
	"github.com/controlplane-com/content-seeder/pkg/seed/runner"
	"gopkg.in/yaml.v3"
)

// Config is the root of the configuration file.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Content  ContentConfig  `yaml:"content"`
}

// OutputConfig names the generated files, relative to Dir.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	BadgesFile string `yaml:"badges_file"`
	CourseFile string `yaml:"course_file"`
	TopicsFile string `yaml:"topics_file"`
	TestsFile  string `yaml:"tests_file"`

	// CatalogFile is the existing course catalog that hand-written
	// modules are patched into.
	CatalogFile string `yaml:"catalog_file"`
}

// DatabaseConfig configures the seed runner.
type DatabaseConfig struct {
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	Transaction bool   `yaml:"transaction"`
	AutoConfirm bool   `yaml:"auto_confirm"`
}

// ServerConfig configures the content server.
type ServerConfig struct {
	Listen string `yaml:"listen"`
	Token  string `yaml:"token"`
}

// ContentConfig points at content table overrides. Empty paths select the
// built-in tables.
type ContentConfig struct {
	BadgeTables   string `yaml:"badge_tables"`
	CourseDef     string `yaml:"course_def"`
	TopicSet      string `yaml:"topic_set"`
	TestSeries    string `yaml:"test_series"`
	TestBatchSize int    `yaml:"test_batch_size"`
	ModuleDef     string `yaml:"module_def"`
}

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:        "data",
			BadgesFile: "badges.json",
			CourseFile: "mssql-course.json",
			TopicsFile: "topic-lessons.json",
			TestsFile:  "dotnet-tests.sql",

			CatalogFile: "dotnet-core-lessons.json",
		},
		Database: DatabaseConfig{
			Driver: runner.DriverPostgres,
		},
		Server: ServerConfig{
			Listen: ":8080",
		},
		Content: ContentConfig{
			TestBatchSize: 3,
		},
	}
}

// LoadConfig reads the YAML file at path on top of the defaults, applies
// environment overrides and validates the result. An empty path skips the
// file.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides values from the environment.
func (c *Config) ApplyEnv() error {
	setFromEnv(&c.Database.Driver, "SEED_DRIVER")
	setFromEnv(&c.Database.DSN, "DATABASE_URL")
	setFromEnv(&c.Database.DSN, "SEED_DSN")
	setFromEnv(&c.Output.Dir, "OUTPUT_DIR")
	setFromEnv(&c.Server.Listen, "LISTEN_ADDR")
	setFromEnv(&c.Server.Token, "AUTH_TOKEN")
	setFromEnv(&c.Content.ModuleDef, "MODULE_DEF")

	if v := os.Getenv("AUTO_CONFIRM"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ValidationError{Field: "AUTO_CONFIRM", Message: fmt.Sprintf("invalid boolean %q", v)}
		}
		c.Database.AutoConfirm = b
	}

	return nil
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return &ValidationError{Field: "output.dir", Message: "must not be empty"}
	}

	switch c.Database.Driver {
	case runner.DriverPostgres, runner.DriverMySQL:
	default:
		return &ValidationError{Field: "database.driver", Message: fmt.Sprintf("unknown driver %q", c.Database.Driver)}
	}

	if c.Server.Listen == "" {
		return &ValidationError{Field: "server.listen", Message: "must not be empty"}
	}

	if c.Content.TestBatchSize < 1 {
		return &ValidationError{Field: "content.test_batch_size", Message: "must be at least 1"}
	}

	return nil
}

// RequireDSN fails when no database connection string is configured.
func (c *Config) RequireDSN() error {
	if c.Database.DSN == "" {
		return &ValidationError{Field: "database.dsn", Message: "not set (use SEED_DSN or DATABASE_URL)"}
	}
	return nil
}

// OutputPath joins name onto the output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Output.Dir, name)
}

// LoadBadgeTables loads the configured badge tables.
func (c *ContentConfig) LoadBadgeTables() (*badges.Tables, error) {
	if c.BadgeTables == "" {
		return badges.DefaultTables()
	}
	return badges.LoadTables(c.BadgeTables)
}

// LoadCourseDef loads the configured course definition.
func (c *ContentConfig) LoadCourseDef() (*lessons.CourseDef, error) {
	if c.CourseDef == "" {
		return lessons.DefaultCourseDef()
	}
	return lessons.LoadCourseDef(c.CourseDef)
}

// LoadTopicSet loads the configured topic set.
func (c *ContentConfig) LoadTopicSet() (*lessons.TopicSet, error) {
	if c.TopicSet == "" {
		return lessons.DefaultTopicSet()
	}
	return lessons.LoadTopicSet(c.TopicSet)
}

// LoadTestSeries loads the configured quiz test series.
func (c *ContentConfig) LoadTestSeries() (*quiz.Series, error) {
	if c.TestSeries == "" {
		return quiz.DefaultSeries()
	}
	return quiz.LoadSeries(c.TestSeries)
}

// LoadModuleDef loads the hand-written module definition. There is no
// built-in module, so the path must be set.
func (c *ContentConfig) LoadModuleDef() (*lessons.ModuleDef, error) {
	if c.ModuleDef == "" {
		return nil, &ValidationError{Field: "content.module_def", Message: "not set (use MODULE_DEF)"}
	}
	return lessons.LoadModuleDef(c.ModuleDef)
}
