package tablescout

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported values for Config.Driver.
const (
	DriverPostgres = "pg"
	DriverSQLite   = "sqlite3"
)

// Config holds settings shared by the library and the CLIs.
type Config struct {
	// Driver is the database dialect, "pg" or "sqlite3".
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`

	// Conn is the connection string: a PostgreSQL URL or DSN, or a SQLite file path.
	Conn string `json:"conn,omitempty" yaml:"conn,omitempty"`

	// Schema limits PostgreSQL table listings and unqualified names (default "public").
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`

	// GeographyColumn names a PostGIS geography column used by nearby
	// searches. When empty the point is built from latitude and longitude.
	GeographyColumn string `json:"geographyColumn,omitempty" yaml:"geographyColumn,omitempty"`

	// LatestColumn orders "latest records" queries when the table has it.
	LatestColumn string `json:"latestColumn,omitempty" yaml:"latestColumn,omitempty"`

	// BackupDir receives <table>.backup.sql files.
	BackupDir string `json:"backupDir,omitempty" yaml:"backupDir,omitempty"`

	// PgDump is the pg_dump executable.
	PgDump string `json:"pgDump,omitempty" yaml:"pgDump,omitempty"`

	// Parallel bounds concurrent dumps during BackupAll.
	Parallel int `json:"parallel,omitempty" yaml:"parallel,omitempty"`

	// Timeout bounds each CLI command. It is set by flag only.
	Timeout time.Duration `json:"-" yaml:"-"`

	// Trace wraps the database driver with OpenTelemetry instrumentation.
	Trace bool `json:"trace,omitempty" yaml:"trace,omitempty"`
}

// DefaultConfig provides default values for configuration.
var DefaultConfig = Config{
	Driver:       DriverPostgres,
	Schema:       "public",
	LatestColumn: "createdAt",
	BackupDir:    ".",
	PgDump:       "pg_dump",
	Parallel:     1,
	Timeout:      10 * time.Minute,
}

// ConfigError represents an invalid or missing configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %s", e.Field, e.Message)
}

// WithDefaults returns c with every unset field taken from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig
	c.Driver = strings.ToLower(firstNonEmpty(c.Driver, d.Driver))
	c.Schema = firstNonEmpty(c.Schema, d.Schema)
	c.LatestColumn = firstNonEmpty(c.LatestColumn, d.LatestColumn)
	c.BackupDir = firstNonEmpty(c.BackupDir, d.BackupDir)
	c.PgDump = firstNonEmpty(c.PgDump, d.PgDump)
	if c.Parallel <= 0 {
		c.Parallel = d.Parallel
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	return c
}

// Validate checks the fields needed to open a database.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Driver) {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, &ConfigError{Field: "driver", Message: fmt.Sprintf("%q not supported, must be one of: pg or sqlite3", c.Driver)})
	}
	if c.Conn == "" {
		errs = append(errs, &ConfigError{Field: "conn", Message: "required but not set"})
	}
	if c.Parallel < 0 {
		errs = append(errs, &ConfigError{Field: "parallel", Message: "must not be negative"})
	}
	return errors.Join(errs...)
}

// LoadConfigFile decodes a JSON or YAML file into cfg. Fields absent from
// the file are left untouched.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return nil
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment without overriding ones already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ConnFromEnv returns a connection string for driver from the environment.
//
// SQLite reads SQLITE_URL. PostgreSQL reads DATABASE_URL, falling back to
// a URL assembled from DB_HOST, DB_PORT, DB_NAME, DB_USER and DB_PASSWORD.
func ConnFromEnv(driver string) string {
	if strings.ToLower(driver) == DriverSQLite {
		return os.Getenv("SQLITE_URL")
	}
	if conn := os.Getenv("DATABASE_URL"); conn != "" {
		return conn
	}

	host := os.Getenv("DB_HOST")
	name := os.Getenv("DB_NAME")
	if host == "" && name == "" {
		return ""
	}
	u := url.URL{Scheme: "postgres", Host: host, Path: "/" + name}
	if port := os.Getenv("DB_PORT"); port != "" {
		u.Host = host + ":" + port
	}
	if user := os.Getenv("DB_USER"); user != "" {
		if pass, ok := os.LookupEnv("DB_PASSWORD"); ok {
			u.User = url.UserPassword(user, pass)
		} else {
			u.User = url.User(user)
		}
	}
	return u.String()
}

// firstNonEmpty returns the first non-empty string in the provided list.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
