// Package cli implements the command grammar shared by the tablescout
// binaries. Each binary registers its database drivers and calls Main
// with its own name and default driver.
package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/bcomnes/tablescout"
)

// Globals are the flags accepted before any command.
type Globals struct {
	Config  string           `help:"Path to a JSON or YAML configuration file." type:"path"`
	Conn    string           `help:"Connection URL or SQLite file. Overrides the environment and the config file."`
	Driver  string           `help:"Database driver: pg or sqlite3 (default: ${driver})."`
	Schema  string           `help:"PostgreSQL schema for unqualified table names (default: public)."`
	EnvFile string           `help:"dotenv file loaded before reading the environment." default:".env" name:"env-file"`
	Timeout time.Duration    `help:"Time limit for the command." default:"10m"`
	Trace   bool             `help:"Instrument database calls with OpenTelemetry."`
	Verbose bool             `short:"v" help:"Enable debug logging."`
	Version kong.VersionFlag `help:"Print version and exit."`
}

// CLI is the full command grammar.
type CLI struct {
	Globals

	Tables      TablesCmd      `cmd:"" help:"List tables."`
	Records     RecordsCmd     `cmd:"" help:"Fetch records from a table."`
	Latest      LatestCmd      `cmd:"" help:"Fetch the newest records from a table."`
	Columns     ColumnsCmd     `cmd:"" help:"Describe the columns of a table."`
	Constraints ConstraintsCmd `cmd:"" help:"List the constraints of a table."`
	Indexes     IndexesCmd     `cmd:"" help:"List the indexes of a table."`
	Size        SizeCmd        `cmd:"" help:"Show the on-disk size of a table."`
	Query       QueryCmd       `cmd:"" help:"Fetch records matching a WHERE clause."`
	Nearby      NearbyCmd      `cmd:"" help:"Rank records by distance from a point."`
	Backup      BackupCmd      `cmd:"" help:"Back up a table to <table>.backup.sql."`
	BackupAll   BackupAllCmd   `cmd:"" name:"backup-all" help:"Back up every table."`
	Grep        GrepCmd        `cmd:"" help:"Search local .sql files for statements."`
}

// App carries what commands need at run time. The database is opened on
// first use so that commands like grep work without one.
type App struct {
	Globals       *Globals
	DefaultDriver string
	Stdout        io.Writer
	Log           zerolog.Logger

	ctx   context.Context
	db    *sql.DB
	scout *tablescout.Scout
}

// Context returns the command's context.
func (a *App) Context() context.Context {
	return a.ctx
}

// Settings resolves the effective configuration.
//
// Precedence, highest first: flags, environment, config file, defaults.
func (a *App) Settings() (tablescout.Config, error) {
	g := a.Globals
	var cfg tablescout.Config
	if g.Config != "" {
		if err := tablescout.LoadConfigFile(g.Config, &cfg); err != nil {
			return cfg, fmt.Errorf("loading config file: %w", err)
		}
	}
	if err := tablescout.LoadEnvFile(g.EnvFile); err != nil {
		return cfg, err
	}

	cfg.Driver = firstNonEmpty(g.Driver, cfg.Driver, a.DefaultDriver)
	cfg.Conn = firstNonEmpty(g.Conn, tablescout.ConnFromEnv(cfg.Driver), cfg.Conn)
	cfg.Schema = firstNonEmpty(g.Schema, cfg.Schema)
	cfg.Timeout = g.Timeout
	cfg.Trace = cfg.Trace || g.Trace
	return cfg.WithDefaults(), nil
}

// Scout opens the database and returns a Scout bound to it.
func (a *App) Scout() (*tablescout.Scout, error) {
	if a.scout != nil {
		return a.scout, nil
	}
	cfg, err := a.Settings()
	if err != nil {
		return nil, err
	}
	if cfg.Conn == "" {
		return nil, errMissingConn
	}
	db, err := tablescout.Open(cfg)
	if err != nil {
		return nil, err
	}
	s, err := tablescout.NewScout(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.SetLogger(a.Log)

	a.db = db
	a.scout = s
	a.Log.Debug().Str("driver", cfg.Driver).Msg("database opened")
	return s, nil
}

// Close releases the database, if one was opened.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// printJSON writes v to stdout indented by four spaces.
func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.Stdout)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}

var errMissingConn = errors.New(`connection must be provided via --conn, DATABASE_URL / SQLITE_URL, DB_* variables or "conn" in the config file`)

// exitCode is panicked by kong's exit hook so Main can return it.
type exitCode int

// Main parses args, runs the selected command and returns the process
// exit status.
func Main(name, defaultDriver string, args []string, stdout, stderr io.Writer) (code int) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name(name),
		kong.Description("Inspect and back up a relational database."),
		kong.Vars{
			"driver":  defaultDriver,
			"version": fmt.Sprintf("%s version: %s", name, tablescout.Version),
		},
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitCode(c)) }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		if perr, ok := err.(*kong.ParseError); ok {
			_ = perr.Context.PrintUsage(false)
		}
		return 1
	}

	log := newLogger(stderr, cli.Verbose)
	ctx, cancel := context.WithTimeout(context.Background(), cli.Timeout)
	defer cancel()

	app := &App{
		Globals:       &cli.Globals,
		DefaultDriver: defaultDriver,
		Stdout:        stdout,
		Log:           log,
		ctx:           ctx,
	}
	defer app.Close()

	if err := kctx.Run(app); err != nil {
		reportError(log, err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !isTerminal(w),
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// reportError logs err with a hint matched to its kind.
func reportError(log zerolog.Logger, err error) {
	var (
		mismatch *tablescout.SchemaMismatchError
		cfgErr   *tablescout.ConfigError
	)
	switch {
	case errors.As(err, &mismatch):
		log.Error().Str("table", mismatch.Table).Strs("required", mismatch.Required).
			Msg("Error: the required columns are not present in the table.")
	case errors.Is(err, tablescout.ErrSourceUnavailable):
		log.Error().Err(err).Msg("Error: the database did not answer.")
		log.Warn().Msg("Please ensure that the database server is running and the connection settings (.env) are correct.")
	case errors.Is(err, errMissingConn), errors.As(err, &cfgErr):
		log.Error().Err(err).Msg("Error: invalid configuration.")
	default:
		log.Error().Err(err).Msg("Error")
	}
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
