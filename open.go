package tablescout

import (
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.nhat.io/otelsql"
)

// sqlDriverNames maps a Config.Driver to the database/sql driver it uses.
// The drivers themselves are registered by the importing program.
var sqlDriverNames = map[string]string{
	DriverPostgres: "pgx",
	DriverSQLite:   "sqlite3",
}

var (
	tracedMu      sync.Mutex
	tracedDrivers = map[string]string{}
)

// Open opens the database described by cfg. The driver for cfg.Driver
// must already be registered by the program. With cfg.Trace set, queries
// go through an OpenTelemetry-instrumented wrapper of the driver and
// connection pool statistics are recorded.
func Open(cfg Config) (*sql.DB, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	name := sqlDriverNames[strings.ToLower(cfg.Driver)]
	if !slices.Contains(sql.Drivers(), name) {
		return nil, &ConfigError{
			Field:   "driver",
			Message: fmt.Sprintf("%q needs the %s database/sql driver, which is not registered in this binary", cfg.Driver, name),
		}
	}

	if cfg.Trace {
		traced, err := tracedDriver(name)
		if err != nil {
			return nil, err
		}
		name = traced
	}

	db, err := sql.Open(name, cfg.Conn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	if cfg.Trace {
		if err := otelsql.RecordStats(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("record database stats: %w", err)
		}
	}
	return db, nil
}

// tracedDriver registers an instrumented wrapper of name once per process.
func tracedDriver(name string) (string, error) {
	tracedMu.Lock()
	defer tracedMu.Unlock()

	if traced, ok := tracedDrivers[name]; ok {
		return traced, nil
	}
	traced, err := otelsql.Register(name,
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
	)
	if err != nil {
		return "", fmt.Errorf("register traced %s driver: %w", name, err)
	}
	tracedDrivers[name] = traced
	return traced, nil
}
