// Package main implements a PostgreSQL-specific CLI for tablescout.
// It accepts a connection URL via the --conn flag, the DATABASE_URL or
// DB_* environment variables (optionally from a .env file), or the "conn"
// field in the config file.
package main

import (
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver

	"github.com/bcomnes/tablescout"
	"github.com/bcomnes/tablescout/internal/cli"
)

func main() {
	os.Exit(cli.Main("tablescout-pg", tablescout.DriverPostgres, os.Args[1:], os.Stdout, os.Stderr))
}
