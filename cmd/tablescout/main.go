// Package main implements a CLI for tablescout with both the PostgreSQL
// and SQLite drivers linked in. Select one with --driver (default pg).
package main

import (
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/bcomnes/tablescout"
	"github.com/bcomnes/tablescout/internal/cli"
)

func main() {
	os.Exit(cli.Main("tablescout", tablescout.DriverPostgres, os.Args[1:], os.Stdout, os.Stderr))
}
