// Package main implements a SQLite-specific CLI for tablescout.
// It accepts a database file via the --conn flag, the SQLITE_URL
// environment variable, or the "conn" field in the config file.
package main

import (
	"os"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/bcomnes/tablescout"
	"github.com/bcomnes/tablescout/internal/cli"
)

func main() {
	os.Exit(cli.Main("tablescout-sqlite", tablescout.DriverSQLite, os.Args[1:], os.Stdout, os.Stderr))
}
