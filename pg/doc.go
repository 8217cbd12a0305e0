// SPDX-License-Identifier: MIT

// Package main provides tablescout-pg, a PostgreSQL-specific command-line
// interface for the tablescout library.
//
// # Install
//
//	go install github.com/bcomnes/tablescout/pg@latest
//
// # Synopsis
//
//	tablescout-pg [global flags] <command> [arguments] [flags]
//
// # Commands
//
//	tables                         List tables in the schema.
//	records <table>                Print rows as JSON (--limit, --metadata).
//	latest <table>                 Newest rows by "createdAt" (--limit 20).
//	columns <table>                Column names, types, lengths and nullability.
//	constraints <table>            Constraint names and definitions.
//	indexes <table>                Index names and definitions.
//	size <table>                   Total relation size.
//	query <table> <where>          Rows matching a WHERE clause (--limit 20).
//	nearby <table> --lat --lng     Rows near a point, nearest first
//	                               (--radius 20000 meters, --limit 30).
//	backup <table>                 pg_dump the table to <table>.backup.sql.
//	backup-all                     Back up every table (--parallel N).
//	grep <needle>                  Print statements in ./*.sql containing needle.
//
// # Global flags
//
//	--conn string       PostgreSQL connection URL. Overrides $DATABASE_URL, the
//	                    DB_* variables and the "conn" field in --config.
//	--config string     Optional JSON or YAML file mirroring tablescout.Config.
//	--schema string     Schema for unqualified tables (default "public").
//	--env-file string   dotenv file read before the environment (default ".env").
//	--timeout duration  Time limit for the command (default 10m).
//	--trace             Instrument queries with OpenTelemetry.
//	-v, --verbose       Debug logging.
//	--version           Print tablescout-pg version.
//
// *Precedence:* --conn flag ➜ $DATABASE_URL ➜ $DB_HOST/$DB_PORT/$DB_NAME/$DB_USER/$DB_PASSWORD ➜ "conn" in --config
//
// # Examples
//
//	# Ten stores closest to lower Manhattan
//	tablescout-pg nearby stores --lat 40.7128 --lng=-74.0060 --limit 10
//
//	# Back up all tables, four at a time, into ./backups
//	tablescout-pg backup-all --dir backups --parallel 4
//
// Nearby searches use PostGIS. Set "geographyColumn" in the config file to
// search a geography column instead of latitude/longitude.
//
// # Exit status
//
// The program exits non-zero on any error.
package main
