// SPDX-License-Identifier: MIT

// Package tablescout inspects and backs up relational databases.  It
// lists tables, fetches records, describes columns, constraints, indexes
// and table sizes, runs ad-hoc filtered queries, ranks rows by distance
// from a point, and dumps tables to SQL files.
//
// A thin client layer (currently PostgreSQL and SQLite) supplies SQL
// dialect differences.  Companion CLI tools live under sub-packages
// *pg* and *sqlite*; the core logic is here.
//
// # Install
//
//	go get github.com/bcomnes/tablescout@latest
//
// # Quick start
//
//	import (
//	    "context"
//	    "database/sql"
//	    "os"
//
//	    _ "github.com/jackc/pgx/v5/stdlib" // or sqlite3
//	    "github.com/bcomnes/tablescout"
//	)
//
//	func main() {
//	    db, _ := sql.Open("pgx", os.Getenv("DATABASE_URL"))
//	    s, _ := tablescout.NewScout(tablescout.Config{Driver: "pg"}, db)
//	    near, _ := s.Nearby(context.Background(), "stores", tablescout.SearchParams{
//	        Center: tablescout.GeoPoint{Latitude: 40.7128, Longitude: -74.0060},
//	    })
//	}
//
// # Nearby search
//
// A nearby search runs in two passes.  The database applies a coarse
// radius filter and the row limit (PostGIS ST_DWithin for PostgreSQL, a
// latitude/longitude bounding box for SQLite).  The returned rows are
// then ranked by haversine distance on a sphere of radius 6,371 km and
// annotated with distance_in_miles.  The table must have latitude and
// longitude columns; rows whose coordinates are null or not numeric are
// skipped.
//
// Defaults: radius 20,000 m, limit 30.
//
// Errors can be matched with errors.Is:
//
//   - ErrSchemaMismatch    the table lacks latitude/longitude columns
//   - ErrSourceUnavailable the database failed; safe to retry
//   - ErrInvalidCenter     the center is outside valid coordinates
//
// # Configuration
//
// Use Config to tweak behaviour:
//
//   - Driver          "pg" or "sqlite3"
//   - Conn            connection URL / DSN or SQLite file
//   - Schema          PostgreSQL schema for unqualified tables (default "public")
//   - GeographyColumn PostGIS geography column for nearby searches
//   - LatestColumn    ordering column for latest records (default "createdAt")
//   - BackupDir       destination for <table>.backup.sql files
//   - PgDump          pg_dump executable (default "pg_dump")
//   - Parallel        concurrent dumps in BackupAll (default 1)
//   - Trace           instrument the driver with OpenTelemetry
//
// Config can be loaded from a JSON or YAML file with LoadConfigFile.
// ConnFromEnv reads DATABASE_URL / SQLITE_URL or the DB_HOST, DB_PORT,
// DB_NAME, DB_USER and DB_PASSWORD variables, optionally loaded from a
// .env file with LoadEnvFile.
//
// # Programmatic API
//
//	NewScout(cfg, db)                     → *Scout
//	(*Scout).Tables(ctx)                  → []string, error
//	(*Scout).Records(ctx, table, n)       → *ResultSet, error
//	(*Scout).LatestRecords(ctx, table, n) → *ResultSet, error
//	(*Scout).Columns(ctx, table)          → []Column, error
//	(*Scout).Constraints(ctx, table)      → []Constraint, error
//	(*Scout).Indexes(ctx, table)          → []Index, error
//	(*Scout).Size(ctx, table)             → TableSize, error
//	(*Scout).Query(ctx, table, where, n)  → *ResultSet, error
//	(*Scout).Nearby(ctx, table, params)   → []RankedRecord, error
//	(*Scout).Backup(ctx, table)           → string, error
//	(*Scout).BackupAll(ctx)               → []string, error
//	GrepSQLFiles(dir, needle)             → []Statement, error
//
// All database operations are context-aware; cancel the context to abort.
//
// # Versioning
//
// A semantic version string is exposed as:
//
//	var Version = "vX.Y.Z"
package tablescout
