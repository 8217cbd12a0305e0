// SPDX-License-Identifier: MIT

// Package main provides tablescout-sqlite, a SQLite-specific command-line
// interface for the tablescout library.
//
// # Install
//
//	go install github.com/bcomnes/tablescout/sqlite@latest
//
// # Synopsis
//
//	tablescout-sqlite [global flags] <command> [arguments] [flags]
//
// The commands match tablescout-pg. Differences:
//
//   - backup writes CREATE and INSERT statements itself; no external tool
//     is needed.
//   - nearby filters with a latitude/longitude bounding box followed by an
//     exact radius check, so no spatial extension is required.
//   - size needs a SQLite build with the dbstat virtual table.
//
// # Environment
//
//	SQLITE_URL  Database file used when --conn is omitted; overrides the "conn"
//	            value in a config file.
//
// # Examples
//
//	tablescout-sqlite --conn ./data/dev.sqlite tables
//	tablescout-sqlite --conn ./data/dev.sqlite query users "age > 30" --limit 5
//	tablescout-sqlite --conn ./data/dev.sqlite backup users --dir backups
//
// For driver-agnostic details see the root tablescout package.
package main
