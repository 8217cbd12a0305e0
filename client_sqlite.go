package tablescout

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
)

// sqliteTimeFormat matches the first layout go-sqlite3 reads back as a timestamp.
const sqliteTimeFormat = "2006-01-02 15:04:05.999999999-07:00"

// Sqlite3Client implements the Client interface for SQLite.
type Sqlite3Client struct {
	baseClient
}

// NewSqlite3Client creates a new Sqlite3Client.
func NewSqlite3Client(cfg Config, db *sql.DB) *Sqlite3Client {
	c := &Sqlite3Client{
		baseClient: baseClient{
			cfg: cfg.WithDefaults(),
			db:  db,
		},
	}
	// Set function pointers.
	c.quoteTableFn = c.quotedTable
	c.placeholderFn = func(int) string { return "?" }
	c.listTablesSqlFn = c.listTablesSql
	c.columnsSqlFn = c.columnsSql
	c.constraintsSqlFn = c.constraintsSql
	c.indexesSqlFn = c.indexesSql
	c.tableSizeSqlFn = c.tableSizeSql
	return c
}

// quotedTable quotes table, keeping an attached-database prefix if present.
func (c *Sqlite3Client) quotedTable(table string) string {
	schema, name := splitTable(table)
	if schema == "" {
		return quoteIdent(name)
	}
	return quoteIdent(schema) + "." + quoteIdent(name)
}

func (c *Sqlite3Client) listTablesSql() (string, []any) {
	return `
      SELECT name
      FROM sqlite_master
      WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
      ORDER BY name;`, nil
}

func (c *Sqlite3Client) columnsSql(table string) (string, []any) {
	return `
      SELECT name, type, NULL, "notnull" = 0, dflt_value
      FROM pragma_table_info(?)
      ORDER BY cid;`, []any{table}
}

func (c *Sqlite3Client) constraintsSql(table string) (string, []any) {
	return `
      SELECT 'primary_key', 'PRIMARY KEY (' || group_concat(name, ', ') || ')'
      FROM (SELECT name FROM pragma_table_info(?1) WHERE pk > 0 ORDER BY pk)
      HAVING count(*) > 0
      UNION ALL
      SELECT 'foreign_key_' || id,
             'FOREIGN KEY (' || group_concat("from", ', ') || ') REFERENCES ' || "table"
               || coalesce(' (' || group_concat("to", ', ') || ')', '')
      FROM pragma_foreign_key_list(?1)
      GROUP BY id, "table";`, []any{table}
}

func (c *Sqlite3Client) indexesSql(table string) (string, []any) {
	return `
      SELECT name, coalesce(sql, '')
      FROM sqlite_master
      WHERE type = 'index' AND tbl_name = ?
      ORDER BY name;`, []any{table}
}

// tableSizeSql sums the pages of the table and its indexes. It needs the
// dbstat virtual table to be compiled in.
func (c *Sqlite3Client) tableSizeSql(table string) (string, []any) {
	return `
      SELECT coalesce(sum(pgsize), 0)
      FROM dbstat
      WHERE name = ?1
         OR name IN (SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ?1);`, []any{table}
}

// FetchWithinRadius selects rows inside a latitude/longitude bounding box
// around center, keeps those within radiusMeters by great-circle
// distance, and returns at most limit of them. Rows whose coordinates do
// not parse are passed through for the caller to judge.
func (c *Sqlite3Client) FetchWithinRadius(ctx context.Context, table string, center GeoPoint, radiusMeters float64, limit uint) ([]Record, error) {
	minLat, maxLat, minLon, maxLon := boundingBox(center, radiusMeters)
	query := fmt.Sprintf(`
      SELECT *
      FROM %s
      WHERE %s BETWEEN ? AND ? AND %s BETWEEN ? AND ?;`,
		c.quotedTable(table), quoteIdent(LatitudeColumn), quoteIdent(LongitudeColumn))

	rs, err := c.query(ctx, "fetch within radius", query, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, err
	}

	var out []Record
	for _, rec := range rs.Records {
		if uint(len(out)) >= limit {
			break
		}
		if pt, ok := rec.Point(); ok && center.DistanceMeters(pt) > radiusMeters {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Dump writes the table's CREATE statement, one INSERT per row and the
// statements for its indexes and triggers, wrapped in a transaction.
func (c *Sqlite3Client) Dump(ctx context.Context, table string, w io.Writer) error {
	var create string
	err := c.db.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?;`, table,
	).Scan(&create)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("dump %s: no such table", table)
	}
	if err != nil {
		return fmt.Errorf("dump %s: %w", table, err)
	}

	extras, err := c.auxiliarySql(ctx, table)
	if err != nil {
		return fmt.Errorf("dump %s: %w", table, err)
	}

	rs, err := c.FetchRecords(ctx, table, 0)
	if err != nil {
		return fmt.Errorf("dump %s: %w", table, err)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "-- tablescout dump of table %s\n", table)
	fmt.Fprintln(bw, "BEGIN TRANSACTION;")
	fmt.Fprintf(bw, "%s;\n", create)

	names := make([]string, len(rs.Columns))
	for i, col := range rs.Columns {
		names[i] = quoteIdent(col.Name)
	}
	columnList := strings.Join(names, ", ")
	values := make([]string, len(rs.Columns))
	for _, rec := range rs.Records {
		for i, col := range rs.Columns {
			values[i] = sqlLiteral(rec[col.Name])
		}
		fmt.Fprintf(bw, "INSERT INTO %s (%s) VALUES (%s);\n", c.quotedTable(table), columnList, strings.Join(values, ", "))
	}

	for _, stmt := range extras {
		fmt.Fprintf(bw, "%s;\n", stmt)
	}
	fmt.Fprintln(bw, "COMMIT;")
	return bw.Flush()
}

// auxiliarySql returns the CREATE statements of the indexes and triggers on table.
func (c *Sqlite3Client) auxiliarySql(ctx context.Context, table string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
      SELECT sql
      FROM sqlite_master
      WHERE type IN ('index', 'trigger') AND tbl_name = ? AND sql IS NOT NULL
      ORDER BY type, name;`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stmts []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, rows.Err()
}

// sqlLiteral renders v as a SQLite literal.
func sqlLiteral(v Value) string {
	switch v.Kind() {
	case KindNull:
		return "NULL"
	case KindNumber:
		return v.Text()
	case KindBool:
		if v.b {
			return "1"
		}
		return "0"
	case KindTimestamp:
		return quoteString(v.ts.Format(sqliteTimeFormat))
	default:
		return quoteString(v.Text())
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
