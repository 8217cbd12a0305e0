package tablescout

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// PostgresClient implements Client for PostgreSQL.
type PostgresClient struct {
	baseClient
}

// NewPostgresClient creates a new PostgresClient.
func NewPostgresClient(cfg Config, db *sql.DB) *PostgresClient {
	c := &PostgresClient{
		baseClient: baseClient{
			cfg: cfg.WithDefaults(),
			db:  db,
		},
	}
	c.quoteTableFn = c.quotedTable
	c.placeholderFn = func(n int) string { return "$" + strconv.Itoa(n) }
	c.listTablesSqlFn = c.listTablesSql
	c.columnsSqlFn = c.columnsSql
	c.constraintsSqlFn = c.constraintsSql
	c.indexesSqlFn = c.indexesSql
	c.tableSizeSqlFn = c.tableSizeSql
	return c
}

// schemaTable splits table into schema and name, falling back to the
// configured schema.
func (c *PostgresClient) schemaTable(table string) (string, string) {
	schema, name := splitTable(table)
	if schema == "" {
		schema = c.cfg.Schema
	}
	return schema, name
}

// quotedTable returns the schema-qualified table name with each part quoted.
func (c *PostgresClient) quotedTable(table string) string {
	schema, name := c.schemaTable(table)
	return pgx.Identifier{schema, name}.Sanitize()
}

func (c *PostgresClient) listTablesSql() (string, []any) {
	return `
      SELECT table_name
      FROM information_schema.tables
      WHERE table_schema = $1
      ORDER BY table_name;`, []any{c.cfg.Schema}
}

func (c *PostgresClient) columnsSql(table string) (string, []any) {
	schema, name := c.schemaTable(table)
	return `
      SELECT column_name, data_type, character_maximum_length,
             is_nullable = 'YES', column_default
      FROM information_schema.columns
      WHERE table_schema = $1 AND table_name = $2
      ORDER BY ordinal_position;`, []any{schema, name}
}

func (c *PostgresClient) constraintsSql(table string) (string, []any) {
	schema, name := c.schemaTable(table)
	return `
      SELECT con.conname, pg_get_constraintdef(con.oid)
      FROM pg_constraint con
      JOIN pg_class rel ON rel.oid = con.conrelid
      JOIN pg_namespace nsp ON nsp.oid = rel.relnamespace
      WHERE nsp.nspname = $1 AND rel.relname = $2
      ORDER BY con.conname;`, []any{schema, name}
}

func (c *PostgresClient) indexesSql(table string) (string, []any) {
	schema, name := c.schemaTable(table)
	return `
      SELECT indexname, indexdef
      FROM pg_indexes
      WHERE schemaname = $1 AND tablename = $2
      ORDER BY indexname;`, []any{schema, name}
}

func (c *PostgresClient) tableSizeSql(table string) (string, []any) {
	return `SELECT pg_total_relation_size($1::text::regclass);`, []any{c.quotedTable(table)}
}

// geographySql returns the expression giving a row's position as a PostGIS geography.
func (c *PostgresClient) geographySql() string {
	if c.cfg.GeographyColumn != "" {
		return quoteIdent(c.cfg.GeographyColumn) + "::geography"
	}
	return fmt.Sprintf("ST_SetSRID(ST_MakePoint(%s::double precision, %s::double precision), 4326)::geography",
		quoteIdent(LongitudeColumn), quoteIdent(LatitudeColumn))
}

// FetchWithinRadius returns up to limit rows whose position is within
// radiusMeters of center according to ST_DWithin. Requires PostGIS.
func (c *PostgresClient) FetchWithinRadius(ctx context.Context, table string, center GeoPoint, radiusMeters float64, limit uint) ([]Record, error) {
	query := fmt.Sprintf(`
      SELECT *
      FROM %s
      WHERE ST_DWithin(%s, ST_SetSRID(ST_MakePoint($1::double precision, $2::double precision), 4326)::geography, $3::double precision)
      LIMIT $4;`, c.quotedTable(table), c.geographySql())

	rs, err := c.query(ctx, "fetch within radius", query, center.Longitude, center.Latitude, radiusMeters, int64(limit))
	if err != nil {
		return nil, err
	}
	return rs.Records, nil
}

// Dump streams the output of pg_dump for table to w.
func (c *PostgresClient) Dump(ctx context.Context, table string, w io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.cfg.PgDump,
		"--dbname="+c.cfg.Conn,
		"--table="+c.quotedTable(table),
	)
	cmd.Stdout = w
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("pg_dump %s: %w", table, err)
		}
		return fmt.Errorf("pg_dump %s: %w: %s", table, err, msg)
	}
	return nil
}
