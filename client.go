package tablescout

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
)

// NewClient creates a new Client based on the provided configuration and database connection.
func NewClient(cfg Config, db *sql.DB) (Client, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverPostgres:
		return NewPostgresClient(cfg, db), nil
	case DriverSQLite:
		return NewSqlite3Client(cfg, db), nil
	default:
		return nil, fmt.Errorf("db driver '%s' not supported. Must be one of: sqlite3 or pg", cfg.Driver)
	}
}

// Client is the per-dialect data source behind a Scout.
type Client interface {
	RowSource

	ListTables(ctx context.Context) ([]string, error)
	FetchRecords(ctx context.Context, table string, limit int) (*ResultSet, error)
	FetchLatestRecords(ctx context.Context, table string, limit int) (*ResultSet, error)
	Columns(ctx context.Context, table string) ([]Column, error)
	Constraints(ctx context.Context, table string) ([]Constraint, error)
	Indexes(ctx context.Context, table string) ([]Index, error)
	TableSize(ctx context.Context, table string) (TableSize, error)
	QueryTable(ctx context.Context, table, where string, limit int) (*ResultSet, error)

	// Dump writes a SQL script recreating table to w.
	Dump(ctx context.Context, table string, w io.Writer) error
}

// Column describes one column of a table.
type Column struct {
	Name      string  `json:"column_name"`
	DataType  string  `json:"data_type"`
	MaxLength *int64  `json:"character_length"`
	Nullable  bool    `json:"is_nullable"`
	Default   *string `json:"column_default"`
}

// Constraint is a named table constraint and its definition.
type Constraint struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
}

// Index is a named index and the statement that defines it.
type Index struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
}

// TableSize is the on-disk size of a table including its indexes.
type TableSize struct {
	Table  string `json:"table"`
	Bytes  int64  `json:"bytes"`
	Pretty string `json:"pretty"`
}

// baseClient holds the query execution shared by every dialect. The
// dialect supplies identifiers, placeholders and catalog SQL through the
// function fields.
type baseClient struct {
	cfg Config
	db  *sql.DB

	quoteTableFn     func(table string) string
	placeholderFn    func(n int) string
	listTablesSqlFn  func() (string, []any)
	columnsSqlFn     func(table string) (string, []any)
	constraintsSqlFn func(table string) (string, []any)
	indexesSqlFn     func(table string) (string, []any)
	tableSizeSqlFn   func(table string) (string, []any)
}

// quoteIdent double-quotes a single SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// splitTable separates an optional schema prefix from a table name.
func splitTable(table string) (schema, name string) {
	if i := strings.Index(table, "."); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "", table
}

// ListTables returns the table names visible to the configured schema.
func (c *baseClient) ListTables(ctx context.Context) ([]string, error) {
	query, args := c.listTablesSqlFn()
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list tables: scan: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// FetchRecords returns up to limit rows of table. A limit of zero or less
// returns every row.
func (c *baseClient) FetchRecords(ctx context.Context, table string, limit int) (*ResultSet, error) {
	query := "SELECT * FROM " + c.quoteTableFn(table)
	var args []any
	if limit > 0 {
		query += " LIMIT " + c.placeholderFn(1)
		args = append(args, limit)
	}
	return c.query(ctx, "fetch records", query, args...)
}

// FetchLatestRecords returns up to limit rows ordered newest first by the
// configured latest column. Tables without that column come back in
// storage order.
func (c *baseClient) FetchLatestRecords(ctx context.Context, table string, limit int) (*ResultSet, error) {
	names, err := c.columnNames(ctx, table)
	if err != nil {
		return nil, err
	}
	query := "SELECT * FROM " + c.quoteTableFn(table)
	if col, ok := lookupColumn(names, c.cfg.LatestColumn); ok {
		query += " ORDER BY " + quoteIdent(col) + " DESC"
	}
	query += " LIMIT " + c.placeholderFn(1)
	return c.query(ctx, "fetch latest records", query, limit)
}

// QueryTable returns up to limit rows of table matching the raw WHERE
// clause. The clause is passed to the database unmodified.
func (c *baseClient) QueryTable(ctx context.Context, table, where string, limit int) (*ResultSet, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s LIMIT %s", c.quoteTableFn(table), where, c.placeholderFn(1))
	return c.query(ctx, "query table", query, limit)
}

func (c *baseClient) query(ctx context.Context, op, query string, args ...any) (*ResultSet, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	rs, err := scanResultSet(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rs, nil
}

// Columns describes the columns of table in declaration order.
func (c *baseClient) Columns(ctx context.Context, table string) ([]Column, error) {
	query, args := c.columnsSqlFn(table)
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			col       Column
			maxLength sql.NullInt64
			dflt      sql.NullString
		)
		if err := rows.Scan(&col.Name, &col.DataType, &maxLength, &col.Nullable, &dflt); err != nil {
			return nil, fmt.Errorf("columns: scan: %w", err)
		}
		if maxLength.Valid {
			col.MaxLength = &maxLength.Int64
		}
		if dflt.Valid {
			col.Default = &dflt.String
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

// HasColumns reports whether table has every one of columns. Names must
// match exactly since rows are keyed by the declared column name.
func (c *baseClient) HasColumns(ctx context.Context, table string, columns ...string) (bool, error) {
	names, err := c.columnNames(ctx, table)
	if err != nil {
		return false, err
	}
	for _, want := range columns {
		if !slices.Contains(names, want) {
			return false, nil
		}
	}
	return true, nil
}

func (c *baseClient) columnNames(ctx context.Context, table string) ([]string, error) {
	cols, err := c.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	return names, nil
}

// lookupColumn finds name among columns (case insensitive) and returns the
// column's declared spelling.
func lookupColumn(columns []string, name string) (string, bool) {
	for _, col := range columns {
		if strings.EqualFold(col, name) {
			return col, true
		}
	}
	return "", false
}

// Constraints lists the constraints declared on table.
func (c *baseClient) Constraints(ctx context.Context, table string) ([]Constraint, error) {
	query, args := c.constraintsSqlFn(table)
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("constraints: %w", err)
	}
	defer rows.Close()

	var out []Constraint
	for rows.Next() {
		var con Constraint
		if err := rows.Scan(&con.Name, &con.Definition); err != nil {
			return nil, fmt.Errorf("constraints: scan: %w", err)
		}
		out = append(out, con)
	}
	return out, rows.Err()
}

// Indexes lists the indexes on table.
func (c *baseClient) Indexes(ctx context.Context, table string) ([]Index, error) {
	query, args := c.indexesSqlFn(table)
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("indexes: %w", err)
	}
	defer rows.Close()

	var out []Index
	for rows.Next() {
		var idx Index
		if err := rows.Scan(&idx.Name, &idx.Definition); err != nil {
			return nil, fmt.Errorf("indexes: scan: %w", err)
		}
		out = append(out, idx)
	}
	return out, rows.Err()
}

// TableSize reports the total on-disk size of table.
func (c *baseClient) TableSize(ctx context.Context, table string) (TableSize, error) {
	query, args := c.tableSizeSqlFn(table)
	var n sql.NullInt64
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return TableSize{}, fmt.Errorf("table size: %w", err)
	}
	return TableSize{
		Table:  table,
		Bytes:  n.Int64,
		Pretty: humanize.IBytes(uint64(n.Int64)),
	}, nil
}
