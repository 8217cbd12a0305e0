package tablescout

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
)

// Scout is the entry point for inspecting and backing up a database.
//
// It binds a Config to an open database, picks the Client for the
// configured driver, and exposes every operation as a context-aware
// method.
type Scout struct {
	cfg    Config
	client Client
	log    zerolog.Logger
}

// NewScout creates a new Scout with the provided configuration and database connection.
func NewScout(cfg Config, db *sql.DB) (*Scout, error) {
	cfg = cfg.WithDefaults()
	client, err := NewClient(cfg, db)
	if err != nil {
		return nil, err
	}
	return &Scout{
		cfg:    cfg,
		client: client,
		log:    zerolog.Nop(),
	}, nil
}

// SetLogger sets the logger used for diagnostics.
func (s *Scout) SetLogger(l zerolog.Logger) {
	s.log = l
}

// Config returns the effective configuration, defaults applied.
func (s *Scout) Config() Config {
	return s.cfg
}

// Client returns the dialect client.
func (s *Scout) Client() Client {
	return s.client
}

// Tables lists the tables of the database.
func (s *Scout) Tables(ctx context.Context) ([]string, error) {
	return s.client.ListTables(ctx)
}

// Records fetches up to limit rows of table; limit <= 0 fetches all.
func (s *Scout) Records(ctx context.Context, table string, limit int) (*ResultSet, error) {
	return s.client.FetchRecords(ctx, table, limit)
}

// LatestRecords fetches the newest limit rows of table.
func (s *Scout) LatestRecords(ctx context.Context, table string, limit int) (*ResultSet, error) {
	return s.client.FetchLatestRecords(ctx, table, limit)
}

// Columns describes the columns of table.
func (s *Scout) Columns(ctx context.Context, table string) ([]Column, error) {
	return s.client.Columns(ctx, table)
}

// Constraints lists the constraints of table.
func (s *Scout) Constraints(ctx context.Context, table string) ([]Constraint, error) {
	return s.client.Constraints(ctx, table)
}

// Indexes lists the indexes of table.
func (s *Scout) Indexes(ctx context.Context, table string) ([]Index, error) {
	return s.client.Indexes(ctx, table)
}

// Size reports the on-disk size of table.
func (s *Scout) Size(ctx context.Context, table string) (TableSize, error) {
	return s.client.TableSize(ctx, table)
}

// Query fetches up to limit rows of table matching the raw WHERE clause.
func (s *Scout) Query(ctx context.Context, table, where string, limit int) (*ResultSet, error) {
	return s.client.QueryTable(ctx, table, where, limit)
}

// Nearby ranks the rows of table near params.Center. See Searcher.Search.
func (s *Scout) Nearby(ctx context.Context, table string, params SearchParams) ([]RankedRecord, error) {
	return Searcher{Source: s.client, Logger: s.log}.Search(ctx, table, params)
}

// WithBackupDir returns a copy of s that writes backups to dir.
func (s *Scout) WithBackupDir(dir string) *Scout {
	cp := *s
	cp.cfg.BackupDir = dir
	return &cp
}

// WithParallel returns a copy of s that runs up to n dumps at once in BackupAll.
func (s *Scout) WithParallel(n int) *Scout {
	cp := *s
	if n > 0 {
		cp.cfg.Parallel = n
	}
	return &cp
}
