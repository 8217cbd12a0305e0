package tablescout

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// BackupPath returns the file a backup of table is written to.
func BackupPath(dir, table string) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(table, "_"), "_")
	return filepath.Join(dir, name+".backup.sql")
}

// Backup dumps table to <BackupDir>/<table>.backup.sql and returns the
// file path. The directory is created if needed and a failed dump leaves
// no file behind.
func (s *Scout) Backup(ctx context.Context, table string) (string, error) {
	if err := os.MkdirAll(s.cfg.BackupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory %s: %w", s.cfg.BackupDir, err)
	}
	path := BackupPath(s.cfg.BackupDir, table)

	start := time.Now()
	s.log.Info().Str("table", table).Str("file", path).Msg("creating backup")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file %s: %w", path, err)
	}
	if err := s.client.Dump(ctx, table, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write backup file %s: %w", path, err)
	}

	s.log.Info().Str("table", table).Dur("took", time.Since(start)).Msg("backup complete")
	return path, nil
}

// BackupAll backs up every table, running at most Config.Parallel dumps
// at once. The returned paths follow table order. The first failure
// cancels the remaining dumps.
func (s *Scout) BackupAll(ctx context.Context) ([]string, error) {
	tables, err := s.client.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(tables))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Parallel)
	for i, table := range tables {
		g.Go(func() error {
			path, err := s.Backup(ctx, table)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
