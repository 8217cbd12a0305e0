package cli

import (
	"fmt"

	"github.com/bcomnes/tablescout"
)

// TablesCmd lists the tables of the database.
type TablesCmd struct{}

func (c *TablesCmd) Run(app *App) error {
	s, err := app.Scout()
	if err != nil {
		return err
	}
	tables, err := s.Tables(app.Context())
	if err != nil {
		return err
	}
	for _, t := range tables {
		fmt.Fprintln(app.Stdout, t)
	}
	return nil
}

// RecordsCmd prints rows of a table as JSON.
type RecordsCmd struct {
	Table    string `arg:"" help:"Table to read."`
	Limit    int    `help:"Maximum number of rows (0 for all)." default:"0"`
	Metadata bool   `help:"Also print the result column types."`
}

func (c *RecordsCmd) Run(app *App) error {
	s, err := app.Scout()
	if err != nil {
		return err
	}
	rs, err := s.Records(app.Context(), c.Table, c.Limit)
	if err != nil {
		return err
	}
	return printResultSet(app, rs, c.Metadata)
}

// LatestCmd prints the newest rows of a table.
type LatestCmd struct {
	Table string `arg:"" help:"Table to read."`
	Limit int    `help:"Maximum number of rows." default:"20"`
}

func (c *LatestCmd) Run(app *App) error {
	s, err := app.Scout()
	if err != nil {
		return err
	}
	rs, err := s.LatestRecords(app.Context(), c.Table, c.Limit)
	if err != nil {
		return err
	}
	return printResultSet(app, rs, false)
}

// ColumnsCmd describes the columns of a table.
type ColumnsCmd struct {
	Table string `arg:"" help:"Table to describe."`
}

func (c *ColumnsCmd) Run(app *App) error {
	s, err := app.Scout()
	if err != nil {
		return err
	}
	cols, err := s.Columns(app.Context(), c.Table)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("table %q not found", c.Table)
	}
	return app.printJSON(cols)
}

// ConstraintsCmd lists the constraints of a table.
type ConstraintsCmd struct {
	Table string `arg:"" help:"Table to describe."`
}

func (c *ConstraintsCmd) Run(app *App) error {
	s, err := app.Scout()
	if err != nil {
		return err
	}
	cons, err := s.Constraints(app.Context(), c.Table)
	if err != nil {
		return err
	}
	return app.printJSON(nonNil(cons))
}

// IndexesCmd lists the indexes of a table.
type IndexesCmd struct {
	Table string `arg:"" help:"Table to describe."`
}

func (c *IndexesCmd) Run(app *App) error {
	s, err := app.Scout()
	if err != nil {
		return err
	}
	idx, err := s.Indexes(app.Context(), c.Table)
	if err != nil {
		return err
	}
	return app.printJSON(nonNil(idx))
}

// SizeCmd prints the on-disk size of a table.
type SizeCmd struct {
	Table string `arg:"" help:"Table to measure."`
}

func (c *SizeCmd) Run(app *App) error {
	s, err := app.Scout()
	if err != nil {
		return err
	}
	size, err := s.Size(app.Context(), c.Table)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Stdout, "The total size of table '%s' is: %s\n", size.Table, size.Pretty)
	return nil
}

// QueryCmd prints rows matching a raw WHERE clause.
type QueryCmd struct {
	Table string `arg:"" help:"Table to query."`
	Where string `arg:"" help:"SQL condition, passed to the database as written."`
	Limit int    `help:"Maximum number of rows." default:"20"`
}

func (c *QueryCmd) Run(app *App) error {
	s, err := app.Scout()
	if err != nil {
		return err
	}
	rs, err := s.Query(app.Context(), c.Table, c.Where, c.Limit)
	if err != nil {
		return err
	}
	app.Log.Debug().Str("table", c.Table).Str("where", c.Where).Int("rows", len(rs.Records)).Msg("query complete")
	return printResultSet(app, rs, false)
}

// NearbyCmd ranks rows around a point. Pass negative coordinates as
// --lng=-74.006 so they are not read as flags.
type NearbyCmd struct {
	Table  string  `arg:"" help:"Table with latitude and longitude columns."`
	Lat    float64 `required:"" help:"Latitude of the search center."`
	Lng    float64 `required:"" help:"Longitude of the search center."`
	Radius float64 `help:"Search radius in meters." default:"20000"`
	Limit  uint    `help:"Maximum number of candidate rows." default:"30"`
}

func (c *NearbyCmd) Run(app *App) error {
	s, err := app.Scout()
	if err != nil {
		return err
	}
	ranked, err := s.Nearby(app.Context(), c.Table, tablescout.SearchParams{
		Center:       tablescout.GeoPoint{Latitude: c.Lat, Longitude: c.Lng},
		RadiusMeters: c.Radius,
		Limit:        c.Limit,
	})
	if err != nil {
		return err
	}
	return app.printJSON(nonNil(ranked))
}

// BackupCmd writes <table>.backup.sql.
type BackupCmd struct {
	Table string `arg:"" help:"Table to back up."`
	Dir   string `help:"Directory for the backup file (default: current directory)." type:"path"`
}

func (c *BackupCmd) Run(app *App) error {
	s, err := backupScout(app, c.Dir)
	if err != nil {
		return err
	}
	path, err := s.Backup(app.Context(), c.Table)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Stdout, path)
	return nil
}

// BackupAllCmd backs up every table.
type BackupAllCmd struct {
	Dir      string `help:"Directory for the backup files (default: current directory)." type:"path"`
	Parallel int    `help:"Number of tables dumped at once." default:"1"`
}

func (c *BackupAllCmd) Run(app *App) error {
	s, err := backupScout(app, c.Dir)
	if err != nil {
		return err
	}
	if c.Parallel > 0 {
		s = s.WithParallel(c.Parallel)
	}
	paths, err := s.BackupAll(app.Context())
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(app.Stdout, p)
	}
	app.Log.Info().Int("tables", len(paths)).Msg("all tables backed up")
	return nil
}

func backupScout(app *App, dir string) (*tablescout.Scout, error) {
	s, err := app.Scout()
	if err != nil {
		return nil, err
	}
	if dir != "" {
		s = s.WithBackupDir(dir)
	}
	return s, nil
}

// GrepCmd prints statements in .sql files containing a needle.
type GrepCmd struct {
	Needle string `arg:"" help:"Text to look for."`
	Dir    string `help:"Directory holding the .sql files." default:"." type:"path"`
}

func (c *GrepCmd) Run(app *App) error {
	stmts, err := tablescout.GrepSQLFiles(c.Dir, c.Needle)
	if err != nil {
		return err
	}
	for _, st := range stmts {
		fmt.Fprintf(app.Stdout, "%s:%d\n%s\n\n", st.File, st.Line, st.Text)
	}
	if len(stmts) == 0 {
		app.Log.Info().Str("needle", c.Needle).Msg("no matching statements")
	}
	return nil
}

func printResultSet(app *App, rs *tablescout.ResultSet, metadata bool) error {
	if err := app.printJSON(nonNil(rs.Records)); err != nil {
		return err
	}
	if metadata {
		fmt.Fprintln(app.Stdout, "Metadata:")
		return app.printJSON(rs.Columns)
	}
	return nil
}

// nonNil turns a nil slice into an empty one so it prints as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
