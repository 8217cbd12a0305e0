package tablescout

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// Column names a table must expose to take part in a nearby search.
const (
	LatitudeColumn  = "latitude"
	LongitudeColumn = "longitude"
)

const (
	// DefaultRadiusMeters is used when SearchParams.RadiusMeters is zero.
	DefaultRadiusMeters = 20000

	// DefaultNearbyLimit is used when SearchParams.Limit is zero.
	DefaultNearbyLimit = 30
)

// RowSource supplies candidate rows for a nearby search.
type RowSource interface {
	// HasColumns reports whether table exposes every one of columns.
	HasColumns(ctx context.Context, table string, columns ...string) (bool, error)

	// FetchWithinRadius returns at most limit rows of table lying within
	// radiusMeters of center. The proximity test may be approximate.
	FetchWithinRadius(ctx context.Context, table string, center GeoPoint, radiusMeters float64, limit uint) ([]Record, error)
}

// SearchParams describes one nearby search.
type SearchParams struct {
	Center       GeoPoint
	RadiusMeters float64
	Limit        uint
}

func (p SearchParams) withDefaults() SearchParams {
	if p.RadiusMeters <= 0 {
		p.RadiusMeters = DefaultRadiusMeters
	}
	if p.Limit == 0 {
		p.Limit = DefaultNearbyLimit
	}
	return p
}

// Searcher ranks rows from a RowSource by distance from a point.
type Searcher struct {
	Source RowSource

	// Logger receives a debug event for every row dropped because its
	// coordinates could not be read. The zero Logger discards them.
	Logger zerolog.Logger
}

// NearbySearch runs a search against src without logging.
func NearbySearch(ctx context.Context, src RowSource, table string, params SearchParams) ([]RankedRecord, error) {
	return Searcher{Source: src, Logger: zerolog.Nop()}.Search(ctx, table, params)
}

// Search returns the rows of table near params.Center, nearest first.
//
// The source's coarse radius filter and limit decide the candidates; each
// candidate is then ranked by its exact great-circle distance. Candidates
// with a null or non-numeric latitude or longitude are dropped, so the
// result may be shorter than the limit. Ties keep the source's order.
func (s Searcher) Search(ctx context.Context, table string, params SearchParams) ([]RankedRecord, error) {
	params = params.withDefaults()
	if err := params.Center.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCenter, err)
	}

	ok, err := s.Source.HasColumns(ctx, table, LatitudeColumn, LongitudeColumn)
	if err != nil {
		return nil, &SourceUnavailableError{Op: "check columns", Err: err}
	}
	if !ok {
		return nil, &SchemaMismatchError{Table: table, Required: []string{LatitudeColumn, LongitudeColumn}}
	}

	candidates, err := s.Source.FetchWithinRadius(ctx, table, params.Center, params.RadiusMeters, params.Limit)
	if err != nil {
		return nil, &SourceUnavailableError{Op: "fetch within radius", Err: err}
	}

	ranked := make([]RankedRecord, 0, len(candidates))
	for i, rec := range candidates {
		pt, ok := rec.Point()
		if !ok {
			s.Logger.Debug().
				Str("table", table).
				Int("row", i).
				Msg("dropping row with unreadable coordinates")
			continue
		}
		ranked = append(ranked, RankedRecord{
			Record:          rec,
			DistanceInMiles: MetersToMiles(params.Center.DistanceMeters(pt)),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceInMiles < ranked[j].DistanceInMiles
	})
	return ranked, nil
}
