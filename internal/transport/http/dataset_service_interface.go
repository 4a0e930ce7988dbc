package http

import (
	"context"
	"io"

	"socialpulse/internal/aggregation"
	"socialpulse/internal/analytics"
	"socialpulse/internal/dataprocessing"
	"socialpulse/internal/services"
)

// DatasetServiceInterface defines the dataset operations the handlers use
type DatasetServiceInterface interface {
	Upload(ctx context.Context, name string, format dataprocessing.Format, r io.Reader) (*services.IngestResult, error)
	List(ctx context.Context) []services.DatasetInfo
	Get(ctx context.Context, id string) (services.DatasetInfo, error)
	Delete(ctx context.Context, id string) error

	Summary(ctx context.Context, id string, filter aggregation.Filter) (*services.DatasetSummary, error)
	PageSummary(ctx context.Context, id, pageID string) (*analytics.PageSummary, error)
	Aggregate(ctx context.Context, id, granularity, method string, filter aggregation.Filter) (*services.AggregateResult, error)
	Timeseries(ctx context.Context, id string, filter aggregation.Filter) ([]aggregation.PageTimeseries, error)
	Pivot(ctx context.Context, id, metric string, filter aggregation.Filter) (aggregation.PivotTable, error)
	RankPages(ctx context.Context, id string, q services.RankingQuery) ([]analytics.Ranking, error)
	Distribution(ctx context.Context, id string, filter aggregation.Filter) ([]aggregation.DistributionEntry, error)
	Growth(ctx context.Context, id, metric string, minWeeks int) ([]analytics.Growth, error)
	CompareWeek(ctx context.Context, id string, year, week int) (*services.WeekComparison, error)
	Coverage(ctx context.Context, id string) (dataprocessing.CoverageReport, error)
}
