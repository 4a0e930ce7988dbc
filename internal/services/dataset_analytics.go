package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"socialpulse/internal/aggregation"
	"socialpulse/internal/analytics"
	"socialpulse/internal/classification"
	"socialpulse/internal/dataprocessing"
	apierrors "socialpulse/internal/errors"
	"socialpulse/internal/reach"
	"socialpulse/pkg/contracts/domain"
)

// DatasetSummary is the dataset-wide overview.
type DatasetSummary struct {
	Dataset     DatasetInfo          `json:"dataset"`
	Summary     aggregation.Summary  `json:"summary"`
	Reach       analytics.Statistics `json:"reach"`
	Engagements analytics.Statistics `json:"engagements"`
	ReachRange  reach.Bounds         `json:"reach_range"`
	Warnings    []reach.Warning      `json:"warnings"`
}

// AggregateResult holds grouped aggregates plus any reach warnings raised
// while combining them.
type AggregateResult struct {
	Granularity aggregation.Granularity `json:"granularity"`
	Groups      []aggregation.Group     `json:"groups"`
	Warnings    []reach.Warning         `json:"warnings"`
}

// WeekComparison is the cross-page view of a single week.
type WeekComparison struct {
	Year     int                   `json:"year"`
	Week     int                   `json:"week"`
	Records  []domain.WeeklyRecord `json:"records"`
	Rankings []analytics.Ranking   `json:"rankings"`
	Summary  aggregation.Summary   `json:"summary"`
}

// RankingQuery selects what RankPages ranks.
type RankingQuery struct {
	Metric string
	Year   int
	Week   int
	Limit  int
}

// ParseMetric resolves a numeric metric name. Unknown names are validation
// errors.
func ParseMetric(name string) (domain.MetricKey, error) {
	key, err := domain.ParseMetricKey(name)
	if err != nil {
		return "", apierrors.NewAppValidationError(err.Error()).
			WithContext("metric", name).
			WithContext("allowed", domain.NumericMetrics())
	}
	return key, nil
}

// Definitions returns the metric registry grouped by category.
func (s *DatasetService) Definitions() map[string]interface{} {
	return map[string]interface{}{
		"definitions": classification.Definitions(),
		"categories":  classification.MetricsByCategory(),
		"selectable":  classification.SelectableMetrics(),
	}
}

// records returns the filtered records of a dataset.
func (s *DatasetService) records(id string, filter aggregation.Filter) (*domain.Dataset, []domain.WeeklyRecord, error) {
	ds, err := s.dataset(id)
	if err != nil {
		return nil, nil, err
	}
	return ds, aggregation.Apply(ds.Records(), filter), nil
}

// detect runs the reach detector over one presented figure and records a
// metric for every warning.
func (s *DatasetService) detect(ctx context.Context, source, figure string, value int64, periods int) *reach.Warning {
	w := s.detector.Detect(value, periods)
	if w == nil {
		return nil
	}
	w.Figure = figure
	s.metrics.RecordReachWarning(ctx, source)
	s.logger.WarnContext(ctx, "suspicious reach value",
		slog.String("source", source),
		slog.String("figure", figure),
		slog.Int64("value", value),
		slog.Int("periods", periods))
	return w
}

// Summary computes the dataset overview and flags reach figures that look
// summed. The reach statistics total is a plain sum and is checked next to
// the average.
func (s *DatasetService) Summary(ctx context.Context, id string, filter aggregation.Filter) (result *DatasetSummary, err error) {
	ctx, done := s.track(ctx, "summary", id)
	defer func() { done(err) }()

	ds, recs, err := s.records(id, filter)
	if err != nil {
		return nil, err
	}

	summary := aggregation.CreateSummary(recs)
	result = &DatasetSummary{
		Dataset:     describe(ds),
		Summary:     summary,
		Reach:       analytics.MetricStatistics(recs, domain.MetricReach),
		Engagements: analytics.MetricStatistics(recs, domain.MetricEngagements),
		ReachRange:  reach.Range(analytics.Values(recs, domain.MetricReach)),
		Warnings:    []reach.Warning{},
	}
	if w := s.detect(ctx, "summary", "summary.metrics.average_reach", summary.Metrics.AverageReach, summary.TotalWeeks); w != nil {
		result.Warnings = append(result.Warnings, *w)
	}
	if w := s.detect(ctx, "summary", "reach.total", result.Reach.Total, summary.TotalWeeks); w != nil {
		result.Warnings = append(result.Warnings, *w)
	}
	return result, nil
}

// PageSummary reports one page's full history.
func (s *DatasetService) PageSummary(ctx context.Context, id, pageID string) (result *analytics.PageSummary, err error) {
	ctx, done := s.track(ctx, "page_summary", id)
	defer func() { done(err) }()

	ds, err := s.dataset(id)
	if err != nil {
		return nil, err
	}
	result = analytics.GeneratePageSummary(ds.ByPage(pageID))
	if result == nil {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("page %s in dataset %s", pageID, id))
	}
	return result, nil
}

// Aggregate groups records by granularity. A non-empty method states how
// the caller expects reach to be combined and is checked against the
// registry first, so a request to sum reach fails.
func (s *DatasetService) Aggregate(ctx context.Context, id, granularity, method string, filter aggregation.Filter) (result *AggregateResult, err error) {
	ctx, done := s.track(ctx, "aggregate", id)
	defer func() { done(err) }()

	g, err := aggregation.ParseGranularity(granularity)
	if err != nil {
		return nil, apierrors.NewAppValidationError(err.Error()).WithContext("granularity", granularity)
	}
	if method != "" {
		if err := classification.ValidateAggregationMethod(domain.MetricReach, classification.Method(method)); err != nil {
			return nil, err
		}
	}

	_, recs, err := s.records(id, filter)
	if err != nil {
		return nil, err
	}
	groups, err := aggregation.Aggregate(recs, g)
	if err != nil {
		return nil, err
	}

	result = &AggregateResult{Granularity: g, Groups: groups, Warnings: []reach.Warning{}}
	for _, grp := range groups {
		periods := len(lo.Uniq(lo.Map(grp.Records, func(r domain.WeeklyRecord, _ int) string { return r.Period.Key() })))
		if w := s.detect(ctx, "aggregate_"+string(g), "groups."+grp.Key+".average_reach", grp.AverageReach, periods); w != nil {
			result.Warnings = append(result.Warnings, *w)
		}
	}
	return result, nil
}

// Timeseries returns each page's chronological weekly values.
func (s *DatasetService) Timeseries(ctx context.Context, id string, filter aggregation.Filter) (result []aggregation.PageTimeseries, err error) {
	ctx, done := s.track(ctx, "timeseries", id)
	defer func() { done(err) }()

	_, recs, err := s.records(id, filter)
	if err != nil {
		return nil, err
	}
	return aggregation.AggregatePageTimeseries(recs), nil
}

// Pivot builds the page × week matrix of a metric.
func (s *DatasetService) Pivot(ctx context.Context, id, metric string, filter aggregation.Filter) (result aggregation.PivotTable, err error) {
	ctx, done := s.track(ctx, "pivot", id)
	defer func() { done(err) }()

	key, err := ParseMetric(metric)
	if err != nil {
		return aggregation.PivotTable{}, err
	}
	_, recs, err := s.records(id, filter)
	if err != nil {
		return aggregation.PivotTable{}, err
	}
	return aggregation.CreatePivotTable(recs, key), nil
}

// RankPages ranks weekly values of a metric, across the whole dataset or
// within one week. A positive limit truncates the ranking.
func (s *DatasetService) RankPages(ctx context.Context, id string, q RankingQuery) (result []analytics.Ranking, err error) {
	ctx, done := s.track(ctx, "rankings", id)
	defer func() { done(err) }()

	key, err := ParseMetric(q.Metric)
	if err != nil {
		return nil, err
	}
	if (q.Year == 0) != (q.Week == 0) {
		return nil, apierrors.NewAppValidationError("year and week must be given together")
	}
	ds, err := s.dataset(id)
	if err != nil {
		return nil, err
	}

	recs := ds.Records()
	if q.Year != 0 {
		recs = aggregation.AggregateForWeekComparison(recs, q.Year, q.Week)
	}
	result = analytics.RankPagesByMetric(recs, key)
	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result, nil
}

// Distribution reports each page's share of total engagements.
func (s *DatasetService) Distribution(ctx context.Context, id string, filter aggregation.Filter) (result []aggregation.DistributionEntry, err error) {
	ctx, done := s.track(ctx, "distribution", id)
	defer func() { done(err) }()

	_, recs, err := s.records(id, filter)
	if err != nil {
		return nil, err
	}
	return aggregation.EngagementDistribution(recs), nil
}

// Growth finds pages whose metric rose for at least minWeeks consecutive
// weeks. minWeeks of 0 selects the configured default.
func (s *DatasetService) Growth(ctx context.Context, id, metric string, minWeeks int) (result []analytics.Growth, err error) {
	ctx, done := s.track(ctx, "growth", id)
	defer func() { done(err) }()

	key, err := ParseMetric(metric)
	if err != nil {
		return nil, err
	}
	if minWeeks == 0 {
		minWeeks = s.growthMinWeeks
	}
	ds, err := s.dataset(id)
	if err != nil {
		return nil, err
	}

	byPage := lo.GroupBy(ds.Records(), func(r domain.WeeklyRecord) string { return r.Page.PageID })
	return analytics.FindConsistentGrowth(byPage, key, minWeeks), nil
}

// CompareWeek returns every page's record for one ISO week, ranked by
// engagements.
func (s *DatasetService) CompareWeek(ctx context.Context, id string, year, week int) (result *WeekComparison, err error) {
	ctx, done := s.track(ctx, "week_comparison", id)
	defer func() { done(err) }()

	if _, err := domain.ISOWeekPeriod(year, week); err != nil {
		return nil, apierrors.NewAppValidationError(err.Error()).
			WithContext("year", year).
			WithContext("week", week)
	}
	ds, err := s.dataset(id)
	if err != nil {
		return nil, err
	}

	recs := aggregation.AggregateForWeekComparison(ds.Records(), year, week)
	return &WeekComparison{
		Year:     year,
		Week:     week,
		Records:  recs,
		Rankings: analytics.RankPagesByMetric(recs, domain.MetricEngagements),
		Summary:  aggregation.CreateSummary(recs),
	}, nil
}

// Coverage reports the weeks each page is missing.
func (s *DatasetService) Coverage(ctx context.Context, id string) (result dataprocessing.CoverageReport, err error) {
	ctx, done := s.track(ctx, "coverage", id)
	defer func() { done(err) }()

	ds, err := s.dataset(id)
	if err != nil {
		return dataprocessing.CoverageReport{}, err
	}
	return s.coverage.Analyze(ds), nil
}
