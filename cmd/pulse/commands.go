package main

import (
	"github.com/spf13/cobra"

	"socialpulse/internal/aggregation"
	"socialpulse/internal/analytics"
	"socialpulse/internal/exporter"
	"socialpulse/internal/services"
	"socialpulse/pkg/contracts/domain"
)

func newSummaryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "summary <files or directories...>",
		Short: "Dataset overview with reach statistics and warnings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			id, err := rt.load(ctx, args)
			if err != nil {
				return err
			}
			filter := filterFromFlags(cmd)

			summary, err := rt.datasets.Summary(ctx, id, filter)
			if err != nil {
				return err
			}
			return rt.emit(cmd, summary, func() ([]exporter.Table, error) {
				dist, err := rt.datasets.Distribution(ctx, id, filter)
				if err != nil {
					return nil, err
				}
				series, err := rt.datasets.Timeseries(ctx, id, filter)
				if err != nil {
					return nil, err
				}
				ranked, err := rt.datasets.RankPages(ctx, id, services.RankingQuery{Metric: string(domain.MetricEngagements)})
				if err != nil {
					return nil, err
				}
				return []exporter.Table{
					exporter.DistributionTable(dist),
					exporter.TimeseriesTable(series),
					exporter.RankingsTable(domain.MetricEngagements, ranked),
				}, nil
			})
		},
	}
	addFilterFlags(c)
	return c
}

func newPivotCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "pivot <files or directories...>",
		Short: "Page × week matrix of one metric",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			id, err := rt.load(ctx, args)
			if err != nil {
				return err
			}
			metric, _ := cmd.Flags().GetString("metric")

			pt, err := rt.datasets.Pivot(ctx, id, metric, filterFromFlags(cmd))
			if err != nil {
				return err
			}
			return rt.emit(cmd, pt, func() ([]exporter.Table, error) {
				table, err := exporter.PivotTable(pt)
				if err != nil {
					return nil, err
				}
				return []exporter.Table{table}, nil
			})
		},
	}
	c.Flags().String("metric", string(domain.MetricReach), "metric to pivot: reach or engagements")
	addFilterFlags(c)
	return c
}

func newAggregateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "aggregate <files or directories...>",
		Short: "Group records by page, week, month or quarter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			id, err := rt.load(ctx, args)
			if err != nil {
				return err
			}
			by, _ := cmd.Flags().GetString("by")
			method, _ := cmd.Flags().GetString("method")

			result, err := rt.datasets.Aggregate(ctx, id, by, method, filterFromFlags(cmd))
			if err != nil {
				return err
			}
			return rt.emit(cmd, result, func() ([]exporter.Table, error) {
				return []exporter.Table{exporter.GroupsTable(result.Granularity, result.Groups)}, nil
			})
		},
	}
	c.Flags().String("by", string(aggregation.ByMonth), "granularity: page, week, month or quarter")
	c.Flags().String("method", "", "expected reach combination; checked against the metric registry")
	addFilterFlags(c)
	return c
}

func newGrowthCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "growth <files or directories...>",
		Short: "Pages with consecutive week-over-week growth",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			id, err := rt.load(ctx, args)
			if err != nil {
				return err
			}
			metric, _ := cmd.Flags().GetString("metric")
			minWeeks, _ := cmd.Flags().GetInt("min-weeks")

			growth, err := rt.datasets.Growth(ctx, id, metric, minWeeks)
			if err != nil {
				return err
			}
			if growth == nil {
				growth = []analytics.Growth{}
			}
			return rt.emit(cmd, growth, func() ([]exporter.Table, error) {
				return []exporter.Table{exporter.GrowthTable(domain.MetricKey(metric), growth)}, nil
			})
		},
	}
	c.Flags().String("metric", string(domain.MetricEngagements), "metric to track: reach or engagements")
	c.Flags().Int("min-weeks", 0, "minimum consecutive increases (default from config)")
	return c
}
