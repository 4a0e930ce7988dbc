package dataprocessing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"socialpulse/pkg/contracts/domain"
)

// DefaultWorkers bounds concurrent file parsing when no limit is configured.
const DefaultWorkers = 4

// FileReport summarizes one ingested export.
type FileReport struct {
	Source   string `json:"source"`
	Format   Format `json:"format"`
	Rows     int    `json:"rows"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

// LoadReport summarizes an ingestion into a dataset.
type LoadReport struct {
	Files    []FileReport `json:"files"`
	Accepted int          `json:"accepted"`
	Rejected int          `json:"rejected"`
	Errors   []RowError   `json:"errors"`
}

// Ingest appends parsed records to ds in result order. Rows whose
// (period, page) is already present become row errors.
func Ingest(ds *domain.Dataset, results ...*ParseResult) *LoadReport {
	report := &LoadReport{Files: []FileReport{}, Errors: []RowError{}}
	for _, res := range results {
		fr := FileReport{Source: res.Source, Format: res.Format, Rows: res.TotalRows, Rejected: len(res.Errors)}
		report.Errors = append(report.Errors, res.Errors...)

		for _, r := range res.Records {
			if err := ds.Append(r); err != nil {
				msg := err.Error()
				if errors.Is(err, domain.ErrDuplicateRecord) {
					msg = "duplicate record for page " + r.Page.PageID + " in week " + r.Period.Key()
				}
				report.Errors = append(report.Errors, RowError{
					Source:  res.Source,
					Field:   colPageID.String(),
					Message: msg,
				})
				fr.Rejected++
				continue
			}
			fr.Accepted++
		}
		report.Accepted += fr.Accepted
		report.Rejected += fr.Rejected
		report.Files = append(report.Files, fr)
	}
	return report
}

// Loader parses several exports concurrently.
type Loader struct {
	parser  *Parser
	logger  *slog.Logger
	workers int
}

// NewLoader creates a loader. workers <= 0 selects DefaultWorkers.
func NewLoader(parser *Parser, logger *slog.Logger, workers int) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = NewParser(logger)
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Loader{
		parser:  parser,
		logger:  logger.With(slog.String("component", "loader")),
		workers: workers,
	}
}

// LoadFiles parses paths concurrently and appends their records to ds in
// the order of paths, so the dataset is the same on every run. The first
// file that cannot be parsed cancels the rest and nothing is appended.
func (l *Loader) LoadFiles(ctx context.Context, ds *domain.Dataset, paths []string) (*LoadReport, error) {
	start := time.Now()
	results := make([]*ParseResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, path := range paths {
		g.Go(func() error {
			res, err := l.parser.ParseFile(gctx, path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.logger.ErrorContext(ctx, "failed to load exports",
			slog.Int("files", len(paths)),
			slog.String("error", err.Error()))
		return nil, err
	}

	report := Ingest(ds, results...)
	l.logger.InfoContext(ctx, "loaded exports",
		slog.String("dataset_id", ds.ID),
		slog.Int("files", len(paths)),
		slog.Int("accepted", report.Accepted),
		slog.Int("rejected", report.Rejected),
		slog.Duration("duration", time.Since(start)))
	return report, nil
}
