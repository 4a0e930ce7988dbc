package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"socialpulse/internal/config"
	"socialpulse/internal/dataprocessing"
	apierrors "socialpulse/internal/errors"
	"socialpulse/internal/infrastructure"
	"socialpulse/internal/reach"
	"socialpulse/pkg/contracts/domain"
)

// DatasetInfo describes a stored dataset without its records.
type DatasetInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Records   int       `json:"records"`
	Pages     int       `json:"pages"`
	Weeks     int       `json:"weeks"`
}

// IngestResult is returned after a dataset has been created from exports.
type IngestResult struct {
	Dataset DatasetInfo                `json:"dataset"`
	Report  *dataprocessing.LoadReport `json:"report"`
}

// DatasetService keeps ingested datasets in memory and answers analytics
// questions about them. It is safe for concurrent use; datasets are
// immutable once stored.
type DatasetService struct {
	mu       sync.RWMutex
	datasets map[string]*domain.Dataset
	order    []string

	parser         *dataprocessing.Parser
	loader         *dataprocessing.Loader
	coverage       *dataprocessing.CoverageProcessor
	detector       *reach.Detector
	growthMinWeeks int
	maxDatasets    int

	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewDatasetService creates a dataset service. A nil metrics disables
// business metrics; a nil logger selects slog.Default.
func NewDatasetService(cfg *config.Config, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DatasetService {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dataset_service"))

	parser := dataprocessing.NewParser(logger)
	svc := &DatasetService{
		datasets:       make(map[string]*domain.Dataset),
		parser:         parser,
		loader:         dataprocessing.NewLoader(parser, logger, cfg.Ingestion.Workers),
		coverage:       dataprocessing.NewCoverageProcessor(),
		detector:       reach.NewDetector(cfg.Analytics.SuspiciousReachThreshold),
		growthMinWeeks: cfg.Analytics.GrowthMinWeeks,
		maxDatasets:    cfg.Ingestion.MaxDatasets,
		tracer:         otel.Tracer(infrastructure.ServiceName),
		metrics:        metrics,
		logger:         logger,
	}

	logger.Info("DatasetService initialized",
		slog.Int64("suspicious_reach_threshold", svc.detector.Threshold()),
		slog.Int("growth_min_weeks", svc.growthMinWeeks),
		slog.Int("max_datasets", svc.maxDatasets))
	return svc
}

// track starts a span for op and returns the function that ends it and
// records the analytics metrics.
func (s *DatasetService) track(ctx context.Context, op, datasetID string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "dataset."+op,
		trace.WithAttributes(attribute.String("dataset.id", datasetID)))
	start := time.Now()
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		s.metrics.RecordAnalytics(ctx, op, time.Since(start), err)
	}
}

// Upload parses one export and stores it as a new dataset. An export
// without a single valid row is rejected with a parsing error that carries
// the row errors.
func (s *DatasetService) Upload(ctx context.Context, name string, format dataprocessing.Format, r io.Reader) (*IngestResult, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.upload",
		trace.WithAttributes(attribute.String("format", string(format))))
	defer span.End()
	start := time.Now()

	if err := s.checkCapacity(); err != nil {
		return nil, err
	}

	res, err := s.parser.Parse(ctx, r, format, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, err
	}

	ds := domain.NewDataset(uuid.New().String(), name)
	report := dataprocessing.Ingest(ds, res)
	return s.store(ctx, ds, report, string(format), start)
}

// LoadFiles parses several local exports concurrently into one new dataset.
func (s *DatasetService) LoadFiles(ctx context.Context, name string, paths []string) (*IngestResult, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.load_files",
		trace.WithAttributes(attribute.Int("files", len(paths))))
	defer span.End()
	start := time.Now()

	if len(paths) == 0 {
		return nil, apierrors.NewAppValidationError("at least one export file is required")
	}
	if err := s.checkCapacity(); err != nil {
		return nil, err
	}
	if name == "" {
		name = strings.Join(paths, ",")
	}

	ds := domain.NewDataset(uuid.New().String(), name)
	report, err := s.loader.LoadFiles(ctx, ds, paths)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}
	return s.store(ctx, ds, report, "files", start)
}

func (s *DatasetService) checkCapacity() error {
	if s.maxDatasets <= 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.datasets) >= s.maxDatasets {
		return apierrors.NewConflictError(
			fmt.Sprintf("dataset limit of %d reached; delete a dataset first", s.maxDatasets), nil).
			WithContext("max_datasets", s.maxDatasets)
	}
	return nil
}

func (s *DatasetService) store(ctx context.Context, ds *domain.Dataset, report *dataprocessing.LoadReport, format string, start time.Time) (*IngestResult, error) {
	s.metrics.RecordIngestion(ctx, format, report.Accepted, report.Rejected, time.Since(start))

	if report.Accepted == 0 {
		s.logger.WarnContext(ctx, "export rejected: no valid rows",
			slog.String("name", ds.Name),
			slog.Int("rejected", report.Rejected))
		return nil, apierrors.NewParsingError("export contains no valid rows", nil).
			WithContext("row_errors", report.Errors)
	}

	s.mu.Lock()
	if s.maxDatasets > 0 && len(s.datasets) >= s.maxDatasets {
		s.mu.Unlock()
		return nil, apierrors.NewConflictError(
			fmt.Sprintf("dataset limit of %d reached; delete a dataset first", s.maxDatasets), nil)
	}
	s.datasets[ds.ID] = ds
	s.order = append(s.order, ds.ID)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.DatasetsActive.Add(ctx, 1)
	}
	infrastructure.AddSpanEvent(ctx, "dataset.stored",
		attribute.String("dataset.id", ds.ID),
		attribute.Int("accepted", report.Accepted),
		attribute.Int("rejected", report.Rejected))

	info := describe(ds)
	s.logger.InfoContext(ctx, "dataset stored",
		slog.String("dataset_id", ds.ID),
		slog.String("name", ds.Name),
		slog.Int("records", info.Records),
		slog.Int("pages", info.Pages),
		slog.Int("weeks", info.Weeks),
		slog.Int("rejected", report.Rejected))

	return &IngestResult{Dataset: info, Report: report}, nil
}

// List returns every stored dataset in creation order.
func (s *DatasetService) List(ctx context.Context) []DatasetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]DatasetInfo, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, describe(s.datasets[id]))
	}
	return out
}

// Get describes one dataset.
func (s *DatasetService) Get(ctx context.Context, id string) (DatasetInfo, error) {
	ds, err := s.dataset(id)
	if err != nil {
		return DatasetInfo{}, err
	}
	return describe(ds), nil
}

// Delete removes a dataset.
func (s *DatasetService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.datasets[id]; !ok {
		s.mu.Unlock()
		return apierrors.NewNotFoundError("dataset " + id)
	}
	delete(s.datasets, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.DatasetsActive.Add(ctx, -1)
	}
	s.logger.InfoContext(ctx, "dataset deleted", slog.String("dataset_id", id))
	return nil
}

// Count returns the number of stored datasets.
func (s *DatasetService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}

func (s *DatasetService) dataset(id string) (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[id]
	if !ok {
		return nil, apierrors.NewNotFoundError("dataset " + id)
	}
	return ds, nil
}

func describe(ds *domain.Dataset) DatasetInfo {
	return DatasetInfo{
		ID:        ds.ID,
		Name:      ds.Name,
		CreatedAt: ds.CreatedAt,
		Records:   ds.Len(),
		Pages:     len(ds.Pages()),
		Weeks:     len(ds.Periods()),
	}
}
