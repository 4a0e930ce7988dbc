package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"socialpulse/internal/aggregation"
	"socialpulse/internal/dataprocessing"
	apierrors "socialpulse/internal/errors"
	"socialpulse/internal/exporter"
	"socialpulse/internal/middleware"
	"socialpulse/internal/services"
	api "socialpulse/pkg/contracts/api/v1"
	"socialpulse/pkg/contracts/domain"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv"
)

// uploadContentTypes are the request content types accepted by POST /datasets.
var uploadContentTypes = []string{
	"multipart/form-data",
	contentTypeCSV,
	"application/csv",
	contentTypeXLSX,
	"application/octet-stream",
}

// DatasetHandler handles dataset and analytics HTTP requests with RFC 7807 errors
type DatasetHandler struct {
	service        DatasetServiceInterface
	validator      *middleware.RequestValidator
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
	growthMinWeeks int
}

// NewDatasetHandler creates a new dataset handler. maxUploadBytes bounds
// upload bodies; growthMinWeeks is the default of GET /growth.
func NewDatasetHandler(service DatasetServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64, growthMinWeeks int) *DatasetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &DatasetHandler{
		service:        service,
		validator:      middleware.NewRequestValidator(logger),
		logger:         logger.With(slog.String("component", "dataset_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
		growthMinWeeks: growthMinWeeks,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListDatasets)
	r.With(
		middleware.ContentTypeValidator(h.errorHandler, uploadContentTypes...),
		middleware.MaxBodySize(h.maxUploadBytes),
	).Post("/", h.UploadDataset)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetDataset)
		r.Delete("/", h.DeleteDataset)
		r.Get("/summary", h.GetSummary)
		r.Get("/pages/{pageID}/summary", h.GetPageSummary)
		r.Get("/aggregates/{granularity}", h.GetAggregates)
		r.Get("/timeseries", h.GetTimeseries)
		r.Get("/pivot", h.GetPivot)
		r.Get("/pivot.csv", h.ExportPivot(exporter.FormatCSV))
		r.Get("/pivot.xlsx", h.ExportPivot(exporter.FormatXLSX))
		r.Get("/rankings", h.GetRankings)
		r.Get("/distribution", h.GetDistribution)
		r.Get("/growth", h.GetGrowth)
		r.Get("/weeks/{year}/{week}", h.GetWeekComparison)
		r.Get("/coverage", h.GetCoverage)
	})

	return r
}

// ListDatasets handles GET /api/v1/datasets
func (h *DatasetHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets := h.service.List(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"datasets": datasets,
		"count":    len(datasets),
	})
}

// UploadDataset handles POST /api/v1/datasets. The export arrives either as
// the multipart field "file" or as the raw body with ?format=csv|xlsx.
func (h *DatasetHandler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := api.UploadRequest{
		Name:   r.URL.Query().Get("name"),
		Format: strings.ToLower(r.URL.Query().Get("format")),
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var (
		body   io.Reader = r.Body
		name             = req.Name
		format dataprocessing.Format
		err    error
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, ferr := r.FormFile("file")
		if ferr != nil {
			h.errorHandler.HandleError(w, r, uploadError(ferr))
			return
		}
		defer file.Close()

		body = file
		if name == "" {
			name = filepath.Base(header.Filename)
		}
		if req.Format == "" {
			req.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
		}
	} else if req.Format == "" {
		req.Format = formatFromContentType(r.Header.Get("Content-Type"))
	}

	if format, err = dataprocessing.ParseFormat(req.Format); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", "format must be csv or xlsx"))
		return
	}
	if name == "" {
		name = "upload." + string(format)
	}

	result, err := h.service.Upload(ctx, name, format, body)
	if err != nil {
		h.errorHandler.HandleError(w, r, uploadError(err))
		return
	}

	h.logger.InfoContext(ctx, "dataset uploaded",
		slog.String("dataset_id", result.Dataset.ID),
		slog.String("format", string(format)),
		slog.Int("accepted", result.Report.Accepted),
		slog.Int("rejected", result.Report.Rejected))

	w.Header().Set("Location", fmt.Sprintf("%s/%s", strings.TrimSuffix(r.URL.Path, "/"), result.Dataset.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

// GetDataset handles GET /api/v1/datasets/{id}
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// DeleteDataset handles DELETE /api/v1/datasets/{id}
func (h *DatasetHandler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSummary handles GET /api/v1/datasets/{id}/summary
func (h *DatasetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "id"), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetPageSummary handles GET /api/v1/datasets/{id}/pages/{pageID}/summary
func (h *DatasetHandler) GetPageSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.PageSummary(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "pageID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetAggregates handles GET /api/v1/datasets/{id}/aggregates/{granularity}
func (h *DatasetHandler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	granularity := chi.URLParam(r, "granularity")
	method := r.URL.Query().Get("method")

	result, err := h.service.Aggregate(r.Context(), chi.URLParam(r, "id"), granularity, method, filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// GetTimeseries handles GET /api/v1/datasets/{id}/timeseries
func (h *DatasetHandler) GetTimeseries(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	series, err := h.service.Timeseries(r.Context(), chi.URLParam(r, "id"), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"pages": series})
}

// GetPivot handles GET /api/v1/datasets/{id}/pivot?metric=
func (h *DatasetHandler) GetPivot(w http.ResponseWriter, r *http.Request) {
	pt, err := h.pivot(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, pt)
}

// ExportPivot streams the pivot table as a CSV or XLSX attachment.
func (h *DatasetHandler) ExportPivot(format exporter.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pt, err := h.pivot(r)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		table, err := exporter.PivotTable(pt)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		contentType := contentTypeCSV + "; charset=utf-8"
		if format == exporter.FormatXLSX {
			contentType = contentTypeXLSX
		}
		filename := fmt.Sprintf("pivot_%s.%s", pt.Metric, format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if err := exporter.Encode(w, format, table); err != nil {
			// headers are already sent; log only
			h.logger.ErrorContext(r.Context(), "failed to stream pivot export",
				slog.String("format", string(format)),
				slog.String("error", err.Error()))
		}
	}
}

func (h *DatasetHandler) pivot(r *http.Request) (aggregation.PivotTable, error) {
	metric, err := h.parseMetric(r)
	if err != nil {
		return aggregation.PivotTable{}, err
	}
	filter, err := h.parseFilter(r)
	if err != nil {
		return aggregation.PivotTable{}, err
	}
	return h.service.Pivot(r.Context(), chi.URLParam(r, "id"), metric, filter)
}

// GetRankings handles GET /api/v1/datasets/{id}/rankings?metric=&year=&week=&limit=
func (h *DatasetHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	metric, err := h.parseMetric(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	req := api.RankingsRequest{MetricRequest: api.MetricRequest{Metric: metric}}
	for param, dst := range map[string]*int{"year": &req.Year, "week": &req.Week, "limit": &req.Limit} {
		if *dst, err = middleware.QueryInt(r, param, 0); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rankings, err := h.service.RankPages(r.Context(), chi.URLParam(r, "id"), services.RankingQuery{
		Metric: req.Metric,
		Year:   req.Year,
		Week:   req.Week,
		Limit:  req.Limit,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"metric":   req.Metric,
		"rankings": rankings,
	})
}

// GetDistribution handles GET /api/v1/datasets/{id}/distribution
func (h *DatasetHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	entries, err := h.service.Distribution(r.Context(), chi.URLParam(r, "id"), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"distribution": entries})
}

// GetGrowth handles GET /api/v1/datasets/{id}/growth?metric=&min_weeks=
func (h *DatasetHandler) GetGrowth(w http.ResponseWriter, r *http.Request) {
	metric, err := h.parseMetric(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	minWeeks, err := middleware.QueryInt(r, "min_weeks", h.growthMinWeeks)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	req := api.GrowthRequest{MetricRequest: api.MetricRequest{Metric: metric}, MinWeeks: minWeeks}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	growth, err := h.service.Growth(r.Context(), chi.URLParam(r, "id"), req.Metric, req.MinWeeks)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"metric":    req.Metric,
		"min_weeks": req.MinWeeks,
		"pages":     growth,
	})
}

// GetWeekComparison handles GET /api/v1/datasets/{id}/weeks/{year}/{week}
func (h *DatasetHandler) GetWeekComparison(w http.ResponseWriter, r *http.Request) {
	var req api.WeekRequest
	var err error
	if req.Year, err = strconv.Atoi(chi.URLParam(r, "year")); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "year must be a valid integer"))
		return
	}
	if req.Week, err = strconv.Atoi(chi.URLParam(r, "week")); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("week", "week must be a valid integer"))
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	cmp, err := h.service.CompareWeek(r.Context(), chi.URLParam(r, "id"), req.Year, req.Week)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, cmp)
}

// GetCoverage handles GET /api/v1/datasets/{id}/coverage
func (h *DatasetHandler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Coverage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// parseMetric reads ?metric=. Names outside the numeric registry entries
// are reported as unknown metrics.
func (h *DatasetHandler) parseMetric(r *http.Request) (string, error) {
	metric := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("metric")))
	if metric != "" && !domain.MetricKey(metric).IsNumeric() {
		return "", apierrors.UnknownMetricError(metric)
	}
	if err := h.validator.ValidateStruct(api.MetricRequest{Metric: metric}); err != nil {
		return "", err
	}
	return metric, nil
}

// parseFilter reads from, to, page_id and status query parameters.
func (h *DatasetHandler) parseFilter(r *http.Request) (aggregation.Filter, error) {
	q := r.URL.Query()
	req := api.RecordFilterRequest{
		DateRangeRequest: api.DateRangeRequest{From: q.Get("from"), To: q.Get("to")},
		PageIDs:          splitValues(q["page_id"]),
		Statuses:         splitValues(q["status"]),
	}
	for i, s := range req.Statuses {
		req.Statuses[i] = strings.ToUpper(s)
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return aggregation.Filter{}, err
	}

	filter := aggregation.Filter{PageIDs: req.PageIDs, From: req.From, To: req.To}
	for _, s := range req.Statuses {
		filter.Statuses = append(filter.Statuses, domain.RecordStatus(s))
	}
	return filter, nil
}

// splitValues accepts both repeated parameters and comma-separated lists.
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func formatFromContentType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, contentTypeXLSX):
		return string(dataprocessing.FormatXLSX)
	case strings.HasPrefix(contentType, contentTypeCSV), strings.HasPrefix(contentType, "application/csv"):
		return string(dataprocessing.FormatCSV)
	default:
		return ""
	}
}

// uploadError turns body size overruns into 413 responses.
func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apierrors.PayloadTooLargeError(maxErr.Limit)
	}
	if errors.Is(err, http.ErrMissingFile) {
		return apierrors.ErrValidation("file", "multipart field \"file\" is required")
	}
	return err
}
