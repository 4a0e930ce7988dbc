package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/shared/testutil"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "aggregation error",
			err:        NewAggregationError("metric reach is aggregated by average, not sum").WithContext("registered_method", "average"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInvalidAggregation,
		},
		{
			name:       "validation error",
			err:        NewAppValidationError("week must be 1..53"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "parsing error",
			err:        NewParsingError("missing column reach", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeParsing,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("lookup: %w", NewNotFoundError("dataset x")),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "api error",
			err:        UnknownMetricError("followers"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeUnknownMetric,
		},
		{
			name:       "deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets/x/summary", nil)
			rec := httptest.NewRecorder()
			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/v1/datasets/x/summary", body["instance"])
			assert.True(t, logs.ContainsMessage("request failed"))
		})
	}
}

func TestErrorHandler_AppErrorContextExposed(t *testing.T) {
	h := NewErrorHandler(nil, false)
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	problem := h.ErrorToProblem(NewAggregationError("nope").WithContext("registered_method", "average"), req)
	assert.Equal(t, "average", problem.Extensions["registered_method"])
	assert.Equal(t, "AGGREGATION", problem.Extensions["error_type"])

	internal := h.ErrorToProblem(NewStorageError("disk", errors.New("secret path")).WithContext("path", "/tmp/x"), req)
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.NotContains(t, internal.Extensions, "path")
	assert.NotContains(t, internal.Detail, "secret")
}

func TestErrorHandler_HandleNil(t *testing.T) {
	h := NewErrorHandler(nil, false)
	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	h := NewErrorHandler(nil, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodPatch, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeProblem(t, rec)["detail"], "PATCH")
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	RecoveryMiddleware(h)(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, "kaboom", body["panic"])
	testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "", "/x").
		WithExtension("field", "week")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "week", out["field"])
	assert.NotContains(t, out, "detail")
	assert.Equal(t, "/x", out["instance"])

	var nilExt ProblemDetails
	nilExt.WithExtension("k", "v")
	assert.Equal(t, "v", nilExt.Extensions["k"])
}

func TestAPIError_Derivations(t *testing.T) {
	tooLarge := PayloadTooLargeError(1024)
	assert.Equal(t, http.StatusRequestEntityTooLarge, tooLarge.StatusCode)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", tooLarge.ErrorCode)
	assert.Equal(t, map[string]int64{"max_bytes": 1024}, tooLarge.Details)

	unknown := UnknownMetricError("likes")
	assert.Equal(t, "UNKNOWN_METRIC", unknown.ErrorCode)
	assert.Contains(t, unknown.Message, `"likes"`)

	disabled := ErrServiceUnavailable.WithMessage("Metrics export is disabled")
	assert.Equal(t, http.StatusServiceUnavailable, disabled.StatusCode)
	assert.Equal(t, "Metrics export is disabled", disabled.Message)

	assert.Nil(t, ErrPayloadTooLarge.Details)
	assert.Equal(t, "Unknown metric", ErrUnknownMetric.Message)
	assert.Equal(t, "Service temporarily unavailable", ErrServiceUnavailable.Message)
}
