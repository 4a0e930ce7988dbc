// Package api contains the HTTP API request contracts.
// Version v1 represents the current stable API version.
package api

// DateRangeRequest restricts records to weeks starting within [From, To].
type DateRangeRequest struct {
	From string `json:"from" query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to" query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// RecordFilterRequest filters the records an analytics request works on.
type RecordFilterRequest struct {
	DateRangeRequest
	PageIDs  []string `json:"page_ids" query:"page_id"`
	Statuses []string `json:"statuses" query:"status" validate:"omitempty,dive,oneof=OK NO_ACTIVITY UNKNOWN"`
}

// UploadRequest describes an export upload sent as a raw body.
type UploadRequest struct {
	Name   string `json:"name" query:"name" validate:"omitempty,max=200"`
	Format string `json:"format" query:"format" validate:"omitempty,oneof=csv xlsx"`
}

// MetricRequest selects a numeric metric.
type MetricRequest struct {
	Metric string `json:"metric" query:"metric" validate:"required,oneof=reach engagements"`
}

// AggregateRequest asks for grouped aggregates. Method, when given, states
// how the caller expects reach to be combined and is checked against the
// metric registry.
type AggregateRequest struct {
	RecordFilterRequest
	Granularity string `json:"granularity" param:"granularity" validate:"required,oneof=page week month quarter"`
	Method      string `json:"method" query:"method" validate:"omitempty,oneof=sum average none"`
}

// RankingsRequest ranks weekly values, optionally for a single week.
type RankingsRequest struct {
	MetricRequest
	Year  int `json:"year" query:"year" validate:"omitempty,min=2000,max=2100"`
	Week  int `json:"week" query:"week" validate:"omitempty,min=1,max=53"`
	Limit int `json:"limit" query:"limit" validate:"omitempty,min=1,max=1000"`
}

// GrowthRequest finds pages with consecutive week-over-week growth.
type GrowthRequest struct {
	MetricRequest
	MinWeeks int `json:"min_weeks" query:"min_weeks" validate:"omitempty,min=1,max=53"`
}

// WeekRequest addresses one ISO week.
type WeekRequest struct {
	Year int `json:"year" param:"year" validate:"min=2000,max=2100"`
	Week int `json:"week" param:"week" validate:"min=1,max=53"`
}
