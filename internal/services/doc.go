// Package services implements the business layer between the HTTP handlers
// and the pure analytics packages.
//
// DatasetService owns the in-memory dataset store. Uploads and local files
// are parsed by dataprocessing, stored under a UUID, and then served to the
// analytics methods (Summary, Aggregate, Pivot, RankPages, Growth, ...),
// each of which runs inside an OpenTelemetry span and records business
// metrics. Combined reach figures pass through the reach detector, and
// suspicious values are returned as warnings alongside the result.
//
// HealthService reports liveness, readiness and version information.
//
// Services return *errors.AppError values so handlers can map them to
// RFC 7807 responses without inspecting messages.
package services
