// Package http implements the REST handlers of the analytics API.
// Handlers stay thin: they decode and validate query and path parameters,
// call the dataset service, and render JSON (or CSV/XLSX for pivot
// exports) through go-chi/render.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → DatasetService → analytics packages
//
// # Error Handling
//
// Every failure is rendered by errors.ErrorHandler as an RFC 7807 problem:
//
//	{
//	    "type": "/errors/metrics/invalid-aggregation",
//	    "title": "Invalid Aggregation Method",
//	    "status": 400,
//	    "detail": "metric \"reach\" cannot be aggregated with sum: registered method is average",
//	    "instance": "/api/v1/datasets/3f2a.../aggregates/week"
//	}
//
// # Testing
//
// Handlers are tested with httptest against a real DatasetService, and
// with a testify mock where a service failure has to be forced.
package http
