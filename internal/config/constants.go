package config

import "time"

// Application constants
const (
	AppName = "Social Pulse"

	// EnvPrefix namespaces every environment variable, e.g. PULSE_SERVER_PORT.
	EnvPrefix = "PULSE"

	// Rate Limiting
	DefaultRateLimitRPS = 50
	DefaultBurstSize    = 100

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// File Paths (relative to the base directory)
	DefaultDataDir    = "data"
	DefaultReportsDir = "data/reports"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "logs/pulse.log"

	// Log Settings
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"
	MaxLogFileSizeMB  = 100
	MaxLogFileAgeDays = 30
	MaxLogFileBackups = 10

	// Analytics
	DefaultSuspiciousReachThreshold = 10_000_000
	DefaultGrowthMinWeeks           = 3

	// Ingestion
	DefaultMaxUploadBytes   = 32 << 20 // 32MB
	DefaultIngestionWorkers = 4
	DefaultMaxDatasets      = 100

	// API Endpoints
	APIBasePath     = "/api/v1"
	HealthEndpoint  = "/health"
	MetricsEndpoint = "/metrics"
)
