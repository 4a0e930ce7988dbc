// Package config provides centralized configuration management.
//
// Configuration is assembled in increasing order of precedence:
//
//  1. Default values (Default)
//  2. A YAML file (PULSE_CONFIG_FILE, or config.yaml / configs/config.yaml)
//  3. Environment variables prefixed with PULSE_
//
// Examples:
//
//	PULSE_SERVER_PORT=8080
//	PULSE_LOGGING_OUTPUT=both
//	PULSE_ANALYTICS_SUSPICIOUS_REACH_THRESHOLD=10000000
//	PULSE_INGESTION_WORKERS=4
//
// The configuration is validated at load time; failures are returned as
// CONFIG application errors.
//
// Paths resolves the data, reports and logs directories against a base
// directory, which defaults to the executable directory.
package config
