// Package app provides application initialization and lifecycle management.
// It wires configuration, logging, OpenTelemetry, the dataset and health
// services and the HTTP router together, and runs the server until it is
// interrupted.
//
// # Initialization Flow
//
//  1. Load configuration from defaults, the YAML file and PULSE_* variables
//  2. Resolve and create the data, reports and logs directories
//  3. Initialize logging and OpenTelemetry (Prometheus metrics exporter)
//  4. Create the dataset and health services
//  5. Build the chi router with middleware and handlers
//  6. Create the HTTP server
//
// # Usage
//
//	app, err := app.NewApplication(nil, nil)
//	if err != nil {
//	    return err
//	}
//	return app.Run()
//
// # Graceful Shutdown
//
// Run handles SIGINT and SIGTERM. In-flight requests get the configured
// shutdown timeout to finish, then telemetry is flushed and the log file is
// closed.
//
// # Error Handling
//
// All initialization errors are returned to the caller. The package never
// calls os.Exit, leaving the exit code to main.
package app
