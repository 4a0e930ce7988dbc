package main

import (
	"log/slog"
	"os"

	"socialpulse/internal/app"
)

func main() {
	// Configuration comes from the config file and PULSE_* variables
	application, err := app.NewApplication(nil, nil)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
