package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"socialpulse/internal/aggregation"
	"socialpulse/internal/config"
	"socialpulse/internal/exporter"
	"socialpulse/internal/infrastructure"
	"socialpulse/internal/services"
	"socialpulse/internal/validation"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	validator *validation.FileValidator
	datasets  *services.DatasetService
}

func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "YAML config file (default: PULSE_CONFIG_FILE or ./config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().Int64("reach-threshold", 0, "flag multi-week reach above this value as a probable sum")
	cmd.PersistentFlags().StringP("out", "o", "", "write the result to a .csv or .xlsx file instead of printing JSON")
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "keep weeks starting on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "keep weeks starting on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringSlice("page", nil, "keep only these page ids")
}

// newRuntime loads configuration with flag overrides and logs to stderr so
// stdout stays valid JSON.
func newRuntime(cmd *cobra.Command) (*runtime, error) {
	var (
		cfg *config.Config
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if threshold, _ := cmd.Flags().GetInt64("reach-threshold"); threshold > 0 {
		cfg.Analytics.SuspiciousReachThreshold = threshold
	}
	cfg.Logging.Output = "console"

	logger, err := infrastructure.NewLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &runtime{
		cfg:       cfg,
		logger:    logger,
		validator: validation.NewFileValidator(logger),
		datasets:  services.NewDatasetService(cfg, nil, logger),
	}, nil
}

// load resolves the input paths and ingests them as one dataset.
func (rt *runtime) load(ctx context.Context, args []string) (string, error) {
	files, err := rt.validator.ExpandInputs(args)
	if err != nil {
		return "", err
	}
	res, err := rt.datasets.LoadFiles(ctx, "", files)
	if err != nil {
		return "", err
	}
	if res.Report.Rejected > 0 {
		rt.logger.WarnContext(ctx, "rows rejected during load",
			slog.Int("rejected", res.Report.Rejected),
			slog.Int("accepted", res.Report.Accepted))
	}
	return res.Dataset.ID, nil
}

func filterFromFlags(cmd *cobra.Command) aggregation.Filter {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	pages, _ := cmd.Flags().GetStringSlice("page")
	return aggregation.Filter{PageIDs: pages, From: from, To: to}
}

// emit writes tables to --out when given, otherwise prints v as indented JSON.
func (rt *runtime) emit(cmd *cobra.Command, v any, tables func() ([]exporter.Table, error)) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	if err := rt.validator.ValidateOutputFile(out, ".csv", ".xlsx"); err != nil {
		return err
	}
	ts, err := tables()
	if err != nil {
		return err
	}
	// a CSV file holds the first table only
	if strings.EqualFold(filepath.Ext(out), ".csv") && len(ts) > 1 {
		ts = ts[:1]
	}
	path, err := exporter.NewExporter("", rt.logger).Export(out, ts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
