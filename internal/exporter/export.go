package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Encode writes tables to out in the given format. CSV takes exactly one
// table.
func Encode(out io.Writer, format Format, tables ...Table) error {
	switch format {
	case FormatCSV:
		if len(tables) != 1 {
			return fmt.Errorf("csv export takes one table, got %d", len(tables))
		}
		return EncodeCSV(out, tables[0])
	case FormatXLSX:
		return EncodeXLSX(out, tables...)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// Exporter writes tables to files chosen by extension.
type Exporter struct {
	csv    *CSVWriter
	logger *slog.Logger
}

// NewExporter creates an exporter rooted at baseDir.
func NewExporter(baseDir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{csv: NewCSVWriter(baseDir, logger), logger: logger}
}

// Export writes tables to path. A .csv path takes exactly one table; an
// .xlsx path gets one sheet per table. It returns the resolved path.
func (e *Exporter) Export(path string, tables ...Table) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		if len(tables) != 1 {
			return "", fmt.Errorf("csv export takes one table, got %d", len(tables))
		}
		return e.csv.WriteTable(path, tables[0])
	case ".xlsx":
		return e.writeXLSX(path, tables)
	default:
		return "", fmt.Errorf("unsupported export format %q", filepath.Ext(path))
	}
}

func (e *Exporter) writeXLSX(path string, tables []Table) (string, error) {
	fullPath := e.csv.resolvePath(path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := EncodeXLSX(file, tables...); err != nil {
		return "", err
	}

	e.logger.Info("Writing XLSX file",
		slog.String("full_path", fullPath),
		slog.Int("sheets", len(tables)))
	return fullPath, file.Close()
}
