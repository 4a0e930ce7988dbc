package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Supported export file extensions.
var exportExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// FileValidator provides common file validation functions for all executables
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExportFile checks that path is a readable CSV or XLSX export.
func (v *FileValidator) ValidateExportFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !exportExtensions[ext] {
		v.logger.Error("Unsupported export file",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not a CSV or XLSX export (extension: %s)", path, ext)
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Skipping temporary Excel file",
			slog.String("file", path))
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}
	return nil
}

// ExpandInputs resolves files and directories into a sorted list of export
// files. Directories contribute their *.csv and *.xlsx entries.
func (v *FileValidator) ExpandInputs(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(p string) error {
		if err := v.ValidateExportFile(p); err != nil {
			return err
		}
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
		return nil
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", p, err)
		}
		if !info.IsDir() {
			if err := add(p); err != nil {
				return nil, err
			}
			continue
		}

		var matches []string
		for ext := range exportExtensions {
			m, err := filepath.Glob(filepath.Join(p, "*"+ext))
			if err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", p, err)
			}
			matches = append(matches, m...)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if strings.HasPrefix(filepath.Base(m), "~$") {
				continue
			}
			if err := add(m); err != nil {
				return nil, err
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no CSV or XLSX exports found in %v", paths)
	}

	v.logger.Info("Input files resolved",
		slog.Int("files_found", len(files)))
	return files, nil
}

// ValidateOutputFile ensures the parent directory of path exists and is
// writable and that the extension is one of allowed.
func (v *FileValidator) ValidateOutputFile(path string, allowed ...string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if len(allowed) > 0 {
		ok := false
		for _, a := range allowed {
			if ext == a {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("output %s must have one of the extensions %v", path, allowed)
		}
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
