// Package validation checks input files before the pipeline touches them.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// inputExtensions are the upload types the pipeline accepts.
var inputExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// FileValidator validates uploads and run directories.
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

// ValidateUpload checks an uploaded file's name and size before it is stored:
// the extension must be a supported input type, Office lock files ("~$...")
// are rejected, and the size must be positive and within the limit.
func (v *FileValidator) ValidateUpload(name string, size, maxBytes int64) error {
	base := filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(base))
	if !inputExtensions[ext] {
		v.logger.Warn("Rejected upload with unsupported extension",
			slog.String("file", base),
			slog.String("extension", ext))
		return fmt.Errorf("unsupported file type %q (expected .csv, .xlsx or .xls)", ext)
	}
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Rejected temporary Excel file",
			slog.String("file", base))
		return fmt.Errorf("file %s is a temporary Excel lock file", base)
	}
	if size <= 0 {
		return fmt.Errorf("file %s is empty", base)
	}
	if maxBytes > 0 && size > maxBytes {
		v.logger.Warn("Rejected oversized upload",
			slog.String("file", base),
			slog.Int64("size", size),
			slog.Int64("limit", maxBytes))
		return fmt.Errorf("file %s exceeds the %d byte upload limit", base, maxBytes)
	}
	return nil
}

// ValidateInputPath checks that the pipeline input exists and is a readable
// file or directory.
func (v *FileValidator) ValidateInputPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("input path %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat input path %s: %w", path, err)
	}
	if info.IsDir() {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("input file %s is not readable: %w", path, err)
	}
	file.Close()
	return nil
}

// ValidateOutputDirectory ensures the run output directory exists and is
// writable before any artifact is produced.
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

	return nil
}
