// Package validation checks the filesystem locations a command depends on
// before any work starts.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"farsreport/internal/errors"
	"farsreport/internal/files"
	"farsreport/internal/infrastructure"
)

// FileValidator provides file validation shared by the CLI and the server
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	return &FileValidator{
		logger: infrastructure.WithComponent(logger, "file_validator"),
	}
}

// ValidateDataDirectory checks that dir is an existing directory and returns
// how many accident files it holds. A directory without accident files is
// not an error.
func (v *FileValidator) ValidateDataDirectory(dir string) (int, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Data directory does not exist",
			slog.String("directory", dir))
		return 0, errors.NewAppError(errors.ErrTypeNotFound,
			fmt.Sprintf("data directory %s does not exist", dir), err).
			WithContext("directory", dir)
	}
	if err != nil {
		v.logger.Error("Failed to stat data directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return 0, errors.NewStorageError(fmt.Sprintf("failed to stat directory %s", dir), err)
	}
	if !info.IsDir() {
		v.logger.Error("Data path is not a directory",
			slog.String("path", dir))
		return 0, errors.NewAppValidationError(fmt.Sprintf("%s is not a directory", dir))
	}

	yearFiles, err := files.NewDiscovery(dir).YearFiles()
	if err != nil {
		return 0, errors.NewStorageError(fmt.Sprintf("failed to list %s", dir), err)
	}

	if len(yearFiles) == 0 {
		v.logger.Warn("No accident files found",
			slog.String("directory", dir))
		return 0, nil
	}

	v.logger.Info("Data directory validated",
		slog.String("directory", dir),
		slog.Int("files_found", len(yearFiles)),
		slog.Int("first_year", yearFiles[0].Year),
		slog.Int("last_year", yearFiles[len(yearFiles)-1].Year))
	return len(yearFiles), nil
}

// ValidateOutputPath ensures the directory of path exists, or can be
// created, and is writable, and that path itself is not a directory.
func (v *FileValidator) ValidateOutputPath(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return errors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output path validated",
		slog.String("path", path))
	return nil
}
