// Package validation guards the pipeline's file boundaries: filenames,
// input and output directories, and the structure of parsed tables.
// Everything here runs before cleaning; structural failures stop a file,
// quality findings only warn.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "wilcli/internal/errors"
)

// maxFilenameLength mirrors the common filesystem limit.
const maxFilenameLength = 255

// supportedExtensions are the input formats the reader understands.
var supportedExtensions = []string{".csv", ".xlsx", ".xls"}

// dangerousFragments are rejected anywhere in a filename.
var dangerousFragments = []string{"..", "/", `\`, "<", ">", ":", `"`, "|", "?", "*"}

// FileValidator provides common file validation functions for both executables.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFilename rejects empty, oversized, traversal-prone, and
// unsupported filenames. It expects a bare name, not a path.
func (v *FileValidator) ValidateFilename(filename string) error {
	if filename == "" {
		return apperrors.NewValidationError("filename cannot be empty")
	}
	if len(filename) > maxFilenameLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("filename is too long (max %d characters)", maxFilenameLength))
	}
	for _, fragment := range dangerousFragments {
		if strings.Contains(filename, fragment) {
			v.logger.Warn("Rejected filename with dangerous fragment",
				slog.String("filename", filename),
				slog.String("fragment", fragment))
			return apperrors.NewValidationError(
				fmt.Sprintf("filename contains invalid character: %s", fragment))
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range supportedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return apperrors.NewValidationError(
		fmt.Sprintf("invalid file extension %q, allowed: %s",
			ext, strings.Join(supportedExtensions, ", ")))
}

// ValidateFile checks that a path exists, is a regular file, and is readable.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewNotFoundError(fmt.Sprintf("file %s", path))
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
		return apperrors.NewValidationError(fmt.Sprintf("%s is a directory, not a file", path))
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

// ValidateInputDirectory validates that the input directory exists and is
// actually a directory. With a non-empty pattern it also logs how many
// matching files were found; zero matches is not an error.
func (v *FileValidator) ValidateInputDirectory(dir string, requiredPattern string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return apperrors.NewNotFoundError(fmt.Sprintf("input directory %s", dir))
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return apperrors.NewValidationError(fmt.Sprintf("%s is not a directory", dir))
	}

	if requiredPattern != "" {
		pattern := filepath.Join(dir, requiredPattern)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			v.logger.Error("Failed to check for files",
				slog.String("pattern", pattern),
				slog.String("error", err.Error()))
			return fmt.Errorf("failed to check for files: %w", err)
		}

		if len(matches) == 0 {
			v.logger.Warn("No files matching pattern found",
				slog.String("directory", dir),
				slog.String("pattern", requiredPattern))
			// not an error, just nothing to process
			return nil
		}

		v.logger.Info("Input directory validated",
			slog.String("directory", dir),
			slog.Int("files_found", len(matches)),
			slog.String("pattern", requiredPattern))
	}

	return nil
}

// ValidateOutputDirectory ensures the output directory exists or can be
// created, and that it is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(
			fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// verify writability with a throwaway file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(
			fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ListDataFiles returns the supported data files directly under dir,
// sorted by name. Spreadsheet lock files (the ~$ prefix) are skipped.
func (v *FileValidator) ListDataFiles(dir string) ([]string, error) {
	if err := v.ValidateInputDirectory(dir, ""); err != nil {
		return nil, err
	}

	var files []string
	for _, ext := range supportedExtensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("failed to list %s files: %w", ext, err)
		}
		for _, match := range matches {
			base := filepath.Base(match)
			if strings.HasPrefix(base, "~$") {
				v.logger.Warn("Skipping spreadsheet lock file",
					slog.String("file", match))
				continue
			}
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			files = append(files, match)
		}
	}
	sort.Strings(files)

	v.logger.Debug("Data files listed",
		slog.String("directory", dir),
		slog.Int("count", len(files)))
	return files, nil
}
