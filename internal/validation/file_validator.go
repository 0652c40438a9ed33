package validation

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// zipMagic opens every .xlsx file, which is a zip container
var zipMagic = []byte("PK\x03\x04")

// FileValidator checks the files and directories the processor reads and writes
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
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

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist", slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file", slog.String("path", path))
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
	return nil
}

// ValidateWorkbook checks that path is a readable .xlsx file that is not an
// Office lock file and starts like a zip container
func (v *FileValidator) ValidateWorkbook(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	base := filepath.Base(path)
	if ext := strings.ToLower(filepath.Ext(base)); ext != ".xlsx" {
		v.logger.Error("File is not an xlsx workbook",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not an xlsx workbook (extension: %s)", base, ext)
	}
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Skipping Office lock file", slog.String("file", path))
		return fmt.Errorf("file %s is an Office lock file", base)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", base, err)
	}
	defer f.Close()

	head := make([]byte, len(zipMagic))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, zipMagic) {
		v.logger.Error("File is not a zip container", slog.String("file", path))
		return fmt.Errorf("file %s is not a valid xlsx workbook", base)
	}
	return nil
}

// ValidateWorkbooks validates every path and returns the first failure
func (v *FileValidator) ValidateWorkbooks(paths []string) error {
	for _, p := range paths {
		if err := v.ValidateWorkbook(p); err != nil {
			return err
		}
	}
	v.logger.Info("Input workbooks validated", slog.Int("count", len(paths)))
	return nil
}

// ValidateOutputFile checks that path carries the extension of format and
// that its directory is writable
func (v *FileValidator) ValidateOutputFile(path, format string) error {
	want := "." + strings.ToLower(format)
	if ext := strings.ToLower(filepath.Ext(path)); ext != want {
		return fmt.Errorf("output %s must end in %s", filepath.Base(path), want)
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}
