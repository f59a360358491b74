package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations: data inputs
// under data/input, generated reports under data/reports, logs under
// logs/.
type Paths struct {
	BaseDir    string
	DataDir    string
	InputDir   string
	ReportsDir string
	LogsDir    string
}

// NewPaths resolves the directory layout under the given base
// directory. An empty base falls back to the current working
// directory.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	dataDir := cfg.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(base, dataDir)
	}
	logsDir := cfg.LogsDir
	if !filepath.IsAbs(logsDir) {
		logsDir = filepath.Join(base, logsDir)
	}

	return &Paths{
		BaseDir:    base,
		DataDir:    dataDir,
		InputDir:   filepath.Join(dataDir, "input"),
		ReportsDir: filepath.Join(dataDir, "reports"),
		LogsDir:    logsDir,
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.InputDir,
		p.ReportsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetInputPath returns the full path for an input file
func (p *Paths) GetInputPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.InputDir, filename)
}

// GetReportPath returns the full path for a generated report
func (p *Paths) GetReportPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filepath.Base(filename))
}
