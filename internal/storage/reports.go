package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ReportStorage saves run summaries as files
type ReportStorage struct {
	BaseDir string
	now     func() time.Time
}

// NewReportStorage creates a new report storage handler
func NewReportStorage(baseDir string) *ReportStorage {
	return &ReportStorage{BaseDir: baseDir, now: time.Now}
}

// SaveReport writes data for the given run and returns the file path
func (rs *ReportStorage) SaveReport(runID string, data []byte) (string, error) {
	if err := os.MkdirAll(rs.BaseDir, 0775); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	// timestamp keeps listings in run order
	timestamp := rs.now().UTC().Format("20060102_150405")
	filename := fmt.Sprintf("wfcheck_%s_%s.json", timestamp, sanitize(runID))
	filePath := filepath.Join(rs.BaseDir, filename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return filePath, nil
}

// sanitize removes special characters from run ids for filenames
func sanitize(name string) string {
	clean := make([]rune, 0, len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' {
			clean = append(clean, r)
		}
	}
	if len(clean) == 0 {
		return "run"
	}
	return string(clean)
}
