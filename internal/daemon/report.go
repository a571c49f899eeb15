package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"screener/internal/market"
	"screener/pkg/model"
)

// SaveReport writes result as JSON to dir/scan_<date>_<time>.json, named by
// the scan start in Eastern time, and returns the path.
func SaveReport(dir string, result *model.ScanResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	name := fmt.Sprintf("scan_%s.json", result.StartedAt.In(market.Location()).Format("2006-01-02_1504"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// LoadReport reads a report written by SaveReport
func LoadReport(path string) (*model.ScanResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var result model.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &result, nil
}
