package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/pkg/logger"
)

// Writer persists a report to the results directory in all output formats.
type Writer struct {
	dir string
	log *logger.Logger
}

// NewWriter creates a result writer rooted at dir.
func NewWriter(dir string, log *logger.Logger) *Writer {
	return &Writer{dir: dir, log: log}
}

// SavedFiles lists the paths one Save call produced.
type SavedFiles struct {
	JSON    string
	Md      string
	Summary string
	Latest  string
}

// Save writes strategy_YYYYMMDD.{json,md}, summary_YYYYMMDD.txt and
// refreshes latest.md.
func (w *Writer) Save(r *contracts.StrategyReport) (*SavedFiles, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results dir: %w", err)
	}

	dateStr := strings.ReplaceAll(r.Meta.TradeDate, "-", "")
	files := &SavedFiles{
		JSON:    filepath.Join(w.dir, fmt.Sprintf("strategy_%s.json", dateStr)),
		Md:      filepath.Join(w.dir, fmt.Sprintf("strategy_%s.md", dateStr)),
		Summary: filepath.Join(w.dir, fmt.Sprintf("summary_%s.txt", dateStr)),
		Latest:  filepath.Join(w.dir, "latest.md"),
	}

	jsonBytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(files.JSON, jsonBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write json report: %w", err)
	}

	if err := os.WriteFile(files.Md, []byte(RenderMarkdown(r)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write markdown report: %w", err)
	}

	if err := os.WriteFile(files.Summary, []byte(RenderSummaryText(r)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}

	if err := os.WriteFile(files.Latest, []byte(RenderLatestPointer(r)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to update latest pointer: %w", err)
	}

	w.log.WithField("dir", w.dir).Info("report files saved")
	return files, nil
}

// Load reads a previously saved JSON report for a trade date, used by the
// report API.
func (w *Writer) Load(tradeDate string) (*contracts.StrategyReport, error) {
	dateStr := strings.ReplaceAll(tradeDate, "-", "")
	path := filepath.Join(w.dir, fmt.Sprintf("strategy_%s.json", dateStr))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r contracts.StrategyReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &r, nil
}

// LatestDate scans the results directory for the newest report date,
// returned as YYYY-MM-DD. Empty string when none exist.
func (w *Writer) LatestDate() (string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	latest := ""
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "strategy_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		dateStr := strings.TrimSuffix(strings.TrimPrefix(name, "strategy_"), ".json")
		if len(dateStr) != 8 {
			continue
		}
		if dateStr > latest {
			latest = dateStr
		}
	}
	if latest == "" {
		return "", nil
	}
	return fmt.Sprintf("%s-%s-%s", latest[:4], latest[4:6], latest[6:8]), nil
}
