package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/projection"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ParseFormat accepts "csv" or "json"; empty input means CSV.
func ParseFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", s)
	}
}

// ContentType is the MIME type served for f.
func (f ExportFormat) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// Schedule is a day-by-day projected balance.
type Schedule struct {
	Principal   decimal.Decimal
	Mode        projection.Mode
	Days        int
	Points      []projection.Point
	GeneratedAt time.Time
}

// ExportSummary condenses a schedule into its end state.
type ExportSummary struct {
	Principal    string `json:"principal"`
	FinalBalance string `json:"final_balance"`
	NetProfit    string `json:"net_profit"`
	ROI          string `json:"roi"`
}

func (s Schedule) Summary() ExportSummary {
	final := s.Principal
	if len(s.Points) > 0 {
		final = s.Points[len(s.Points)-1].Balance
	}
	profit := final.Sub(s.Principal)
	roi := decimal.Zero
	if s.Principal.IsPositive() {
		roi = profit.Div(s.Principal).Mul(decimal.NewFromInt(100))
	}
	return ExportSummary{
		Principal:    s.Principal.StringFixed(2),
		FinalBalance: final.StringFixed(2),
		NetProfit:    profit.StringFixed(2),
		ROI:          roi.StringFixed(2),
	}
}

// Filename is e.g. "rogue-runner_compound_90d_20240301_090000.csv".
func (s Schedule) Filename(format ExportFormat) string {
	return fmt.Sprintf("rogue-runner_%s_%dd_%s.%s",
		s.Mode, s.Days, s.GeneratedAt.Format("20060102_150405"), format)
}

var csvHeaders = []string{"day", "balance", "profit"}

// ScheduleExporter writes projected schedules as CSV or JSON.
type ScheduleExporter struct {
	logger *zap.Logger
}

func NewScheduleExporter(logger *zap.Logger) *ScheduleExporter {
	return &ScheduleExporter{logger: logger}
}

// Write encodes s to w.
func (se *ScheduleExporter) Write(w io.Writer, s Schedule, format ExportFormat) error {
	if len(s.Points) == 0 {
		return fmt.Errorf("schedule has no points")
	}
	switch format {
	case FormatCSV:
		return writeCSV(w, s)
	case FormatJSON:
		return writeJSON(w, s)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteFile exports s into dir and returns the file path.
func (se *ScheduleExporter) WriteFile(dir string, s Schedule, format ExportFormat) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, s.Filename(format))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := se.Write(file, s, format); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}

	se.logger.Info("Schedule exported",
		zap.String("file", path),
		zap.Int("days", s.Days),
		zap.String("format", string(format)))
	return path, nil
}

func writeCSV(w io.Writer, s Schedule) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeaders); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, p := range s.Points {
		row := []string{strconv.Itoa(p.Day), p.Balance.StringFixed(2), p.Profit.StringFixed(2)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write day %d: %w", p.Day, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

type pointRecord struct {
	Day     int    `json:"day"`
	Balance string `json:"balance"`
	Profit  string `json:"profit"`
}

func writeJSON(w io.Writer, s Schedule) error {
	points := make([]pointRecord, len(s.Points))
	for i, p := range s.Points {
		points[i] = pointRecord{Day: p.Day, Balance: p.Balance.StringFixed(2), Profit: p.Profit.StringFixed(2)}
	}

	data := struct {
		ExportTime time.Time     `json:"export_time"`
		Mode       string        `json:"mode"`
		Days       int           `json:"days"`
		Summary    ExportSummary `json:"summary"`
		Points     []pointRecord `json:"points"`
	}{
		ExportTime: s.GeneratedAt,
		Mode:       s.Mode.String(),
		Days:       s.Days,
		Summary:    s.Summary(),
		Points:     points,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
