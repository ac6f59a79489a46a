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

	"go.uber.org/zap"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// Row is one labelled query result, e.g. "EOS->USDT" with its rate.
type Row struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CSVHeaders returns the header line of CSV exports.
func CSVHeaders() []string {
	return []string{"label", "value"}
}

// ToCSV converts the row to a CSV record.
func (r Row) ToCSV() []string {
	return []string{r.Label, strconv.FormatFloat(r.Value, 'f', -1, 64)}
}

// ParseFormat maps a file extension or flag value to an ExportFormat.
func ParseFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatCSV, FormatJSON:
		return ExportFormat(s), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// ResultExporter writes query results to files
type ResultExporter struct {
	logger *zap.Logger
}

// NewResultExporter creates a new result exporter
func NewResultExporter(logger *zap.Logger) *ResultExporter {
	return &ResultExporter{
		logger: logger,
	}
}

// ExportFile writes rows to outputPath, creating parent directories as needed.
// The format is taken from the file extension.
func (re *ResultExporter) ExportFile(query string, rows []Row, outputPath string) error {
	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(outputPath), "."))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := re.Write(file, format, query, rows); err != nil {
		return err
	}

	re.logger.Info("Results exported",
		zap.String("file", outputPath),
		zap.String("query", query),
		zap.Int("count", len(rows)),
		zap.String("format", string(format)))
	return nil
}

// Write encodes rows to w in the given format.
func (re *ResultExporter) Write(w io.Writer, format ExportFormat, query string, rows []Row) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatJSON:
		return writeJSON(w, query, rows)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.ToCSV()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeJSON(w io.Writer, query string, rows []Row) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime time.Time `json:"export_time"`
		Query      string    `json:"query"`
		RowCount   int       `json:"row_count"`
		Rows       []Row     `json:"rows"`
	}{
		ExportTime: time.Now(),
		Query:      query,
		RowCount:   len(rows),
		Rows:       rows,
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
