package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/llmwatch/console/internal/core"
	"github.com/llmwatch/console/internal/logview"
)

// Exporter writes filtered message logs out of the console.
type Exporter struct {
	client    core.Client
	chunkSize int
}

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Result summarizes one export run.
type Result struct {
	Format   Format        `json:"format"`
	RowCount int           `json:"row_count"`
	Duration time.Duration `json:"duration"`
	FileName string        `json:"file_name"`
}

// NewExporter creates an exporter reading through the command client.
// chunkSize bounds how many rows are buffered before a flush.
func NewExporter(client core.Client, chunkSize int) *Exporter {
	if chunkSize <= 0 {
		chunkSize = 50
	}
	return &Exporter{client: client, chunkSize: chunkSize}
}

// Export fetches every record matching the query (unpaged) and writes it in
// the requested format.
func (e *Exporter) Export(ctx context.Context, w io.Writer, q core.LogQuery, format Format) (*Result, error) {
	start := time.Now()

	logs, err := e.client.ExportMessageLogs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs: %w", err)
	}

	result := &Result{
		Format:   format,
		RowCount: len(logs),
	}

	switch format {
	case FormatCSV:
		err = writeCSV(w, logs, e.chunkSize)
		result.FileName = fmt.Sprintf("message_logs_%s.csv", time.Now().Format("20060102_150405"))
	case FormatJSON:
		err = writeJSON(w, logs)
		result.FileName = fmt.Sprintf("message_logs_%s.json", time.Now().Format("20060102_150405"))
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

var csvHeaders = []string{
	"id", "timestamp", "backend", "model",
	"input_tokens", "output_tokens", "latency_ms",
	"dlp_action", "request_body", "response_body",
}

func writeCSV(w io.Writer, logs []core.ExportRecord, chunkSize int) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeaders); err != nil {
		return err
	}
	for i, rec := range logs {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.Timestamp,
			rec.Backend,
			rec.Model,
			strconv.FormatInt(rec.InputTokens, 10),
			strconv.FormatInt(rec.OutputTokens, 10),
			strconv.FormatInt(rec.LatencyMS, 10),
			logview.StatusLabel(rec.DLPAction),
			rec.RequestBody,
			rec.ResponseBody,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
		if (i+1)%chunkSize == 0 {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
		}
	}
	return cw.Error()
}

func writeJSON(w io.Writer, logs []core.ExportRecord) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]interface{}{
		"logs":     logs,
		"count":    len(logs),
		"exported": time.Now(),
	})
}
