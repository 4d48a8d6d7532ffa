// Package report renders a migration run as an Excel workbook.
package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ftrs/dos-migration/internal/migration/processor"
)

const (
	SummarySheet  = "Summary"
	OutcomesSheet = "Outcomes"
)

var outcomeHeader = []string{"Record ID", "Transformer", "State", "Reason", "Issues", "Duration (ms)"}

// Run identifies the run a workbook describes.
type Run struct {
	ID          string
	Env         string
	Workspace   string
	GeneratedAt time.Time
}

// Build renders the summary counters and one row per record outcome.
func Build(run Run, snap processor.Snapshot, outcomes []processor.Outcome) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(OutcomesSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	summary := [][]interface{}{
		{"Data Migration Run"},
		{},
		{"Run ID", run.ID},
		{"Environment", run.Env},
		{"Workspace", run.Workspace},
		{"Generated", run.GeneratedAt.UTC().Format(time.RFC3339)},
		{},
		{"Total records", snap.TotalRecords},
		{"Supported records", snap.SupportedRecords},
		{"Unsupported records", snap.UnsupportedRecords},
		{"Transformed records", snap.TransformedRecords},
		{"Migrated records", snap.MigratedRecords},
		{"Skipped records", snap.SkippedRecords},
		{"Invalid records", snap.InvalidRecords},
		{"Errors", snap.Errors},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetCellStyle(SummarySheet, "A1", "A1", bold)
	_ = f.SetColWidth(SummarySheet, "A", "A", 24)
	_ = f.SetColWidth(SummarySheet, "B", "B", 40)

	header := make([]interface{}, len(outcomeHeader))
	for i, h := range outcomeHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(OutcomesSheet, "A1", &header); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(OutcomesSheet, "A1", "F1", bold)

	for i, o := range outcomes {
		row := []interface{}{
			o.RecordID,
			o.Transformer,
			string(o.State),
			o.Reason,
			strings.Join(o.Issues, "\n"),
			o.Duration.Milliseconds(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(OutcomesSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if len(outcomes) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(outcomeHeader), len(outcomes)+1)
		if err := f.AutoFilter(OutcomesSheet, "A1:"+last, nil); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(OutcomesSheet, "B", "B", 28)
	_ = f.SetColWidth(OutcomesSheet, "D", "E", 60)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteWorkbook writes the workbook to path.
func WriteWorkbook(path string, run Run, snap processor.Snapshot, outcomes []processor.Outcome) error {
	data, err := Build(run, snap, outcomes)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
