package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ftrs/dos-migration/internal/migration/processor"
)

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.xlsx")
	snap := processor.Snapshot{TotalRecords: 3, SupportedRecords: 2, UnsupportedRecords: 1, MigratedRecords: 1, InvalidRecords: 1}
	outcomes := []processor.Outcome{
		{RecordID: 1, Transformer: "GPPracticeTransformer", State: processor.StateMigrated, Duration: 12 * time.Millisecond},
		{RecordID: 2, Transformer: "GPPracticeTransformer", State: processor.StateInvalid, Reason: "Record failed validation", Issues: []string{"a", "b"}},
		{RecordID: 3, State: processor.StateUnsupported, Reason: "No suitable transformer found"},
	}

	run := Run{ID: "run-1", Env: "dev", GeneratedAt: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)}
	if err := WriteWorkbook(path, run, snap, outcomes); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != SummarySheet || sheets[1] != OutcomesSheet {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	tests := []struct {
		sheet, cell, want string
	}{
		{SummarySheet, "B3", "run-1"},
		{SummarySheet, "A8", "Total records"},
		{SummarySheet, "B8", "3"},
		{SummarySheet, "B12", "1"},
		{OutcomesSheet, "A1", "Record ID"},
		{OutcomesSheet, "C3", "invalid"},
		{OutcomesSheet, "E3", "a\nb"},
		{OutcomesSheet, "F2", "12"},
		{OutcomesSheet, "D4", "No suitable transformer found"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue(tt.sheet, tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue %s!%s: %v", tt.sheet, tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("%s!%s = %q, want %q", tt.sheet, tt.cell, got, tt.want)
		}
	}

	rows, _ := f.GetRows(OutcomesSheet)
	if len(rows) != 4 {
		t.Errorf("expected header plus 3 rows, got %d", len(rows))
	}
}

func TestBuild_NoOutcomes(t *testing.T) {
	data, err := Build(Run{ID: "empty"}, processor.Snapshot{}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected a workbook")
	}
}
