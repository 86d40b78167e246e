package reporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"admincheck/toolkit"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"

	failBgColor = "FFC7CE"
	passBgColor = "C6EFCE"
)

var workbookHeaders = []string{
	"#", "Test", "Method", "Path", "Result", "Status",
	"Failure", "Message", "Details", "Latency (ms)",
}

// WriteWorkbook exports the report as an XLSX file with one row per result
// and a summary sheet.
func WriteWorkbook(path string, rep toolkit.CheckReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare output directory for %q: %w", path, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	failStyle, err := fillStyle(f, failBgColor)
	if err != nil {
		return err
	}
	passStyle, err := fillStyle(f, passBgColor)
	if err != nil {
		return err
	}

	for i, h := range workbookHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(resultsSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := f.SetColWidth(resultsSheet, "B", "B", 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(resultsSheet, "H", "I", 48); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	for i, r := range rep.Results {
		row := i + 2
		cells := []any{
			i + 1,
			r.Name,
			r.Method,
			r.Path,
			passLabel(r.Passed),
			r.Status,
			stringsTrimOrDefault(r.Failure, "-"),
			r.Message,
			r.Details,
			r.LatencyMS,
		}
		for col, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(resultsSheet, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
		style := passStyle
		if !r.Passed {
			style = failStyle
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(cells), row)
		if err := f.SetCellStyle(resultsSheet, first, last, style); err != nil {
			return fmt.Errorf("style row %d: %w", row, err)
		}
	}

	summary := [][2]any{
		{"Run ID", rep.RunID},
		{"Base URL", rep.BaseURL},
		{"Started", rep.StartedAt.Format("2006-01-02 15:04:05")},
		{"Duration (ms)", rep.Duration.Milliseconds()},
		{"Aborted", rep.Aborted},
		{"Total Tests", rep.Summary.Total},
		{"Passed", rep.Summary.Passed},
		{"Failed", rep.Summary.Failed},
		{"Success Rate", fmt.Sprintf("%.1f%%", rep.Summary.SuccessRate)},
	}
	for i, kv := range summary {
		row := i + 1
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), kv[0]); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), kv[1]); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %q: %w", path, err)
	}
	return nil
}

func fillStyle(f *excelize.File, color string) (int, error) {
	id, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
	})
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	return id, nil
}

func passLabel(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

func stringsTrimOrDefault(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
