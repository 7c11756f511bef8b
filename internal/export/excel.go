// Package export writes search results as XLSX workbooks or JSON documents.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gcbaptista/go-meddra-lookup/model"
)

// Sheet names of the generated workbook.
const (
	ResultsSheet   = "검색결과"
	HierarchySheet = "계층"
)

// ResultsHeader is the header row of the results sheet.
var ResultsHeader = []string{
	"LLT 코드", "LLT 이름", "PT 코드", "PT 이름", "활성", "점수",
	"SOC 코드", "SOC 이름", "SOC 약어", "HLGT 이름", "HLT 이름", "Primary SOC", "AI 설명",
}

// HierarchyHeader is the header row of the hierarchy sheet.
var HierarchyHeader = []string{
	"LLT 코드", "PT 코드", "Primary", "HLT 코드", "HLT 이름", "HLGT 코드", "HLGT 이름", "SOC 코드", "SOC 이름",
}

var resultsColumnWidths = []float64{12, 28, 12, 28, 6, 8, 12, 28, 10, 28, 28, 12, 40}

// XLSX renders results as a workbook with one row per result on the results
// sheet and one row per classification path on the hierarchy sheet.
func XLSX(results []model.SearchResult) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(HierarchySheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, ResultsSheet, ResultsHeader, headerStyle); err != nil {
		return nil, err
	}
	if err := writeHeader(f, HierarchySheet, HierarchyHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, width := range resultsColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(ResultsSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	hierarchyRow := 2
	for i, r := range results {
		row := []interface{}{
			r.LLTCode, r.LLTName, r.PTCode, r.PTName, r.Active, r.Score,
			r.SOCCode, r.SOCName, r.SOCAbbrev, r.HLGTName, r.HLTName, r.PrimarySOC, r.AIReason,
		}
		if err := writeRow(f, ResultsSheet, i+2, row); err != nil {
			return nil, err
		}
		for _, h := range r.Hierarchies {
			path := []interface{}{
				r.LLTCode, r.PTCode, h.Primary, h.HLTCode, h.HLTName, h.HLGTCode, h.HLGTName, h.SOCCode, h.SOCName,
			}
			if err := writeRow(f, HierarchySheet, hierarchyRow, path); err != nil {
				return nil, err
			}
			hierarchyRow++
		}
	}

	if err := f.SetPanes(ResultsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := writeRow(f, sheet, 1, row); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
