// Package report renders recommendations as an Excel workbook.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-insight/internal/learning"
)

const (
	SheetStudyPlan = "Study Plan"
	SheetMaterials = "Materials"

	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	planHeader     = []any{"Day", "Focus", "Materials", "Activities"}
	materialHeader = []any{"Title", "Difficulty", "Preview", "Key Concepts"}
)

// WriteRecommendation writes rec to w as an XLSX workbook with a study plan
// sheet and a materials sheet.
func WriteRecommendation(w io.Writer, rec *learning.Recommendation) error {
	if rec == nil {
		return fmt.Errorf("recommendation is nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetStudyPlan); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetMaterials); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := writePlan(f, rec, bold); err != nil {
		return err
	}
	if err := writeMaterials(f, rec, bold); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// writePlan lays out the summary, the search query, a blank row and then
// one row per study day.
func writePlan(f *excelize.File, rec *learning.Recommendation, bold int) error {
	rows := [][]any{
		{"Summary", rec.Summary},
		{"Search Query", rec.SearchQuery},
		{},
		planHeader,
	}
	for _, day := range rec.StudyPlan {
		rows = append(rows, []any{
			day.Day,
			day.Focus,
			strings.Join(day.Materials, "; "),
			strings.Join(day.Activities, "\n"),
		})
	}
	if err := setRows(f, SheetStudyPlan, rows); err != nil {
		return err
	}

	for _, cells := range [][2]string{{"A1", "A2"}, {"A4", "D4"}} {
		if err := f.SetCellStyle(SheetStudyPlan, cells[0], cells[1], bold); err != nil {
			return fmt.Errorf("styling %s: %w", SheetStudyPlan, err)
		}
	}
	if err := f.SetColWidth(SheetStudyPlan, "B", "D", 40); err != nil {
		return fmt.Errorf("sizing %s: %w", SheetStudyPlan, err)
	}
	return nil
}

func writeMaterials(f *excelize.File, rec *learning.Recommendation, bold int) error {
	rows := [][]any{materialHeader}
	for _, m := range rec.Materials {
		rows = append(rows, []any{
			m.Title,
			m.Difficulty,
			m.Preview,
			strings.Join(m.KeyConcepts, ", "),
		})
	}
	if err := setRows(f, SheetMaterials, rows); err != nil {
		return err
	}

	if err := f.SetCellStyle(SheetMaterials, "A1", "D1", bold); err != nil {
		return fmt.Errorf("styling %s: %w", SheetMaterials, err)
	}
	if err := f.SetColWidth(SheetMaterials, "C", "C", 60); err != nil {
		return fmt.Errorf("sizing %s: %w", SheetMaterials, err)
	}
	return nil
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
