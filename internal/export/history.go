// Package export renders quiz history for download.
package export

import (
	"fmt"
	"strings"
	"time"

	"gyani-service/internal/domain"

	"github.com/xuri/excelize/v2"
)

// HistorySheet is the sheet name of the quiz history workbook.
const HistorySheet = "Quiz History"

// ContentTypeXLSX is the MIME type of the workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var historyHeaders = []string{
	"Date", "Category", "Difficulty", "Score", "Correct", "Total", "Percentage", "Time (s)", "Grade", "Achievements",
}

// HistoryWorkbook writes entries, oldest first, into a single-sheet XLSX file.
func HistoryWorkbook(entries []domain.HistoryEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(HistorySheet)
	if err != nil {
		return nil, fmt.Errorf("create history sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for i, header := range historyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(HistorySheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header %s: %w", cell, err)
		}
	}

	for r, e := range entries {
		row := []interface{}{
			e.Timestamp.UTC().Format(time.RFC3339),
			orAll(e.Category),
			orAll(e.Difficulty),
			e.Score,
			e.CorrectAnswers,
			e.TotalQuestions,
			fmt.Sprintf("%.0f%%", e.Percentage()),
			e.TimeSpent,
			e.Grade,
			strings.Join(e.Achievements, ", "),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(HistorySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func orAll(v string) string {
	if v == "" {
		return "all"
	}
	return v
}
