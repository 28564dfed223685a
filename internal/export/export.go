package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AlfredBerg/rod-skills/internal/skills"
	"github.com/AlfredBerg/rod-skills/internal/store"
	"github.com/xuri/excelize/v2"
)

const Sheet = "Skills"

// FileName builds the workbook name for an aggregation labelled by its input.
func FileName(label string, now time.Time) string {
	return now.Format(store.TimestampLayout) + "_" + store.SanitizeName(label) + ".xlsx"
}

// Write saves the table as a workbook: the job count in A1, a header row and
// one row per skill. Percentages are stored as fractions with a percent format.
func Write(path string, table skills.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", Sheet); err != nil {
		return err
	}

	text, err := f.NewStyle(&excelize.Style{NumFmt: 49})
	if err != nil {
		return err
	}
	integer, err := f.NewStyle(&excelize.Style{NumFmt: 1})
	if err != nil {
		return err
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 9})
	if err != nil {
		return err
	}
	for col, style := range map[string]int{"A": text, "B": integer, "C": percent} {
		if err := f.SetColStyle(Sheet, col, style); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(Sheet, "A", "A", 40); err != nil {
		return err
	}

	if err := f.SetCellValue(Sheet, "A1", fmt.Sprintf("Number of jobs: %d", table.TotalJobs)); err != nil {
		return err
	}
	if err := f.SetSheetRow(Sheet, "A2", &[]interface{}{"Skill", "Count", "Percentage"}); err != nil {
		return err
	}

	for i, e := range table.Entries {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		row := []interface{}{e.Skill, e.Count, float64(e.Percentage) / 100}
		if err := f.SetSheetRow(Sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
