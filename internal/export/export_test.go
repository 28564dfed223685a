package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/AlfredBerg/rod-skills/internal/skills"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 7, 9, 5, 1, 0, time.UTC)
	assert.Equal(t, "07-03-24_09-05-01_golang.xlsx", FileName("golang", now))
	assert.Equal(t, "07-03-24_09-05-01_data-science.xlsx", FileName("data science", now))
	assert.Equal(t, "07-03-24_09-05-01_all-files.xlsx", FileName("all-files", now))
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exported", "out.xlsx")
	table, err := skills.Aggregate([]skills.SkillList{
		{"Python", "Python", "SQL"},
		{"Python"},
	}, nil)
	require.NoError(t, err)

	require.NoError(t, Write(path, table))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	cell := func(axis string) string {
		v, err := f.GetCellValue(Sheet, axis, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Number of jobs: 2", cell("A1"))
	assert.Equal(t, "Skill", cell("A2"))
	assert.Equal(t, "Count", cell("B2"))
	assert.Equal(t, "Percentage", cell("C2"))

	assert.Equal(t, "Python", cell("A3"))
	assert.Equal(t, "3", cell("B3"))
	assert.Equal(t, "1.5", cell("C3"))

	assert.Equal(t, "SQL", cell("A4"))
	assert.Equal(t, "1", cell("B4"))
	assert.Equal(t, "0.5", cell("C4"))

	assert.Equal(t, "", cell("A5"))
}
