package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"voice-recap/internal/app/model"
)

func TestToExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recaps.xlsx")
	recaps := []model.Recap{
		{
			ID:            1,
			FileName:      "meeting.wav",
			AudioDuration: 90,
			Transcript:    "Speaker 1: hello",
			Summary:       "a summary",
			Titles:        []string{"One", "Two", "Three"},
			CreatedAt:     time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:           2,
			FileName:     "broken.mp3",
			HasError:     1,
			ErrorMessage: "corrupt audio",
			CreatedAt:    time.Date(2025, 8, 2, 12, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, ToExcel(recaps, path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "meeting.wav", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "One | Two | Three", sheet.Rows[1].Cells[5].Value)
	assert.Equal(t, "corrupt audio", sheet.Rows[2].Cells[7].Value)
}

func TestToExcel_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, ToExcel(nil, path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets[0].Rows, 1)
}
