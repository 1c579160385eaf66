package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	"voice-recap/internal/app/model"
)

// ToExcel writes stored recaps to an xlsx workbook.
func ToExcel(recaps []model.Recap, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Recaps")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "File Name"
	headerRow.AddCell().Value = "Audio Duration (s)"
	headerRow.AddCell().Value = "Created At"
	headerRow.AddCell().Value = "Summary"
	headerRow.AddCell().Value = "Titles"
	headerRow.AddCell().Value = "Transcript"
	headerRow.AddCell().Value = "Error Message"

	for _, r := range recaps {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(r.ID)
		row.AddCell().Value = r.FileName
		row.AddCell().Value = fmt.Sprint(r.AudioDuration)
		row.AddCell().Value = r.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = r.Summary
		row.AddCell().Value = strings.Join(r.Titles, " | ")
		row.AddCell().Value = r.Transcript
		row.AddCell().Value = r.ErrorMessage
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
