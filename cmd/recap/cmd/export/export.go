package export

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"voice-recap/internal/app"
	"voice-recap/internal/app/export"
)

var outputFilePath string
var limit int

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.Flags().IntVarP(&limit, "limit", "l", 1000, "maximum number of recaps to export")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved recaps to excel",
	Long: `Export saved recaps to excel

- Exports the newest recaps first, including summaries and title suggestions`,
	Run: func(cmd *cobra.Command, args []string) {
		dao := app.InitializeRecapDAO()
		defer dao.Close()

		recaps, err := dao.List(limit, 0)
		if err != nil {
			log.Fatal(err)
		}

		if err := export.ToExcel(recaps, outputFilePath); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("export finished, exported file path: %v\n", outputFilePath)
	},
}
