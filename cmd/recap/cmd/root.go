package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"voice-recap/cmd/recap/cmd/export"
	"voice-recap/cmd/recap/cmd/serve"
	"voice-recap/cmd/recap/cmd/summarize"
	"voice-recap/cmd/recap/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recap",
	Short: "Turn audio recordings into speaker-attributed transcripts with summaries and title suggestions",
	Long: `Turn audio recordings into speaker-attributed transcripts with summaries and title suggestions.
- Point recap at a local audio file to process it end to end
- Segments are transcribed concurrently and reassembled in order
- The finished recap is saved to sqlite and printed to stdout.`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(summarize.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
