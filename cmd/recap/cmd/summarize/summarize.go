package summarize

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voice-recap/internal/app"
	appconfig "voice-recap/internal/app/config"
	"voice-recap/internal/app/model"
	"voice-recap/internal/app/pipeline"
	"voice-recap/internal/app/progress"
)

var audioFile string
var configPath string

func init() {
	Cmd.Flags().StringVarP(&audioFile, "file", "f", "",
		"Path to the audio file to process (wav, mp3, m4a, ogg, flac)")
	Cmd.Flags().StringVarP(&configPath, "config", "c", "configs/pipeline.yaml",
		"Path to the pipeline config file, defaults apply when missing")

	Cmd.MarkFlagRequired("file")
}

// Cmd represents the summarize command
var Cmd = &cobra.Command{
	Use:   "summarize",
	Short: "Generate a transcript, summary and title suggestions for one audio file",
	Long: `Generate a transcript, summary and title suggestions for one audio file

- The audio is cut at silence boundaries and segments are transcribed concurrently
- Speakers are labeled heuristically from pause gaps or segment energy
- The finished recap is saved to the local database and printed to stdout`,
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := zap.NewProduction()
		if err != nil {
			log.Fatalf("Failed to create logger: %v\n", err)
		}
		defer logger.Sync()

		cfg, err := appconfig.LoadPipelineConfig(configPath, logger)
		if err != nil {
			log.Fatalf("Failed to load pipeline config: %v\n", err)
		}

		raw, err := os.ReadFile(audioFile)
		if err != nil {
			log.Fatalf("Failed to read audio file: %v\n", err)
		}

		orchestrator := app.InitializeOrchestrator(cfg)
		dao := app.InitializeRecapDAO()
		defer dao.Close()

		manager := progress.NewManager(progress.Config{
			Enabled: progress.IsTTY(os.Stderr),
			Writer:  os.Stderr,
		})
		var bar *progress.Bar
		orchestrator.SetObserver(func(stage pipeline.Stage, done, total int) {
			if stage != pipeline.StageTranscribing {
				return
			}
			if bar == nil {
				bar = manager.CreateBar(total, "transcribing")
			}
			bar.SetCurrent(int64(done))
		})

		result, err := orchestrator.GenerateSummary(context.Background(), raw, filepath.Ext(audioFile))
		if bar != nil {
			bar.Complete()
		}
		manager.Wait()
		if err != nil {
			log.Fatalf("Recap failed: %v\n", err)
		}

		recap := &model.Recap{
			FileName:   filepath.Base(audioFile),
			Transcript: result.Transcript.Text(),
			Summary:    result.Summary.Summary,
			Titles:     result.Summary.Titles,
			CreatedAt:  result.CreatedAt,
		}
		if _, err := dao.Save(recap); err != nil {
			logger.Warn("failed to save recap", zap.Error(err))
		}

		fmt.Println("Transcript:")
		fmt.Println(result.Transcript.Text())
		fmt.Println()
		fmt.Println("Summary:")
		fmt.Println(result.Summary.Summary)
		fmt.Println()
		fmt.Println("Suggested titles:")
		for i, title := range result.Summary.Titles {
			fmt.Printf("%d. %s\n", i+1, strings.TrimSpace(title))
		}
	},
}
