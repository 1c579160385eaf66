//go:build wireinject
// +build wireinject

package app

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/wire"

	"voice-recap/internal/app/api"
	"voice-recap/internal/app/api/openai"
	"voice-recap/internal/app/api/openai/whisper"
	appconfig "voice-recap/internal/app/config"
	"voice-recap/internal/app/pipeline"
	"voice-recap/internal/app/repository"
	"voice-recap/internal/app/repository/pg"
	"voice-recap/internal/app/repository/sqlite"
	"voice-recap/internal/app/segmenter"
	"voice-recap/internal/app/summarize"
	"voice-recap/internal/app/transcript"
	"voice-recap/internal/config"
	sdkopenai "github.com/sashabaranov/go-openai"

	"voice-recap/internal/app/audio"
)

func provideLoader() audio.Loader {
	return audio.NewFFmpegLoader()
}

func provideLabeler(cfg *appconfig.PipelineConfig) segmenter.Labeler {
	if cfg.Labeler == "centroid" {
		return segmenter.NewCentroidLabeler()
	}
	return segmenter.NewAlternatingLabeler(cfg.Segmenter.SpeakerGapMS)
}

func provideSegmenter(cfg *appconfig.PipelineConfig, labeler segmenter.Labeler) pipeline.Segmenter {
	return segmenter.New(segmenter.Config{
		TargetSegmentMS: cfg.Segmenter.TargetSegmentMS,
		MaxSegmentMS:    cfg.Segmenter.MaxSegmentMS,
		MinSilenceMS:    cfg.Segmenter.MinSilenceMS,
		SilenceRatio:    cfg.Segmenter.SilenceRatio,
	}, labeler)
}

// provideTranscriber uses openai's remote recognition service, must set
// environment variable OPENAI_API_KEY
func provideTranscriber() api.Transcriber {
	return whisper.NewRemoteTranscriber(openai.GetClient())
}

func provideSegmentTranscriber(cfg *appconfig.PipelineConfig, t api.Transcriber) pipeline.SegmentTranscriber {
	return api.NewSegmentTranscriber(t, time.Duration(cfg.Transcribe.TimeoutSec)*time.Second)
}

func provideSummarizer(cfg *appconfig.PipelineConfig) summarize.Summarizer {
	if cfg.Summarizer == "gemini" {
		s, err := summarize.NewGeminiSummarizer(context.Background(), os.Getenv("GEMINI_API_KEY"))
		if err != nil {
			log.Fatalf("Failed to create gemini summarizer: %v\n", err)
		}
		return s
	}
	return summarize.NewOpenAISummarizer(sdkopenai.NewClient(os.Getenv("OPENAI_API_KEY")))
}

func provideAssembler() pipeline.Assembler {
	return transcript.Assemble
}

func providePipelineRunConfig(cfg *appconfig.PipelineConfig) pipeline.Config {
	return pipeline.Config{
		Workers:        cfg.Transcribe.Workers,
		Deadline:       time.Duration(cfg.Run.DeadlineSec) * time.Second,
		SummaryRetries: uint64(cfg.Run.SummaryRetries),
	}
}

// provideRecapDAO prefers postgres when POSTGRES_DSN is set, sqlite
// otherwise.
func provideRecapDAO() repository.RecapDAO {
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		dao, err := pg.NewPostgresDB(dsn)
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %v\n", err)
		}
		return dao
	}

	projectRoot, err := config.GetProjectRoot()
	if err != nil {
		log.Fatalf("Failed to get project root: %v\n", err)
	}

	dataDir := filepath.Join(projectRoot, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data dir: %v\n", err)
	}
	return sqlite.NewSQLiteDB(filepath.Join(dataDir, "recaps.db"))
}

// InitializeOrchestrator builds the full pipeline for one deployment.
func InitializeOrchestrator(cfg *appconfig.PipelineConfig) *pipeline.Orchestrator {
	wire.Build(
		pipeline.NewOrchestrator,
		provideLoader,
		provideLabeler,
		provideSegmenter,
		provideTranscriber,
		provideSegmentTranscriber,
		provideSummarizer,
		provideAssembler,
		providePipelineRunConfig,
	)
	return &pipeline.Orchestrator{}
}

// InitializeRecapDAO builds the persistence layer.
func InitializeRecapDAO() repository.RecapDAO {
	wire.Build(provideRecapDAO)
	return nil
}
