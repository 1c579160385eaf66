package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// PipelineConfig is the tunable configuration of one pipeline deployment,
// loaded from YAML with ${ENV_VAR} expansion in string values.
type PipelineConfig struct {
	Summarizer string           `yaml:"summarizer"` // "openai" or "gemini"
	Labeler    string           `yaml:"labeler"`    // "alternating" or "centroid"
	Segmenter  SegmenterConfig  `yaml:"segmenter,omitempty"`
	Transcribe TranscribeConfig `yaml:"transcribe,omitempty"`
	Run        RunConfig        `yaml:"run,omitempty"`
	Storage    StorageConfig    `yaml:"storage,omitempty"`
	Cache      CacheConfig      `yaml:"cache,omitempty"`
}

// SegmenterConfig tunes silence detection and the fixed-width fallback.
type SegmenterConfig struct {
	TargetSegmentMS int64   `yaml:"target_segment_ms,omitempty"`
	MaxSegmentMS    int64   `yaml:"max_segment_ms,omitempty"`
	MinSilenceMS    int64   `yaml:"min_silence_ms,omitempty"`
	SilenceRatio    float64 `yaml:"silence_ratio,omitempty"`
	SpeakerGapMS    int64   `yaml:"speaker_gap_ms,omitempty"`
}

// TranscribeConfig tunes per-segment recognition calls.
type TranscribeConfig struct {
	TimeoutSec int `yaml:"timeout_sec,omitempty"`
	Workers    int `yaml:"workers,omitempty"`
}

// RunConfig bounds a whole invocation.
type RunConfig struct {
	DeadlineSec    int `yaml:"deadline_sec,omitempty"`
	SummaryRetries int `yaml:"summary_retries,omitempty"`
}

// StorageConfig points at the optional MinIO bucket for uploaded audio.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	UseSSL    bool   `yaml:"use_ssl,omitempty"`
}

// CacheConfig points at the optional Redis result cache.
type CacheConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	TTLHours int    `yaml:"ttl_hours,omitempty"`
}

// LoadPipelineConfig loads the pipeline configuration from a YAML file.
// A missing file yields defaults; a broken file is an error.
func LoadPipelineConfig(configPath string, logger *zap.Logger) (*PipelineConfig, error) {
	configPath = os.ExpandEnv(configPath)

	config := &PipelineConfig{}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Info("no pipeline config file, using defaults", zap.String("path", configPath))
		config.setDefaults()
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.expandEnvironmentVariables()
	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("loaded pipeline config",
		zap.String("path", configPath),
		zap.String("summarizer", config.Summarizer),
		zap.String("labeler", config.Labeler))
	return config, nil
}

func expandEnv(value string) string {
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		return os.Getenv(strings.TrimSuffix(strings.TrimPrefix(value, "${"), "}"))
	}
	return value
}

func (c *PipelineConfig) expandEnvironmentVariables() {
	c.Storage.Endpoint = expandEnv(c.Storage.Endpoint)
	c.Storage.AccessKey = expandEnv(c.Storage.AccessKey)
	c.Storage.SecretKey = expandEnv(c.Storage.SecretKey)
	c.Cache.Addr = expandEnv(c.Cache.Addr)
	c.Cache.Password = expandEnv(c.Cache.Password)
}

func (c *PipelineConfig) setDefaults() {
	if c.Summarizer == "" {
		if os.Getenv("GEMINI_API_KEY") != "" {
			c.Summarizer = "gemini"
		} else {
			c.Summarizer = "openai"
		}
	}
	if c.Labeler == "" {
		c.Labeler = "alternating"
	}
	if c.Transcribe.TimeoutSec == 0 {
		c.Transcribe.TimeoutSec = 60
	}
	if c.Transcribe.Workers == 0 {
		c.Transcribe.Workers = 4
	}
	if c.Run.DeadlineSec == 0 {
		c.Run.DeadlineSec = 600
	}
	if c.Run.SummaryRetries == 0 {
		c.Run.SummaryRetries = 2
	}
}

// Validate rejects values the pipeline cannot run with.
func (c *PipelineConfig) Validate() error {
	switch c.Summarizer {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown summarizer %q", c.Summarizer)
	}
	switch c.Labeler {
	case "alternating", "centroid":
	default:
		return fmt.Errorf("unknown labeler %q", c.Labeler)
	}
	if c.Transcribe.Workers < 1 {
		return fmt.Errorf("transcribe.workers must be at least 1")
	}
	return nil
}
