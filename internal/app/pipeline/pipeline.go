package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"voice-recap/internal/app/audio"
	apperrors "voice-recap/internal/app/errors"
	"voice-recap/internal/app/model"
	"voice-recap/internal/app/summarize"
)

// Stage names the orchestrator's state machine states. A failure is
// recorded against the stage whose work failed.
type Stage string

const (
	StageReceived     Stage = "received"
	StageLoaded       Stage = "loaded"
	StageSegmented    Stage = "segmented"
	StageTranscribing Stage = "transcribing"
	StageAssembled    Stage = "assembled"
	StageSummarizing  Stage = "summarizing"
	StageComplete     Stage = "complete"
)

// Kind classifies a pipeline failure for the caller: ingestion kinds mean
// "fix the upload", rate limiting means "retry later", the rest are
// permanent for this input.
type Kind string

const (
	KindEmptyInput         Kind = "empty_input"
	KindUnsupportedFormat  Kind = "unsupported_format"
	KindCorruptAudio       Kind = "corrupt_audio"
	KindSegmentationFailed Kind = "segmentation_failed"
	KindEmptyTranscript    Kind = "empty_transcript"
	KindMalformedResponse  Kind = "malformed_response"
	KindRateLimited        Kind = "rate_limited"
	KindServiceError       Kind = "service_error"
	KindTimeout            Kind = "timeout"
	KindInternal           Kind = "internal"
)

// Error is the single classified failure a pipeline run surfaces. No
// partial result accompanies it.
type Error struct {
	Stage   Stage  `json:"stage"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline failed at %s (%s): %s", e.Stage, e.Kind, e.Message)
}

// AsError extracts a pipeline *Error from err, if present.
func AsError(err error) (*Error, bool) {
	var pe *Error
	ok := errors.As(err, &pe)
	return pe, ok
}

// Segmenter splits a loaded asset into labeled segments.
type Segmenter interface {
	Segment(asset *audio.Asset) ([]model.Segment, error)
}

// SegmentTranscriber transcribes one segment, capturing failure in the
// result status.
type SegmentTranscriber interface {
	TranscribeSegment(ctx context.Context, asset *audio.Asset, seg model.Segment) model.SegmentTranscript
}

// Assembler merges ordered segment results into one transcript.
type Assembler func(results []model.SegmentTranscript) (model.Transcript, error)

// Observer is notified as segment transcription progresses.
type Observer func(stage Stage, done, total int)

// Config tunes the orchestrator.
type Config struct {
	// Workers bounds concurrent segment transcription calls.
	Workers int
	// Deadline is the wall clock budget for a whole invocation.
	Deadline time.Duration
	// SummaryRetries bounds retries of the summarization call.
	SummaryRetries uint64
	// SummaryBackoff is the initial backoff interval between retries.
	SummaryBackoff time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Deadline <= 0 {
		c.Deadline = 10 * time.Minute
	}
	if c.SummaryRetries == 0 {
		c.SummaryRetries = 2
	}
	if c.SummaryBackoff <= 0 {
		c.SummaryBackoff = 500 * time.Millisecond
	}
	return c
}

// Orchestrator sequences load -> segment -> transcribe -> assemble ->
// summarize for one uploaded recording. Transitions are sequential; only
// segment transcription fans out to a bounded worker pool.
type Orchestrator struct {
	loader      audio.Loader
	segmenter   Segmenter
	transcriber SegmentTranscriber
	assembler   Assembler
	summarizer  summarize.Summarizer
	cfg         Config
	observer    Observer
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(
	loader audio.Loader,
	seg Segmenter,
	transcriber SegmentTranscriber,
	assembler Assembler,
	summarizer summarize.Summarizer,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		loader:      loader,
		segmenter:   seg,
		transcriber: transcriber,
		assembler:   assembler,
		summarizer:  summarizer,
		cfg:         cfg.withDefaults(),
	}
}

// SetObserver attaches a progress observer. Not safe to call concurrently
// with GenerateSummary.
func (o *Orchestrator) SetObserver(obs Observer) {
	o.observer = obs
}

// GenerateSummary runs the whole pipeline for one upload. On failure the
// returned error is a *Error carrying stage, kind and message; the result
// is all-or-nothing.
func (o *Orchestrator) GenerateSummary(ctx context.Context, raw []byte, declaredFormat string) (*model.PipelineResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Deadline)
	defer cancel()

	asset, err := o.loader.Load(raw, declaredFormat)
	if err != nil {
		return nil, classify(StageLoaded, err)
	}
	defer asset.Close()

	segments, err := o.segmenter.Segment(asset)
	if err != nil {
		return nil, classify(StageSegmented, err)
	}

	results := o.transcribeAll(ctx, asset, segments)

	transcriptResult, err := o.assembler(results)
	if err != nil {
		return nil, classify(StageAssembled, err)
	}

	summary, err := o.summarizeWithRetry(ctx, transcriptResult)
	if err != nil {
		return nil, classify(StageSummarizing, err)
	}

	return &model.PipelineResult{
		Transcript: transcriptResult,
		Summary:    *summary,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// transcribeAll dispatches segment transcription to a bounded worker pool.
// Results are merged by segment index, so completion order never affects
// transcript order. Cancellation marks unfinished segments failed;
// already-completed segments still count.
func (o *Orchestrator) transcribeAll(ctx context.Context, asset *audio.Asset, segments []model.Segment) []model.SegmentTranscript {
	results := make([]model.SegmentTranscript, len(segments))
	sem := make(chan struct{}, o.cfg.Workers)
	var wg sync.WaitGroup
	var done int64

	o.notify(StageTranscribing, 0, len(segments))

	for i, seg := range segments {
		wg.Add(1)
		go func(i int, seg model.Segment) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = model.SegmentTranscript{
					Segment: seg,
					Status:  model.StatusFailed,
					Reason:  "cancelled",
				}
				return
			}

			results[i] = o.transcriber.TranscribeSegment(ctx, asset, seg)
			o.notify(StageTranscribing, int(atomic.AddInt64(&done, 1)), len(segments))
		}(i, seg)
	}
	wg.Wait()

	return results
}

// summarizeWithRetry retries the summarization call on rate limiting and
// transport failures only. Malformed output cannot be fixed by retrying.
func (o *Orchestrator) summarizeWithRetry(ctx context.Context, t model.Transcript) (*model.SummaryResult, error) {
	var result *model.SummaryResult

	operation := func() error {
		res, err := o.summarizer.Summarize(ctx, t)
		if err != nil {
			if retryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = res
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.cfg.SummaryBackoff
	policy := backoff.WithContext(backoff.WithMaxRetries(b, o.cfg.SummaryRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return result, nil
}

func retryable(err error) bool {
	return errors.Is(err, apperrors.ErrRateLimited) ||
		errors.Is(err, apperrors.ErrTimeout) ||
		apperrors.IsServiceError(err)
}

func (o *Orchestrator) notify(stage Stage, done, total int) {
	if o.observer != nil {
		o.observer(stage, done, total)
	}
}

func classify(stage Stage, err error) *Error {
	kind := KindInternal
	switch {
	case errors.Is(err, apperrors.ErrEmptyInput):
		kind = KindEmptyInput
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		kind = KindUnsupportedFormat
	case errors.Is(err, apperrors.ErrCorruptAudio):
		kind = KindCorruptAudio
	case errors.Is(err, apperrors.ErrSegmentationFailed):
		kind = KindSegmentationFailed
	case errors.Is(err, apperrors.ErrEmptyTranscript):
		kind = KindEmptyTranscript
	case errors.Is(err, apperrors.ErrMalformedResponse):
		kind = KindMalformedResponse
	case errors.Is(err, apperrors.ErrRateLimited):
		kind = KindRateLimited
	case apperrors.IsServiceError(err):
		kind = KindServiceError
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, apperrors.ErrTimeout):
		kind = KindTimeout
	}
	return &Error{Stage: stage, Kind: kind, Message: err.Error()}
}
