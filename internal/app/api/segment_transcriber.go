package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"voice-recap/internal/app/audio"
	apperrors "voice-recap/internal/app/errors"
	"voice-recap/internal/app/model"
)

// DefaultSegmentTimeout bounds a single recognition call.
const DefaultSegmentTimeout = 60 * time.Second

// SegmentTranscriber turns one Segment into a SegmentTranscript. Failures
// are captured in the result status and never abort the pipeline; retry
// policy lives in the orchestrator, not here.
type SegmentTranscriber struct {
	transcriber Transcriber
	timeout     time.Duration
}

// NewSegmentTranscriber creates a per-segment adapter around a Transcriber.
func NewSegmentTranscriber(t Transcriber, timeout time.Duration) *SegmentTranscriber {
	if timeout <= 0 {
		timeout = DefaultSegmentTimeout
	}
	return &SegmentTranscriber{transcriber: t, timeout: timeout}
}

// TranscribeSegment cuts the segment's samples out of the asset and sends
// them to the recognition service under a per-call timeout.
func (s *SegmentTranscriber) TranscribeSegment(ctx context.Context, asset *audio.Asset, seg model.Segment) model.SegmentTranscript {
	clip := Clip{
		Name: fmt.Sprintf("segment-%d.wav", seg.Index),
		WAV:  asset.Clip(seg.StartMS, seg.EndMS),
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.transcriber.Transcribe(callCtx, clip)
	if err != nil {
		return model.SegmentTranscript{
			Segment: seg,
			Status:  model.StatusFailed,
			Reason:  classifyReason(err),
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return model.SegmentTranscript{
			Segment: seg,
			Status:  model.StatusFailed,
			Reason:  "no speech detected",
		}
	}

	return model.SegmentTranscript{
		Segment: seg,
		Text:    text,
		Status:  model.StatusOk,
	}
}

func classifyReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, apperrors.ErrTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, apperrors.ErrRateLimited):
		return "rate limited"
	case errors.Is(err, apperrors.ErrNoSpeech):
		return "no speech detected"
	default:
		return err.Error()
	}
}
