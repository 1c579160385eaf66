package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"voice-recap/internal/app/audio"
	apperrors "voice-recap/internal/app/errors"
	"voice-recap/internal/app/model"
)

type stubTranscriber struct {
	text     string
	err      error
	lastClip Clip
	block    bool
}

func (s *stubTranscriber) Transcribe(ctx context.Context, clip Clip) (string, error) {
	s.lastClip = clip
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.text, s.err
}

func testAsset(t *testing.T) *audio.Asset {
	t.Helper()
	return &audio.Asset{
		Samples:    make([]int16, audio.DefaultSampleRate*2),
		SampleRate: audio.DefaultSampleRate,
		Channels:   1,
		Duration:   2 * time.Second,
	}
}

func TestTranscribeSegment(t *testing.T) {
	stub := &stubTranscriber{text: "  hello there \n"}
	st := NewSegmentTranscriber(stub, 0)

	seg := model.Segment{Index: 3, StartMS: 0, EndMS: 1000, Speaker: "Speaker 1"}
	result := st.TranscribeSegment(context.Background(), testAsset(t), seg)

	assert.True(t, result.Ok())
	assert.Equal(t, "hello there", result.Text)
	assert.Equal(t, seg, result.Segment)
	assert.Equal(t, "segment-3.wav", stub.lastClip.Name)
	assert.NotEmpty(t, stub.lastClip.WAV)
}

func TestTranscribeSegment_Failures(t *testing.T) {
	tests := []struct {
		name           string
		stub           *stubTranscriber
		expectedReason string
	}{
		{"empty text means no speech", &stubTranscriber{text: "   "}, "no speech detected"},
		{"no speech error", &stubTranscriber{err: apperrors.ErrNoSpeech}, "no speech detected"},
		{"rate limited", &stubTranscriber{err: apperrors.ErrRateLimited}, "rate limited"},
		{"timeout error", &stubTranscriber{err: apperrors.ErrTimeout}, "timeout"},
		{"deadline exceeded", &stubTranscriber{err: context.DeadlineExceeded}, "timeout"},
		{"cancelled", &stubTranscriber{err: context.Canceled}, "cancelled"},
		{"provider failure", &stubTranscriber{err: apperrors.New("connection reset")}, "connection reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewSegmentTranscriber(tt.stub, 0)
			seg := model.Segment{Index: 0, StartMS: 0, EndMS: 500}

			result := st.TranscribeSegment(context.Background(), testAsset(t), seg)

			assert.False(t, result.Ok())
			assert.Empty(t, result.Text)
			assert.Equal(t, tt.expectedReason, result.Reason)
		})
	}
}

func TestTranscribeSegment_PerCallTimeout(t *testing.T) {
	st := NewSegmentTranscriber(&stubTranscriber{block: true}, 10*time.Millisecond)
	seg := model.Segment{Index: 0, StartMS: 0, EndMS: 500}

	result := st.TranscribeSegment(context.Background(), testAsset(t), seg)

	assert.False(t, result.Ok())
	assert.Equal(t, "timeout", result.Reason)
}
