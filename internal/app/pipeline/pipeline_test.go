package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-recap/internal/app/api"
	"voice-recap/internal/app/audio"
	apperrors "voice-recap/internal/app/errors"
	"voice-recap/internal/app/model"
	"voice-recap/internal/app/segmenter"
	"voice-recap/internal/app/testutil"
	"voice-recap/internal/app/transcript"
)

func newTestOrchestrator(t *api.SegmentTranscriber, s *testutil.MockSummarizer) *Orchestrator {
	return NewOrchestrator(
		audio.NewFFmpegLoader(),
		segmenter.New(segmenter.Config{}, nil),
		t,
		transcript.Assemble,
		s,
		Config{SummaryBackoff: time.Millisecond},
	)
}

func TestGenerateSummary_TwoSpeakers(t *testing.T) {
	// 30s recording with a pause long enough to flip the speaker label.
	raw := testutil.WAV(testutil.Concat(
		testutil.Tone(13740, 220, 0.6),
		testutil.Silence(2520),
		testutil.Tone(13740, 220, 0.6),
	))

	mt := testutil.NewMockTranscriber()
	mt.ResponseMap["segment-0.wav"] = "hello"
	mt.ResponseMap["segment-1.wav"] = "world"
	ms := testutil.NewMockSummarizer(testutil.SummarizeStep{Result: testutil.FixedSummary("a chat")})

	o := newTestOrchestrator(api.NewSegmentTranscriber(mt, 0), ms)

	result, err := o.GenerateSummary(context.Background(), raw, "wav")
	require.NoError(t, err)

	assert.Equal(t, "Speaker 1: hello\nSpeaker 2: world", result.Transcript.Text())
	assert.Equal(t, "a chat", result.Summary.Summary)
	assert.Len(t, result.Summary.Titles, model.TitleCount)
	assert.False(t, result.CreatedAt.IsZero())
}

func TestGenerateSummary_SilentAudio(t *testing.T) {
	// A silent recording transcribes to nothing everywhere; the run fails
	// during assembly, before any summarization call.
	raw := testutil.SilentWAV(10000)

	mt := testutil.NewMockTranscriber()
	mt.DefaultResponse = ""
	ms := testutil.NewMockSummarizer(testutil.SummarizeStep{Result: testutil.FixedSummary("unused")})

	o := newTestOrchestrator(api.NewSegmentTranscriber(mt, 0), ms)

	_, err := o.GenerateSummary(context.Background(), raw, "wav")
	require.Error(t, err)

	perr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, StageAssembled, perr.Stage)
	assert.Equal(t, KindEmptyTranscript, perr.Kind)
	assert.Zero(t, ms.CallCount)
}

func TestGenerateSummary_SummarizerRetriesThenSucceeds(t *testing.T) {
	raw := testutil.SpeechWAV(5000)

	mt := testutil.NewMockTranscriber()
	mt.DefaultResponse = "some speech"
	rateLimited := apperrors.WithCause(apperrors.ErrRateLimited, apperrors.New("429"))
	ms := testutil.NewMockSummarizer(
		testutil.SummarizeStep{Err: rateLimited},
		testutil.SummarizeStep{Err: rateLimited},
		testutil.SummarizeStep{Result: testutil.FixedSummary("eventually")},
	)

	o := newTestOrchestrator(api.NewSegmentTranscriber(mt, 0), ms)

	result, err := o.GenerateSummary(context.Background(), raw, "wav")
	require.NoError(t, err)
	assert.Equal(t, "eventually", result.Summary.Summary)
	assert.Equal(t, 3, ms.CallCount)
}

func TestGenerateSummary_SummarizerRetriesExhausted(t *testing.T) {
	raw := testutil.SpeechWAV(5000)

	mt := testutil.NewMockTranscriber()
	mt.DefaultResponse = "some speech"
	rateLimited := apperrors.WithCause(apperrors.ErrRateLimited, apperrors.New("429"))
	ms := testutil.NewMockSummarizer(testutil.SummarizeStep{Err: rateLimited})

	o := newTestOrchestrator(api.NewSegmentTranscriber(mt, 0), ms)

	_, err := o.GenerateSummary(context.Background(), raw, "wav")
	require.Error(t, err)

	perr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, StageSummarizing, perr.Stage)
	assert.Equal(t, KindRateLimited, perr.Kind)
	// Initial attempt plus the configured retries.
	assert.Equal(t, 3, ms.CallCount)
}

func TestGenerateSummary_MalformedResponseNotRetried(t *testing.T) {
	raw := testutil.SpeechWAV(5000)

	mt := testutil.NewMockTranscriber()
	mt.DefaultResponse = "some speech"
	malformed := apperrors.WithCause(apperrors.ErrMalformedResponse, apperrors.New("2 titles"))
	ms := testutil.NewMockSummarizer(testutil.SummarizeStep{Err: malformed})

	o := newTestOrchestrator(api.NewSegmentTranscriber(mt, 0), ms)

	_, err := o.GenerateSummary(context.Background(), raw, "wav")
	require.Error(t, err)

	perr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, StageSummarizing, perr.Stage)
	assert.Equal(t, KindMalformedResponse, perr.Kind)
	assert.Equal(t, 1, ms.CallCount)
}

func TestGenerateSummary_IngestionFailures(t *testing.T) {
	tests := []struct {
		name         string
		raw          []byte
		format       string
		expectedKind Kind
	}{
		{"empty upload", nil, "wav", KindEmptyInput},
		{"unknown format", []byte("not audio at all"), "xyz", KindUnsupportedFormat},
		{"corrupt wav", testutil.SpeechWAV(1000)[:30], "wav", KindCorruptAudio},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := testutil.NewMockSummarizer(testutil.SummarizeStep{Result: testutil.FixedSummary("unused")})
			o := newTestOrchestrator(api.NewSegmentTranscriber(testutil.NewMockTranscriber(), 0), ms)

			_, err := o.GenerateSummary(context.Background(), tt.raw, tt.format)
			require.Error(t, err)

			perr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, StageLoaded, perr.Stage)
			assert.Equal(t, tt.expectedKind, perr.Kind)
		})
	}
}

// fixedSegmenter bypasses silence detection to hand the orchestrator an
// exact segment list.
type fixedSegmenter struct {
	segments []model.Segment
}

func (f *fixedSegmenter) Segment(asset *audio.Asset) ([]model.Segment, error) {
	return f.segments, nil
}

// reverseLatencyTranscriber finishes later segments first, so any ordering
// bug in result merging would surface.
type reverseLatencyTranscriber struct {
	total       int
	inFlight    int64
	maxInFlight int64
}

func (r *reverseLatencyTranscriber) TranscribeSegment(ctx context.Context, asset *audio.Asset, seg model.Segment) model.SegmentTranscript {
	cur := atomic.AddInt64(&r.inFlight, 1)
	for {
		max := atomic.LoadInt64(&r.maxInFlight)
		if cur <= max || atomic.CompareAndSwapInt64(&r.maxInFlight, max, cur) {
			break
		}
	}
	defer atomic.AddInt64(&r.inFlight, -1)

	time.Sleep(time.Duration(r.total-seg.Index) * 2 * time.Millisecond)
	return model.SegmentTranscript{
		Segment: seg,
		Text:    fmt.Sprintf("t%02d", seg.Index),
		Status:  model.StatusOk,
	}
}

func TestGenerateSummary_OrderIndependentOfCompletion(t *testing.T) {
	const n = 12
	segments := make([]model.Segment, n)
	for i := range segments {
		segments[i] = model.Segment{
			Index:   i,
			StartMS: int64(i) * 1000,
			EndMS:   int64(i+1) * 1000,
			Speaker: "Speaker 1",
		}
	}

	tr := &reverseLatencyTranscriber{total: n}
	ms := testutil.NewMockSummarizer(testutil.SummarizeStep{Result: testutil.FixedSummary("ordered")})
	o := NewOrchestrator(
		audio.NewFFmpegLoader(),
		&fixedSegmenter{segments: segments},
		tr,
		transcript.Assemble,
		ms,
		Config{Workers: 4, SummaryBackoff: time.Millisecond},
	)

	result, err := o.GenerateSummary(context.Background(), testutil.SilentWAV(n*1000), "wav")
	require.NoError(t, err)

	require.Len(t, result.Transcript.Lines, n)
	for i, line := range result.Transcript.Lines {
		assert.Equal(t, fmt.Sprintf("t%02d", i), line.Text)
	}
	assert.LessOrEqual(t, tr.maxInFlight, int64(4))
}

// blockingTranscriber parks until its context is done.
type blockingTranscriber struct{}

func (blockingTranscriber) TranscribeSegment(ctx context.Context, asset *audio.Asset, seg model.Segment) model.SegmentTranscript {
	<-ctx.Done()
	return model.SegmentTranscript{Segment: seg, Status: model.StatusFailed, Reason: "cancelled"}
}

func TestGenerateSummary_DeadlineMarksSegmentsFailed(t *testing.T) {
	segments := []model.Segment{
		{Index: 0, StartMS: 0, EndMS: 1000, Speaker: "Speaker 1"},
		{Index: 1, StartMS: 1000, EndMS: 2000, Speaker: "Speaker 1"},
	}
	ms := testutil.NewMockSummarizer(testutil.SummarizeStep{Result: testutil.FixedSummary("unused")})
	o := NewOrchestrator(
		audio.NewFFmpegLoader(),
		&fixedSegmenter{segments: segments},
		blockingTranscriber{},
		transcript.Assemble,
		ms,
		Config{Deadline: 50 * time.Millisecond, SummaryBackoff: time.Millisecond},
	)

	_, err := o.GenerateSummary(context.Background(), testutil.SilentWAV(2000), "wav")
	require.Error(t, err)

	perr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, StageAssembled, perr.Stage)
	assert.Equal(t, KindEmptyTranscript, perr.Kind)
}

func TestGenerateSummary_ObserverSeesProgress(t *testing.T) {
	raw := testutil.SpeechWAV(5000)

	mt := testutil.NewMockTranscriber()
	mt.DefaultResponse = "some speech"
	ms := testutil.NewMockSummarizer(testutil.SummarizeStep{Result: testutil.FixedSummary("done")})
	o := newTestOrchestrator(api.NewSegmentTranscriber(mt, 0), ms)

	var mu sync.Mutex
	var updates []int
	o.SetObserver(func(stage Stage, done, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, StageTranscribing, stage)
		assert.Equal(t, 1, total)
		updates = append(updates, done)
	})

	_, err := o.GenerateSummary(context.Background(), raw, "wav")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1}, updates)
}
