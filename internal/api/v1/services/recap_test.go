package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "voice-recap/internal/api/errors"
	"voice-recap/internal/api/v1/dto"
	"voice-recap/internal/app/api"
	"voice-recap/internal/app/audio"
	"voice-recap/internal/app/model"
	"voice-recap/internal/app/pipeline"
	"voice-recap/internal/app/segmenter"
	"voice-recap/internal/app/testutil"
	"voice-recap/internal/app/transcript"
	"voice-recap/internal/app/utils"
)

type fakeCache struct {
	store map[string]*model.PipelineResult
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]*model.PipelineResult)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (*model.PipelineResult, bool) {
	result, ok := f.store[key]
	return result, ok
}

func (f *fakeCache) Set(ctx context.Context, key string, result *model.PipelineResult) {
	f.sets++
	f.store[key] = result
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, transcriberText string) (*DefaultRecapService, *testutil.MockRecapDAO, *fakeCache) {
	t.Helper()

	mt := testutil.NewMockTranscriber()
	mt.DefaultResponse = transcriberText
	ms := testutil.NewMockSummarizer(testutil.SummarizeStep{Result: testutil.FixedSummary("the summary")})

	orchestrator := pipeline.NewOrchestrator(
		audio.NewFFmpegLoader(),
		segmenter.New(segmenter.Config{}, nil),
		api.NewSegmentTranscriber(mt, 0),
		transcript.Assemble,
		ms,
		pipeline.Config{SummaryBackoff: time.Millisecond},
	)

	dao := testutil.NewMockRecapDAO()
	cache := newFakeCache()
	service := NewRecapService(orchestrator, dao, cache, NewNoopStorageService(), nil, testLogger())
	return service, dao, cache
}

func TestCreateRecap(t *testing.T) {
	service, dao, cache := newTestService(t, "hello everyone")
	upload := &AudioUpload{
		FileName:    "meeting.wav",
		ContentType: "audio/wav",
		Data:        testutil.SpeechWAV(3000),
	}

	resp, err := service.CreateRecap(context.Background(), upload)
	require.NoError(t, err)

	assert.Equal(t, "Speaker 1: hello everyone", resp.Transcript)
	assert.Equal(t, "the summary", resp.Summary)
	assert.Len(t, resp.Titles, model.TitleCount)
	assert.False(t, resp.Cached)

	// Persisted and cached for the next identical upload.
	require.Len(t, dao.Recaps, 1)
	assert.Equal(t, "meeting.wav", dao.Recaps[0].FileName)
	assert.Equal(t, 0, dao.Recaps[0].HasError)
	assert.Equal(t, 1, cache.sets)
}

func TestCreateRecap_CacheHit(t *testing.T) {
	service, dao, cache := newTestService(t, "hello")
	data := testutil.SpeechWAV(3000)
	cache.store[utils.HashBytes(data)] = &model.PipelineResult{
		Transcript: model.Transcript{Lines: []model.Line{{Speaker: "Speaker 1", Text: "from cache"}}},
		Summary:    *testutil.FixedSummary("cached summary"),
		CreatedAt:  time.Now().UTC(),
	}

	resp, err := service.CreateRecap(context.Background(), &AudioUpload{
		FileName: "again.wav",
		Data:     data,
	})
	require.NoError(t, err)

	assert.True(t, resp.Cached)
	assert.Equal(t, "cached summary", resp.Summary)
	// Nothing re-runs, nothing new is persisted.
	assert.Empty(t, dao.Recaps)
	assert.Zero(t, cache.sets)
}

func TestCreateRecap_EmptyUpload(t *testing.T) {
	service, _, _ := newTestService(t, "hello")

	_, err := service.CreateRecap(context.Background(), &AudioUpload{FileName: "empty.wav"})
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.KindBadRequest, apiErr.Kind)
}

func TestCreateRecap_UnsupportedFormat(t *testing.T) {
	service, dao, _ := newTestService(t, "hello")

	_, err := service.CreateRecap(context.Background(), &AudioUpload{
		FileName:    "weird.xyz",
		ContentType: "application/xyz",
		Data:        []byte("not audio"),
	})
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.KindBadRequest, apiErr.Kind)
	assert.Equal(t, "loaded", apiErr.Stage)

	// The failed run leaves an audit row.
	require.Len(t, dao.Recaps, 1)
	assert.Equal(t, 1, dao.Recaps[0].HasError)
	assert.NotEmpty(t, dao.Recaps[0].ErrorMessage)
}

func TestCreateRecap_SilentAudio(t *testing.T) {
	service, _, _ := newTestService(t, "")

	_, err := service.CreateRecap(context.Background(), &AudioUpload{
		FileName: "silence.wav",
		Data:     testutil.SilentWAV(5000),
	})
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.KindBadRequest, apiErr.Kind)
	assert.Equal(t, "assembled", apiErr.Stage)
}

func TestGetRecap(t *testing.T) {
	service, dao, _ := newTestService(t, "hello")
	id, err := dao.Save(&model.Recap{
		FileName:  "old.wav",
		Summary:   "stored",
		Titles:    []string{"A", "B", "C"},
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	resp, err := service.GetRecap(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "stored", resp.Summary)

	_, err = service.GetRecap(context.Background(), 999)
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.KindNotFound, apiErr.Kind)
}

func TestListRecaps(t *testing.T) {
	service, dao, _ := newTestService(t, "hello")
	for i := 0; i < 5; i++ {
		_, err := dao.Save(&model.Recap{FileName: "f.wav", CreatedAt: time.Now().UTC()})
		require.NoError(t, err)
	}

	resp, err := service.ListRecaps(context.Background(), dto.ListRecapsQuery{Page: 1, Limit: 3})
	require.NoError(t, err)

	assert.Len(t, resp.Recaps, 3)
	assert.True(t, resp.Pagination.HasNext)

	resp, err = service.ListRecaps(context.Background(), dto.ListRecapsQuery{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, resp.Recaps, 2)
	assert.False(t, resp.Pagination.HasNext)
}
