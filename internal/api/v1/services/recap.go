package services

import (
	"context"
	"log/slog"
	"time"

	apierrors "voice-recap/internal/api/errors"
	"voice-recap/internal/api/metrics"
	"voice-recap/internal/api/v1/dto"
	"voice-recap/internal/app/cache"
	"voice-recap/internal/app/model"
	"voice-recap/internal/app/pipeline"
	"voice-recap/internal/app/repository"
	"voice-recap/internal/app/utils"
)

// DefaultRecapService wires the pipeline orchestrator to cache, storage
// and persistence for the HTTP layer.
type DefaultRecapService struct {
	orchestrator *pipeline.Orchestrator
	dao          repository.RecapDAO
	cache        cache.ResultCache
	storage      StorageService
	metrics      *metrics.PipelineMetrics
	logger       *slog.Logger
}

// NewRecapService creates a recap service
func NewRecapService(
	orchestrator *pipeline.Orchestrator,
	dao repository.RecapDAO,
	resultCache cache.ResultCache,
	storage StorageService,
	pipelineMetrics *metrics.PipelineMetrics,
	logger *slog.Logger,
) *DefaultRecapService {
	return &DefaultRecapService{
		orchestrator: orchestrator,
		dao:          dao,
		cache:        resultCache,
		storage:      storage,
		metrics:      pipelineMetrics,
		logger:       logger,
	}
}

// CreateRecap runs the full pipeline for one uploaded audio file.
// Identical uploads are answered from the result cache without
// re-running transcription or summarization.
func (s *DefaultRecapService) CreateRecap(ctx context.Context, upload *AudioUpload) (*dto.RecapResponse, error) {
	if len(upload.Data) == 0 {
		return nil, apierrors.NewBadRequestError("uploaded file is empty")
	}

	hash := utils.HashBytes(upload.Data)
	if result, ok := s.cache.Get(ctx, hash); ok {
		s.logger.Info("recap served from cache",
			slog.String("file", upload.FileName),
			slog.String("hash", hash[:12]))
		if s.metrics != nil {
			s.metrics.ObserveCacheHit()
		}
		resp := dto.FromPipelineResult(result, true)
		return &resp, nil
	}

	if stored, err := s.storage.StoreAudio(ctx, upload.FileName, upload.ContentType, upload.Data); err != nil {
		// Archival is best effort; the recap itself must not depend on it.
		s.logger.Warn("failed to archive upload",
			slog.String("file", upload.FileName),
			slog.String("error", err.Error()))
	} else if stored.Key != "" {
		s.logger.Debug("upload archived", slog.String("key", stored.Key))
	}

	started := time.Now()
	result, err := s.orchestrator.GenerateSummary(ctx, upload.Data, upload.ContentType)
	if err != nil {
		s.recordFailure(upload, err, time.Since(started))
		return nil, toAPIError(err)
	}
	if s.metrics != nil {
		s.metrics.ObserveRun(time.Since(started))
	}

	s.cache.Set(ctx, hash, result)
	s.persist(upload, result)

	resp := dto.FromPipelineResult(result, false)
	return &resp, nil
}

// GetRecap returns a previously persisted recap by id
func (s *DefaultRecapService) GetRecap(ctx context.Context, id int64) (*dto.RecapResponse, error) {
	recap, err := s.dao.GetByID(id)
	if err != nil {
		return nil, apierrors.NewNotFoundError("recap")
	}
	resp := dto.ToRecapResponse(recap)
	return &resp, nil
}

// ListRecaps returns a page of persisted recaps, newest first
func (s *DefaultRecapService) ListRecaps(ctx context.Context, query dto.ListRecapsQuery) (*dto.PaginatedRecapsResponse, error) {
	recaps, err := s.dao.List(query.Limit, query.Offset())
	if err != nil {
		s.logger.Error("failed to list recaps", slog.String("error", err.Error()))
		return nil, apierrors.NewInternalError("failed to list recaps")
	}

	responses := make([]dto.RecapResponse, 0, len(recaps))
	for i := range recaps {
		responses = append(responses, dto.ToRecapResponse(&recaps[i]))
	}

	return &dto.PaginatedRecapsResponse{
		Recaps: responses,
		Pagination: dto.PaginationResponse{
			Page:    query.Page,
			Limit:   query.Limit,
			Count:   len(responses),
			HasNext: len(responses) == query.Limit,
		},
	}, nil
}

func (s *DefaultRecapService) persist(upload *AudioUpload, result *model.PipelineResult) {
	recap := &model.Recap{
		FileName:   upload.FileName,
		Transcript: result.Transcript.Text(),
		Summary:    result.Summary.Summary,
		Titles:     result.Summary.Titles,
		CreatedAt:  result.CreatedAt,
	}
	if _, err := s.dao.Save(recap); err != nil {
		s.logger.Error("failed to persist recap",
			slog.String("file", upload.FileName),
			slog.String("error", err.Error()))
	}
}

func (s *DefaultRecapService) recordFailure(upload *AudioUpload, err error, elapsed time.Duration) {
	perr, ok := pipeline.AsError(err)
	if !ok {
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveFailure(string(perr.Stage), string(perr.Kind), elapsed)
	}
	recap := &model.Recap{
		FileName:     upload.FileName,
		CreatedAt:    time.Now(),
		HasError:     1,
		ErrorMessage: perr.Error(),
	}
	if _, saveErr := s.dao.Save(recap); saveErr != nil {
		s.logger.Error("failed to persist failed run",
			slog.String("file", upload.FileName),
			slog.String("error", saveErr.Error()))
	}
}

// toAPIError maps a classified pipeline failure onto the HTTP error
// vocabulary: ingestion failures are the client's fault, rate limits and
// upstream trouble are retryable, everything else is internal.
func toAPIError(err error) *apierrors.APIError {
	perr, ok := pipeline.AsError(err)
	if !ok {
		return apierrors.NewInternalError("recap generation failed")
	}

	apiErr := func() *apierrors.APIError {
		switch perr.Kind {
		case pipeline.KindEmptyInput, pipeline.KindUnsupportedFormat, pipeline.KindCorruptAudio:
			return apierrors.NewBadRequestError(perr.Message)
		case pipeline.KindEmptyTranscript:
			return apierrors.NewBadRequestError("no transcribable speech found in the audio")
		case pipeline.KindRateLimited:
			return apierrors.NewRateLimitedError("transcription provider is rate limiting, retry later")
		case pipeline.KindServiceError, pipeline.KindMalformedResponse:
			return apierrors.NewUpstreamError(perr.Message)
		default:
			return apierrors.NewInternalError(perr.Message)
		}
	}()
	apiErr.Stage = string(perr.Stage)
	return apiErr
}
