package dto

import (
	"time"

	"voice-recap/internal/app/model"
)

// RecapResponse represents a finished recap in API responses
type RecapResponse struct {
	ID              int64     `json:"id,omitempty"`
	FileName        string    `json:"file_name,omitempty"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	Transcript      string    `json:"transcript"`
	Summary         string    `json:"summary"`
	Titles          []string  `json:"titles"`
	Cached          bool      `json:"cached,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ListRecapsQuery represents query parameters for listing recaps
type ListRecapsQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}

func (q *ListRecapsQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PaginatedRecapsResponse represents a page of recaps
type PaginatedRecapsResponse struct {
	Recaps     []RecapResponse    `json:"recaps"`
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Count   int  `json:"count"`
	HasNext bool `json:"has_next"`
}

// ToRecapResponse converts a persisted recap to its response DTO
func ToRecapResponse(r *model.Recap) RecapResponse {
	return RecapResponse{
		ID:              r.ID,
		FileName:        r.FileName,
		DurationSeconds: r.AudioDuration,
		Transcript:      r.Transcript,
		Summary:         r.Summary,
		Titles:          r.Titles,
		CreatedAt:       r.CreatedAt,
	}
}

// FromPipelineResult converts a fresh pipeline result to its response DTO
func FromPipelineResult(res *model.PipelineResult, cached bool) RecapResponse {
	return RecapResponse{
		Transcript: res.Transcript.Text(),
		Summary:    res.Summary.Summary,
		Titles:     res.Summary.Titles,
		Cached:     cached,
		CreatedAt:  res.CreatedAt,
	}
}
