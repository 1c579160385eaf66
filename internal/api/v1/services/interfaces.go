package services

import (
	"context"

	"voice-recap/internal/api/v1/dto"
)

// RecapService defines the interface for recap operations
type RecapService interface {
	CreateRecap(ctx context.Context, upload *AudioUpload) (*dto.RecapResponse, error)
	GetRecap(ctx context.Context, id int64) (*dto.RecapResponse, error)
	ListRecaps(ctx context.Context, query dto.ListRecapsQuery) (*dto.PaginatedRecapsResponse, error)
}

// AudioUpload carries one uploaded audio file through the service layer
type AudioUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}
