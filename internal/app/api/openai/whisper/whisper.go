package whisper

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"voice-recap/internal/app/api"
	apperrors "voice-recap/internal/app/errors"
)

// RemoteTranscriber implements recognition using the OpenAI Whisper API.
type RemoteTranscriber struct {
	client *openai.Client
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client) *RemoteTranscriber {
	return &RemoteTranscriber{client: client}
}

// Transcribe sends one in-memory clip to the Whisper API.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, clip api.Clip) (string, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: clip.Name,
		Reader:   bytes.NewReader(clip.WAV),
	}

	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", classify(err)
	}

	return resp.Text, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return apperrors.WithCause(apperrors.ErrRateLimited, err)
		default:
			return apperrors.NewServiceError(apiErr.HTTPStatusCode, err.Error())
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return apperrors.NewServiceError(0, err.Error())
}
