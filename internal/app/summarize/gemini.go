package summarize

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"

	apperrors "voice-recap/internal/app/errors"
	"voice-recap/internal/app/model"
)

const defaultGeminiModel = "gemini-1.5-pro"

// GeminiSummarizer generates the summary and titles with the Gemini API.
type GeminiSummarizer struct {
	client *genai.Client
	model  string
}

// NewGeminiSummarizer creates a Summarizer backed by Gemini.
func NewGeminiSummarizer(ctx context.Context, apiKey string) (*GeminiSummarizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "create gemini client")
	}
	return &GeminiSummarizer{client: client, model: defaultGeminiModel}, nil
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, transcript model.Transcript) (*model.SummaryResult, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.4),
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model,
		genai.Text(buildPrompt(transcript.Text())), config)
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	text := resp.Text()
	if text == "" {
		return nil, apperrors.WithCause(apperrors.ErrMalformedResponse,
			apperrors.New("empty completion"))
	}

	return parseResponse(text)
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return apperrors.WithCause(apperrors.ErrRateLimited, err)
		}
		return apperrors.NewServiceError(apiErr.Code, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return apperrors.NewServiceError(0, err.Error())
}
