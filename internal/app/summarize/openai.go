package summarize

import (
	"context"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"

	apperrors "voice-recap/internal/app/errors"
	"voice-recap/internal/app/model"
)

// chatCompleter is the slice of the OpenAI client we use; tests substitute
// a deterministic fake.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAISummarizer generates the summary and titles with one chat
// completion call.
type OpenAISummarizer struct {
	client chatCompleter
	model  string
}

// NewOpenAISummarizer creates a Summarizer backed by the OpenAI chat API.
func NewOpenAISummarizer(client *openai.Client) *OpenAISummarizer {
	return &OpenAISummarizer{client: client, model: openai.GPT4oMini}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, transcript model.Transcript) (*model.SummaryResult, error) {
	request := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.4,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(transcript.Text()),
			},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, classifyChatError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.WithCause(apperrors.ErrMalformedResponse,
			apperrors.New("no completion choices returned"))
	}

	return parseResponse(resp.Choices[0].Message.Content)
}

func classifyChatError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return apperrors.WithCause(apperrors.ErrRateLimited, err)
		}
		return apperrors.NewServiceError(apiErr.HTTPStatusCode, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return apperrors.NewServiceError(0, err.Error())
}
