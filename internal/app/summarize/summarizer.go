package summarize

import (
	"context"
	"regexp"
	"strings"

	"github.com/samber/lo"

	apperrors "voice-recap/internal/app/errors"
	"voice-recap/internal/app/model"
)

// Summarizer is the generative-text capability: a transcript in, a
// structured summary plus exactly 3 title candidates out. Implementations
// never retry; the orchestrator owns the retry policy.
type Summarizer interface {
	Summarize(ctx context.Context, transcript model.Transcript) (*model.SummaryResult, error)
}

var (
	titlesHeading = regexp.MustCompile(`(?im)^\s*(?:#+\s*)?titles?\s*:?\s*$`)
	listMarker    = regexp.MustCompile(`^\s*(?:\d+[.)]\s*|[-*]\s+)`)
)

// parseResponse splits a model response into the summary section and the
// title list. The prompt asks for the summary first, then a "Titles" heading
// followed by 3 numbered lines. Fewer than 3 parseable titles or a missing
// summary section is a malformed response; the list is never padded or
// truncated to look valid.
func parseResponse(text string) (*model.SummaryResult, error) {
	loc := titlesHeading.FindStringIndex(text)
	if loc == nil {
		return nil, apperrors.WithCause(apperrors.ErrMalformedResponse,
			apperrors.New("titles section not found"))
	}

	summary := strings.TrimSpace(text[:loc[0]])
	if summary == "" {
		return nil, apperrors.WithCause(apperrors.ErrMalformedResponse,
			apperrors.New("summary section not found"))
	}

	var titles []string
	for _, line := range strings.Split(text[loc[1]:], "\n") {
		title := strings.Trim(strings.TrimSpace(listMarker.ReplaceAllString(line, "")), `"'`)
		if title != "" {
			titles = append(titles, title)
		}
	}
	titles = lo.Uniq(titles)

	if len(titles) < model.TitleCount {
		return nil, apperrors.WithCause(apperrors.ErrMalformedResponse,
			apperrors.Newf("got %d titles, want %d", len(titles), model.TitleCount))
	}

	return &model.SummaryResult{
		Summary: summary,
		Titles:  titles[:model.TitleCount],
	}, nil
}
