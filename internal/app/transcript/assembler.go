package transcript

import (
	"github.com/samber/lo"

	apperrors "voice-recap/internal/app/errors"
	"voice-recap/internal/app/model"
)

// ErrOutOfOrder reports segment results arriving out of segment order. The
// caller merges concurrent results by index, so this indicates a bug rather
// than something to silently re-sort.
var ErrOutOfOrder = apperrors.New("segment results out of order")

// Assemble merges ordered per-segment results into one annotated transcript.
// Failed segments are skipped without placeholders; their absence never
// reorders later lines. Returns ErrEmptyTranscript when there is nothing
// left to summarize, which is the single condition that aborts the pipeline
// before summarization.
func Assemble(results []model.SegmentTranscript) (model.Transcript, error) {
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		if cur.Segment.Index <= prev.Segment.Index || cur.Segment.StartMS < prev.Segment.StartMS {
			return model.Transcript{}, apperrors.Wrapf(ErrOutOfOrder,
				"segment %d after segment %d", cur.Segment.Index, prev.Segment.Index)
		}
	}

	lines := lo.FilterMap(results, func(st model.SegmentTranscript, _ int) (model.Line, bool) {
		if !st.Ok() || st.Text == "" {
			return model.Line{}, false
		}
		return model.Line{Speaker: st.Segment.Speaker, Text: st.Text}, true
	})

	if len(lines) == 0 {
		return model.Transcript{}, apperrors.ErrEmptyTranscript
	}

	return model.Transcript{Lines: lines}, nil
}
