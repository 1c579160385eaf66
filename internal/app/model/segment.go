package model

import (
	"fmt"
	"strings"
	"time"
)

// Segment is a contiguous time slice of the input audio with a provisional
// speaker label. Segments are immutable once produced.
type Segment struct {
	Index   int    `json:"index"`
	StartMS int64  `json:"start_ms"`
	EndMS   int64  `json:"end_ms"`
	Speaker string `json:"speaker"`
}

// DurationMS returns the segment length in milliseconds.
func (s Segment) DurationMS() int64 {
	return s.EndMS - s.StartMS
}

func (s Segment) String() string {
	return fmt.Sprintf("segment %d [%dms-%dms] %s", s.Index, s.StartMS, s.EndMS, s.Speaker)
}

// SegmentStatus marks the outcome of transcribing one segment.
type SegmentStatus int

const (
	StatusOk SegmentStatus = iota
	StatusFailed
)

// SegmentTranscript is the per-segment recognition result. A failed segment
// carries the failure reason and contributes no transcript line.
type SegmentTranscript struct {
	Segment Segment       `json:"segment"`
	Text    string        `json:"text"`
	Status  SegmentStatus `json:"status"`
	Reason  string        `json:"reason,omitempty"`
}

// Ok reports whether the segment was recognized successfully.
func (st SegmentTranscript) Ok() bool {
	return st.Status == StatusOk
}

// Line is one speaker-attributed line of a transcript.
type Line struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Transcript is the ordered, speaker-labeled textual reconstruction of the
// conversation. Line order equals segment start order.
type Transcript struct {
	Lines []Line `json:"lines"`
}

// Text renders the transcript as "Speaker N: text" lines.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t.Lines))
	for _, l := range t.Lines {
		parts = append(parts, l.Speaker+": "+l.Text)
	}
	return strings.Join(parts, "\n")
}

// Empty reports whether the transcript carries no lines.
func (t Transcript) Empty() bool {
	return len(t.Lines) == 0
}

// TitleCount is the number of title candidates a summary must carry.
const TitleCount = 3

// SummaryResult is the structured output of the summarization stage.
type SummaryResult struct {
	Summary string   `json:"summary"`
	Titles  []string `json:"titles"`
}

// PipelineResult is the terminal success artifact of one pipeline run.
// Ownership passes to the caller once produced.
type PipelineResult struct {
	Transcript Transcript    `json:"transcript"`
	Summary    SummaryResult `json:"summary"`
	CreatedAt  time.Time     `json:"created_at"`
}
