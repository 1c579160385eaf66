package segmenter

import "fmt"

// DefaultSpeakerGapMS is the silence length that flips the speaker label in
// the alternating heuristic.
const DefaultSpeakerGapMS = 2000

// SegmentStats are the acoustic features available to a labeler.
type SegmentStats struct {
	// Energy is the segment's mean RMS amplitude.
	Energy float64
	// GapMS is the silence run preceding the segment, 0 if none.
	GapMS int64
}

// Labeler assigns a provisional speaker label to each segment in order.
// This is an approximation, not diarization; a real diarization model can
// replace it without touching the assembler or the orchestrator.
type Labeler interface {
	// Reset clears state before a new asset.
	Reset()
	// Label is called once per segment, in segment order.
	Label(stats SegmentStats) string
}

// AlternatingLabeler flips between two labels whenever the silence gap
// before a segment exceeds a threshold.
type AlternatingLabeler struct {
	gapThresholdMS int64
	current        int
}

// NewAlternatingLabeler creates the gap-based alternating labeler.
// A non-positive threshold uses DefaultSpeakerGapMS.
func NewAlternatingLabeler(gapThresholdMS int64) *AlternatingLabeler {
	if gapThresholdMS <= 0 {
		gapThresholdMS = DefaultSpeakerGapMS
	}
	return &AlternatingLabeler{gapThresholdMS: gapThresholdMS, current: 1}
}

func (l *AlternatingLabeler) Reset() { l.current = 1 }

func (l *AlternatingLabeler) Label(stats SegmentStats) string {
	if stats.GapMS > l.gapThresholdMS {
		if l.current == 1 {
			l.current = 2
		} else {
			l.current = 1
		}
	}
	return speakerName(l.current)
}

// CentroidLabeler assigns each segment to the nearer of two running energy
// centroids, updating the chosen centroid incrementally.
type CentroidLabeler struct {
	centroids [2]float64
	counts    [2]int
}

// NewCentroidLabeler creates the two-centroid clustering labeler.
func NewCentroidLabeler() *CentroidLabeler {
	return &CentroidLabeler{}
}

func (l *CentroidLabeler) Reset() {
	l.centroids = [2]float64{}
	l.counts = [2]int{}
}

func (l *CentroidLabeler) Label(stats SegmentStats) string {
	// Seed the first centroid, then the second with the first segment that
	// deviates by more than half of the seed energy.
	if l.counts[0] == 0 {
		l.assign(0, stats.Energy)
		return speakerName(1)
	}
	if l.counts[1] == 0 {
		if diff(stats.Energy, l.centroids[0]) > l.centroids[0]/2 {
			l.assign(1, stats.Energy)
			return speakerName(2)
		}
		l.assign(0, stats.Energy)
		return speakerName(1)
	}

	idx := 0
	if diff(stats.Energy, l.centroids[1]) < diff(stats.Energy, l.centroids[0]) {
		idx = 1
	}
	l.assign(idx, stats.Energy)
	return speakerName(idx + 1)
}

func (l *CentroidLabeler) assign(idx int, energy float64) {
	l.counts[idx]++
	l.centroids[idx] += (energy - l.centroids[idx]) / float64(l.counts[idx])
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func speakerName(i int) string {
	return fmt.Sprintf("Speaker %d", i)
}
