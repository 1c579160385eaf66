package segmenter

import (
	"math"

	"voice-recap/internal/app/audio"
	apperrors "voice-recap/internal/app/errors"
	"voice-recap/internal/app/model"
)

// Default segmentation parameters. Silence detection values follow what
// works for typical voice recordings: pauses of 700ms or more are treated
// as boundaries, and the energy floor is relative to the whole recording.
const (
	DefaultTargetSegmentMS = 30000
	DefaultMaxSegmentMS    = 45000
	DefaultMinSegmentMS    = 1000
	DefaultMinSilenceMS    = 700
	DefaultSilenceRatio    = 0.25

	// energyWindowMS is the resolution of the RMS energy scan.
	energyWindowMS = 20
)

// Config tunes the silence scan and the fixed-width fallback.
type Config struct {
	// TargetSegmentMS is the fixed window width used when no silence
	// boundary shows up within MaxSegmentMS of continuous speech.
	TargetSegmentMS int64
	// MaxSegmentMS caps segment growth on continuous speech.
	MaxSegmentMS int64
	// MinSegmentMS: assets shorter than this yield exactly one segment.
	MinSegmentMS int64
	// MinSilenceMS is the shortest low-energy run treated as a boundary.
	MinSilenceMS int64
	// SilenceRatio is the energy floor as a fraction of the overall RMS.
	SilenceRatio float64
}

func (c Config) withDefaults() Config {
	if c.TargetSegmentMS <= 0 {
		c.TargetSegmentMS = DefaultTargetSegmentMS
	}
	if c.MaxSegmentMS <= 0 {
		c.MaxSegmentMS = DefaultMaxSegmentMS
	}
	if c.MaxSegmentMS < c.TargetSegmentMS {
		c.MaxSegmentMS = c.TargetSegmentMS
	}
	if c.MinSegmentMS <= 0 {
		c.MinSegmentMS = DefaultMinSegmentMS
	}
	if c.MinSilenceMS <= 0 {
		c.MinSilenceMS = DefaultMinSilenceMS
	}
	if c.SilenceRatio <= 0 {
		c.SilenceRatio = DefaultSilenceRatio
	}
	return c
}

// Segmenter splits a normalized waveform into contiguous, speaker-labeled
// time segments. The labeling is a coarse heuristic, not diarization.
type Segmenter struct {
	cfg     Config
	labeler Labeler
}

// New creates a Segmenter. A nil labeler falls back to alternating labels.
func New(cfg Config, labeler Labeler) *Segmenter {
	if labeler == nil {
		labeler = NewAlternatingLabeler(0)
	}
	return &Segmenter{cfg: cfg.withDefaults(), labeler: labeler}
}

// Segment splits the asset at silence boundaries, with a fixed-width
// fallback on continuous speech. The result is always non-empty, segments
// are disjoint and cover [0, duration) with no gaps, in start order.
func (s *Segmenter) Segment(asset *audio.Asset) ([]model.Segment, error) {
	if asset == nil || asset.SampleRate <= 0 || len(asset.Samples) == 0 {
		return nil, apperrors.WithCause(apperrors.ErrSegmentationFailed,
			apperrors.New("asset has no usable waveform"))
	}

	durationMS := asset.DurationMS()
	if durationMS <= 0 {
		return nil, apperrors.WithCause(apperrors.ErrSegmentationFailed,
			apperrors.New("asset has zero duration"))
	}

	s.labeler.Reset()

	if durationMS <= s.cfg.MinSegmentMS {
		seg := model.Segment{Index: 0, StartMS: 0, EndMS: durationMS}
		seg.Speaker = s.labeler.Label(s.stats(asset, seg, 0))
		return []model.Segment{seg}, nil
	}

	cuts := s.silenceCuts(asset, durationMS)
	spans := s.applyWindowCap(cuts, durationMS)

	segments := make([]model.Segment, 0, len(spans))
	for i, sp := range spans {
		seg := model.Segment{Index: i, StartMS: sp.startMS, EndMS: sp.endMS}
		seg.Speaker = s.labeler.Label(s.stats(asset, seg, sp.gapMS))
		segments = append(segments, seg)
	}
	return segments, nil
}

type cut struct {
	atMS  int64
	gapMS int64 // silence run length that produced this cut
}

type span struct {
	startMS int64
	endMS   int64
	gapMS   int64 // silence preceding this span, 0 for fallback splits
}

// silenceCuts scans windowed RMS energy and cuts in the middle of every
// low-energy run at least MinSilenceMS long.
func (s *Segmenter) silenceCuts(asset *audio.Asset, durationMS int64) []cut {
	energies := windowEnergies(asset.Samples, asset.SampleRate)
	if len(energies) == 0 {
		return nil
	}

	var overall float64
	for _, e := range energies {
		overall += e * e
	}
	overall = math.Sqrt(overall / float64(len(energies)))
	threshold := overall * s.cfg.SilenceRatio

	var cuts []cut
	runStart := -1
	flush := func(endWindow int) {
		if runStart < 0 {
			return
		}
		runMS := int64(endWindow-runStart) * energyWindowMS
		if runMS >= s.cfg.MinSilenceMS {
			mid := int64(runStart)*energyWindowMS + runMS/2
			if mid > 0 && mid < durationMS {
				cuts = append(cuts, cut{atMS: mid, gapMS: runMS})
			}
		}
		runStart = -1
	}

	for i, e := range energies {
		if e <= threshold {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flush(i)
	}
	// A trailing silence run gets no cut: it would only split off an empty
	// tail segment.

	return cuts
}

// applyWindowCap turns cuts into spans and splits any span longer than
// MaxSegmentMS into TargetSegmentMS-wide windows.
func (s *Segmenter) applyWindowCap(cuts []cut, durationMS int64) []span {
	var spans []span
	prev := int64(0)
	emit := func(start, end, gap int64) {
		for end-start > s.cfg.MaxSegmentMS {
			spans = append(spans, span{startMS: start, endMS: start + s.cfg.TargetSegmentMS, gapMS: gap})
			start += s.cfg.TargetSegmentMS
			gap = 0
		}
		spans = append(spans, span{startMS: start, endMS: end, gapMS: gap})
	}

	gap := int64(0)
	for _, c := range cuts {
		if c.atMS <= prev {
			continue
		}
		emit(prev, c.atMS, gap)
		prev = c.atMS
		gap = c.gapMS
	}
	emit(prev, durationMS, gap)

	return spans
}

func (s *Segmenter) stats(asset *audio.Asset, seg model.Segment, gapMS int64) SegmentStats {
	start := int(seg.StartMS) * asset.SampleRate / 1000
	end := int(seg.EndMS) * asset.SampleRate / 1000
	if end > len(asset.Samples) {
		end = len(asset.Samples)
	}
	var sum float64
	for i := start; i < end; i++ {
		v := float64(asset.Samples[i])
		sum += v * v
	}
	var energy float64
	if end > start {
		energy = math.Sqrt(sum / float64(end-start))
	}
	return SegmentStats{Energy: energy, GapMS: gapMS}
}

// windowEnergies computes per-window RMS energy at energyWindowMS resolution.
func windowEnergies(samples []int16, sampleRate int) []float64 {
	windowSize := sampleRate * energyWindowMS / 1000
	if windowSize <= 0 {
		return nil
	}
	n := len(samples) / windowSize
	energies := make([]float64, 0, n+1)
	for start := 0; start < len(samples); start += windowSize {
		end := start + windowSize
		if end > len(samples) {
			end = len(samples)
		}
		var sum float64
		for i := start; i < end; i++ {
			v := float64(samples[i])
			sum += v * v
		}
		energies = append(energies, math.Sqrt(sum/float64(end-start)))
	}
	return energies
}
