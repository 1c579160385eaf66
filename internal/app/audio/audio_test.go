package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "voice-recap/internal/app/errors"
)

// encodeStereoWAV builds a 2-channel WAVE file from interleaved samples.
func encodeStereoWAV(interleaved []int16, sampleRate int) []byte {
	mono := encodeWAV(interleaved, sampleRate)
	// Patch the fmt chunk: 2 channels, doubled byte rate, block align 4.
	raw := make([]byte, len(mono))
	copy(raw, mono)
	raw[22] = 2
	byteRate := uint32(sampleRate * 4)
	raw[28] = byte(byteRate)
	raw[29] = byte(byteRate >> 8)
	raw[30] = byte(byteRate >> 16)
	raw[31] = byte(byteRate >> 24)
	raw[32] = 4
	return raw
}

func sineSamples(durMS int, amplitude float64) []int16 {
	n := DefaultSampleRate * durMS / 1000
	samples := make([]int16, n)
	for i := range samples {
		v := amplitude * math.Sin(2*math.Pi*220*float64(i)/DefaultSampleRate)
		samples[i] = int16(v * math.MaxInt16)
	}
	return samples
}

func TestLoad_EmptyInput(t *testing.T) {
	loader := NewFFmpegLoader()

	_, err := loader.Load(nil, "wav")
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)

	_, err = loader.Load([]byte{}, "mp3")
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	loader := NewFFmpegLoader()

	_, err := loader.Load([]byte("definitely not audio"), "xyz")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}

func TestLoad_WAVRoundtrip(t *testing.T) {
	samples := sineSamples(1000, 0.5)
	raw := encodeWAV(samples, DefaultSampleRate)

	loader := NewFFmpegLoader()
	asset, err := loader.Load(raw, "wav")
	require.NoError(t, err)
	defer asset.Close()

	assert.Equal(t, DefaultSampleRate, asset.SampleRate)
	assert.Equal(t, 1, asset.Channels)
	assert.Equal(t, "wav", asset.Format)
	assert.Equal(t, samples, asset.Samples)
	assert.Equal(t, int64(1000), asset.DurationMS())
}

func TestLoad_WAVDetectedRegardlessOfDeclaredFormat(t *testing.T) {
	// Browsers sometimes send wav uploads with a generic content type; the
	// magic bytes win over the declaration.
	raw := encodeWAV(sineSamples(200, 0.3), DefaultSampleRate)

	loader := NewFFmpegLoader()
	asset, err := loader.Load(raw, "application/octet-stream")
	require.NoError(t, err)
	defer asset.Close()

	assert.Equal(t, "wav", asset.Format)
}

func TestLoad_CorruptWAV(t *testing.T) {
	raw := encodeWAV(sineSamples(200, 0.3), DefaultSampleRate)

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated header", raw[:20]},
		{"header only, no data chunk", raw[:wavHeaderSize-8]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewFFmpegLoader()
			_, err := loader.Load(tt.data, "wav")
			assert.Error(t, err)
		})
	}
}

func TestParseWAV_StereoDownmix(t *testing.T) {
	mono := sineSamples(100, 0.4)
	stereo := make([]int16, 0, len(mono)*2)
	for _, s := range mono {
		stereo = append(stereo, s, s)
	}
	raw := encodeStereoWAV(stereo, DefaultSampleRate)

	samples, rate, channels, err := parseWAV(raw)
	require.NoError(t, err)
	assert.Equal(t, DefaultSampleRate, rate)
	assert.Equal(t, 2, channels)
	assert.Equal(t, mono, samples)
}

func TestClip(t *testing.T) {
	samples := sineSamples(1000, 0.5)
	asset := &Asset{Samples: samples, SampleRate: DefaultSampleRate}

	clip := asset.Clip(250, 750)
	clipped, rate, _, err := parseWAV(clip)
	require.NoError(t, err)
	assert.Equal(t, DefaultSampleRate, rate)
	assert.Len(t, clipped, DefaultSampleRate/2)
	assert.Equal(t, samples[DefaultSampleRate/4:DefaultSampleRate*3/4], clipped)
}

func TestClip_OutOfRange(t *testing.T) {
	asset := &Asset{Samples: sineSamples(100, 0.5), SampleRate: DefaultSampleRate}

	tests := []struct {
		name             string
		startMS, endMS   int64
		expectedSamples  int
	}{
		{"end past asset", 50, 500, DefaultSampleRate / 20},
		{"negative start", -100, 50, DefaultSampleRate / 20},
		{"inverted range", 80, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clipped, _, _, err := parseWAV(asset.Clip(tt.startMS, tt.endMS))
			require.NoError(t, err)
			assert.Len(t, clipped, tt.expectedSamples)
		})
	}
}

func TestNormalizeFormat(t *testing.T) {
	tests := []struct {
		declared string
		expected string
	}{
		{"wav", "wav"},
		{".WAV", "wav"},
		{"audio/x-wav", "wav"},
		{"audio/wave", "wav"},
		{"audio/mpeg", "mp3"},
		{"mpga", "mp3"},
		{".m4a", "m4a"},
		{"  flac  ", "flac"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeFormat(tt.declared), "declared %q", tt.declared)
	}
}

func TestClose_Idempotent(t *testing.T) {
	asset := &Asset{}
	assert.NoError(t, asset.Close())
	assert.NoError(t, asset.Close())
}
