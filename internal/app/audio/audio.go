package audio

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	apperrors "voice-recap/internal/app/errors"
)

// DefaultSampleRate is the rate everything is normalized to before
// segmentation. 16kHz mono pcm_s16le is what the recognition providers want.
const DefaultSampleRate = 16000

var supportedFormats = map[string]bool{
	"wav":  true,
	"mp3":  true,
	"m4a":  true,
	"aac":  true,
	"mp4":  true,
	"ogg":  true,
	"flac": true,
	"webm": true,
}

// Asset is the normalized waveform of one upload. It is owned by a single
// pipeline invocation and must be closed to release the decoded temp copy.
type Asset struct {
	Samples    []int16
	SampleRate int
	Channels   int
	Format     string
	Duration   time.Duration

	tempDir string
}

// DurationMS returns the asset length in milliseconds.
func (a *Asset) DurationMS() int64 {
	return a.Duration.Milliseconds()
}

// Clip returns the [startMS, endMS) slice of the waveform as an in-memory
// WAV file suitable for a recognition request.
func (a *Asset) Clip(startMS, endMS int64) []byte {
	start := int(startMS) * a.SampleRate / 1000
	end := int(endMS) * a.SampleRate / 1000
	if start < 0 {
		start = 0
	}
	if end > len(a.Samples) {
		end = len(a.Samples)
	}
	if start >= end {
		return encodeWAV(nil, a.SampleRate)
	}
	return encodeWAV(a.Samples[start:end], a.SampleRate)
}

// Close removes the temporary decoded copy. Safe to call more than once.
func (a *Asset) Close() error {
	if a.tempDir == "" {
		return nil
	}
	dir := a.tempDir
	a.tempDir = ""
	return os.RemoveAll(dir)
}

// Loader decodes raw uploaded bytes into a normalized Asset.
type Loader interface {
	Load(raw []byte, declaredFormat string) (*Asset, error)
}

// FFmpegLoader decodes via ffmpeg. Plain 16-bit PCM WAV input is parsed
// in-process without shelling out.
type FFmpegLoader struct{}

// NewFFmpegLoader creates a new FFmpegLoader.
func NewFFmpegLoader() *FFmpegLoader {
	return &FFmpegLoader{}
}

// Load decodes raw bytes with the declared format (extension or MIME subtype)
// into a mono PCM Asset.
func (l *FFmpegLoader) Load(raw []byte, declaredFormat string) (*Asset, error) {
	if len(raw) == 0 {
		return nil, apperrors.ErrEmptyInput
	}

	format := normalizeFormat(declaredFormat)

	if isWAV(raw) {
		samples, rate, channels, err := parseWAV(raw)
		if err != nil {
			return nil, err
		}
		return &Asset{
			Samples:    samples,
			SampleRate: rate,
			Channels:   channels,
			Format:     "wav",
			Duration:   sampleDuration(len(samples), rate),
		}, nil
	}

	if !supportedFormats[format] {
		return nil, apperrors.WithCause(apperrors.ErrUnsupportedFormat,
			apperrors.Newf("declared format %q", declaredFormat))
	}

	tempDir, err := os.MkdirTemp("", "recap-audio-")
	if err != nil {
		return nil, apperrors.Wrap(err, "create temp dir")
	}

	inputPath := filepath.Join(tempDir, "input."+format)
	if err := os.WriteFile(inputPath, raw, 0o644); err != nil {
		os.RemoveAll(tempDir)
		return nil, apperrors.Wrap(err, "write temp input")
	}

	wavPath := filepath.Join(tempDir, "decoded.wav")
	if err := convertToWav(inputPath, wavPath); err != nil {
		os.RemoveAll(tempDir)
		return nil, apperrors.WithCause(apperrors.ErrUnsupportedFormat, err)
	}

	decoded, err := os.ReadFile(wavPath)
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, apperrors.Wrap(err, "read decoded wav")
	}

	samples, rate, channels, err := parseWAV(decoded)
	if err != nil {
		os.RemoveAll(tempDir)
		// ffmpeg claimed success but produced no usable sample data
		return nil, apperrors.WithCause(apperrors.ErrCorruptAudio, err)
	}

	return &Asset{
		Samples:    samples,
		SampleRate: rate,
		Channels:   channels,
		Format:     format,
		Duration:   sampleDuration(len(samples), rate),
		tempDir:    tempDir,
	}, nil
}

// convertToWav normalizes any decodable input to 16kHz mono pcm_s16le WAV.
func convertToWav(inputPath, outputPath string) error {
	cmd := exec.Command("ffmpeg", "-i", inputPath, "-vn",
		"-acodec", "pcm_s16le", "-ar", fmt.Sprint(DefaultSampleRate), "-ac", "1",
		outputPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("FFmpeg error: %v, stderr: %s", err, stderr.String())
	}
	return nil
}

func normalizeFormat(declared string) string {
	f := strings.ToLower(strings.TrimSpace(declared))
	f = strings.TrimPrefix(f, ".")
	// Tolerate full MIME types like "audio/mpeg"
	if i := strings.LastIndex(f, "/"); i >= 0 {
		f = f[i+1:]
	}
	if f == "mpeg" || f == "mpga" {
		f = "mp3"
	}
	if f == "x-wav" || f == "wave" {
		f = "wav"
	}
	return f
}

func sampleDuration(n, rate int) time.Duration {
	return time.Duration(n) * time.Second / time.Duration(rate)
}
