package audio

import (
	"bytes"
	"encoding/binary"

	apperrors "voice-recap/internal/app/errors"
)

// Minimal RIFF/WAVE codec for 16-bit PCM. Decoding of other containers goes
// through ffmpeg first, so this is the only format parsed in-process.

const wavHeaderSize = 44

// isWAV reports whether data starts with a RIFF/WAVE header.
func isWAV(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[0:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WAVE"))
}

// parseWAV extracts 16-bit PCM samples from a WAVE file. Multi-channel input
// is downmixed to mono by averaging.
func parseWAV(data []byte) (samples []int16, sampleRate, channels int, err error) {
	if !isWAV(data) {
		return nil, 0, 0, apperrors.ErrUnsupportedFormat
	}

	pos := 12
	var fmtFound bool
	var bitsPerSample int
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+chunkSize > len(data) {
			// Truncated chunk. Tolerate a short trailing data chunk, reject
			// anything else.
			if chunkID != "data" {
				return nil, 0, 0, apperrors.WithCause(apperrors.ErrCorruptAudio,
					apperrors.Newf("truncated %s chunk", chunkID))
			}
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, 0, apperrors.WithCause(apperrors.ErrCorruptAudio,
					apperrors.New("fmt chunk too small"))
			}
			audioFormat := int(binary.LittleEndian.Uint16(data[body : body+2]))
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			if audioFormat != 1 || bitsPerSample != 16 {
				return nil, 0, 0, apperrors.WithCause(apperrors.ErrUnsupportedFormat,
					apperrors.Newf("wav format %d with %d bits per sample", audioFormat, bitsPerSample))
			}
			if channels <= 0 || sampleRate <= 0 {
				return nil, 0, 0, apperrors.WithCause(apperrors.ErrCorruptAudio,
					apperrors.Newf("wav header: %d channels at %d Hz", channels, sampleRate))
			}
			fmtFound = true
		case "data":
			if !fmtFound {
				return nil, 0, 0, apperrors.WithCause(apperrors.ErrCorruptAudio,
					apperrors.New("data chunk before fmt chunk"))
			}
			frameSize := 2 * channels
			frames := chunkSize / frameSize
			if frames == 0 {
				return nil, 0, 0, apperrors.WithCause(apperrors.ErrCorruptAudio,
					apperrors.New("zero-length sample data"))
			}
			samples = make([]int16, frames)
			for f := 0; f < frames; f++ {
				var sum int
				off := body + f*frameSize
				for ch := 0; ch < channels; ch++ {
					sum += int(int16(binary.LittleEndian.Uint16(data[off+2*ch : off+2*ch+2])))
				}
				samples[f] = int16(sum / channels)
			}
			return samples, sampleRate, channels, nil
		}

		pos = body + chunkSize
		if chunkSize%2 == 1 {
			pos++ // RIFF chunks are word-aligned
		}
	}

	return nil, 0, 0, apperrors.WithCause(apperrors.ErrCorruptAudio,
		apperrors.New("no data chunk found"))
}

// encodeWAV wraps mono 16-bit PCM samples in a WAVE container.
func encodeWAV(samples []int16, sampleRate int) []byte {
	dataSize := len(samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+dataSize))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))            // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))           // bits per sample

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, uint16(s))
	}

	return buf.Bytes()
}
