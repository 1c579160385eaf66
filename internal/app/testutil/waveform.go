package testutil

import (
	"bytes"
	"encoding/binary"
	"math"
)

// SampleRate matches the pipeline's canonical rate so synthetic audio
// passes through the loader unresampled.
const SampleRate = 16000

// Tone generates durMS of a sine wave at the given frequency and
// amplitude (0..1).
func Tone(durMS int, freqHz float64, amplitude float64) []int16 {
	n := SampleRate * durMS / 1000
	samples := make([]int16, n)
	for i := range samples {
		v := amplitude * math.Sin(2*math.Pi*freqHz*float64(i)/SampleRate)
		samples[i] = int16(v * math.MaxInt16)
	}
	return samples
}

// Silence generates durMS of digital silence.
func Silence(durMS int) []int16 {
	return make([]int16, SampleRate*durMS/1000)
}

// Concat joins waveform pieces into one sample stream.
func Concat(pieces ...[]int16) []int16 {
	var out []int16
	for _, p := range pieces {
		out = append(out, p...)
	}
	return out
}

// WAV encodes samples as a 16-bit PCM mono WAV file at SampleRate.
func WAV(samples []int16) []byte {
	dataLen := len(samples) * 2

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(SampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	binary.Write(&buf, binary.LittleEndian, samples)

	return buf.Bytes()
}

// SpeechWAV is a convenience fixture: durMS of plausible speech energy.
func SpeechWAV(durMS int) []byte {
	return WAV(Tone(durMS, 220, 0.6))
}

// SilentWAV is a convenience fixture: durMS of digital silence.
func SilentWAV(durMS int) []byte {
	return WAV(Silence(durMS))
}
