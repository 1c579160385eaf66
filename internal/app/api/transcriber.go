package api

import "context"

// Clip is a bounded piece of audio handed to a recognition service.
type Clip struct {
	// Name is a synthetic file name carrying the container extension, which
	// remote services use to pick a decoder.
	Name string
	// WAV is the clip encoded as a 16-bit PCM WAV file.
	WAV []byte
}

// Transcriber is the speech recognition capability. Implementations return
// the recognized text or a typed failure; they never retry.
type Transcriber interface {
	Transcribe(ctx context.Context, clip Clip) (string, error)
}
