// Package stt provides speech-to-text functionality.
package stt

import (
	"context"
	"io"
)

// Provider is the interface for speech-to-text services.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Transcribe converts a recorded clip to text. Audio the backend ran
	// over but could not make sense of is reported as a core.Error with
	// type ErrUnintelligible; backend/transport failures as
	// ErrSTTUnavailable. Callers are expected to branch on the error type,
	// so every recognition outcome is handled explicitly.
	Transcribe(ctx context.Context, audio io.Reader, opts TranscribeOptions) (*Transcript, error)
}

// TranscribeOptions configures transcription.
type TranscribeOptions struct {
	Model    string // Provider-specific model (default: "whisper-1")
	Language string // ISO language code hint
	Format   string // Audio format hint (wav, mp3, webm, etc.)
}

// Transcript is the result of transcription.
type Transcript struct {
	Text     string  // Full transcribed text
	Language string  // Detected or specified language
	Duration float64 // Audio duration in seconds
}
