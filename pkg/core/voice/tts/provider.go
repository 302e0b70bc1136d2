// Package tts provides text-to-speech functionality.
package tts

import "context"

// Provider is the interface for text-to-speech services.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Synthesize converts text to audio. Synthesis is deterministic for a
	// fixed (text, language, speed) configuration; each call returns a
	// fresh result. Failures are reported as core.Error with type
	// ErrSynthesis.
	Synthesize(ctx context.Context, text string, opts SynthesizeOptions) (*Synthesis, error)
}

// SynthesizeOptions configures synthesis.
type SynthesizeOptions struct {
	Voice    string  // Voice identifier
	Language string  // Language code
	Speed    float64 // Speed multiplier (0.25-4.0, default 1.0)
	Format   string  // Output format: "mp3", "wav", "opus", etc.
}

// Synthesis is the result of synthesis.
type Synthesis struct {
	Audio  []byte // Audio data
	Format string // Audio format
}
