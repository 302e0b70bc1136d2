package core

import "context"

// Generator is the interface every response-generator provider implements.
// One request, one reply. No streaming and no retries; a failed call is
// surfaced once and the caller decides what to do with it.
type Generator interface {
	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string

	// Generate sends the persona prompt plus one user utterance upstream
	// and returns the reply text. Failures are reported as *Error with
	// type ErrGeneration.
	Generate(ctx context.Context, persona Persona, utterance string) (string, error)
}
