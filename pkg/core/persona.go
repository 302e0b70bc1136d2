package core

import "strings"

// DefaultPersona is used when no persona is configured. Deployments are
// expected to supply their own via VOICEBOT_PERSONA or a persona file.
const DefaultPersona = "You are a helpful voice assistant. Keep replies short, " +
	"conversational, and free of emojis so they read well when spoken aloud."

// Persona is the fixed, process-wide system prompt describing the
// assistant's identity and constraints. It is constructed once at startup
// and passed explicitly into every generator call; nothing reads it from
// ambient state.
type Persona struct {
	prompt string
}

// NewPersona builds a persona from a system-prompt string. Blank input
// falls back to DefaultPersona.
func NewPersona(prompt string) Persona {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = DefaultPersona
	}
	return Persona{prompt: prompt}
}

// Prompt returns the system-prompt text.
func (p Persona) Prompt() string {
	return p.prompt
}
