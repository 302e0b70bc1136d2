// Package convo implements the conversation turn pipeline and its
// append-only transcript store.
package convo

import "github.com/Arjgorithmic/VoiceBot/pkg/core/types"

// Log is the ordered, append-only transcript of one session. Turns are
// never deleted or rewritten; the log only grows.
//
// Log is not safe for concurrent use. The pipeline is invoked one turn at
// a time by its caller, which is responsible for serializing access.
type Log struct {
	turns []types.Turn
}

// NewLog creates an empty transcript.
func NewLog() *Log {
	return &Log{}
}

// Append adds one turn to the end of the transcript.
func (l *Log) Append(turn types.Turn) {
	l.turns = append(l.turns, turn)
}

// Snapshot returns a copy of the transcript in insertion order.
func (l *Log) Snapshot() []types.Turn {
	if l.turns == nil {
		return []types.Turn{}
	}
	return types.CloneTranscript(l.turns)
}

// Len returns the number of turns recorded so far.
func (l *Log) Len() int {
	return len(l.turns)
}
