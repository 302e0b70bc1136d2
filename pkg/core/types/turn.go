// Package types defines the conversation data model shared by the pipeline
// and the gateway.
package types

// Turn roles. The transcript only ever contains these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged utterance in a conversation. Turns are immutable
// once appended to a transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserTurn builds a user turn.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn builds an assistant turn. Failure notices are recorded as
// assistant turns so the transcript stays a faithful audit log.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// CloneTranscript returns an independent copy of a transcript slice.
// Callers hand transcripts across the pipeline boundary; copying keeps the
// append-only contract honest even if the caller retains its slice.
func CloneTranscript(transcript []Turn) []Turn {
	if transcript == nil {
		return nil
	}
	out := make([]Turn, len(transcript))
	copy(out, transcript)
	return out
}
