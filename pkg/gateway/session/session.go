// Package session owns the single in-memory conversation a gateway
// process serves.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/Arjgorithmic/VoiceBot/pkg/core/convo"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/types"
)

// Session serializes pipeline invocations over one transcript. The
// transcript store itself is single-writer by design; the session lock is
// what guarantees that when the caller is a concurrent HTTP server.
type Session struct {
	mu          sync.Mutex
	log         *convo.Log
	pipeline    *convo.Pipeline
	turnTimeout time.Duration
	onUpdate    func(turns int)
}

// New creates a session around an empty transcript.
func New(pipeline *convo.Pipeline, turnTimeout time.Duration) *Session {
	return &Session{
		log:         convo.NewLog(),
		pipeline:    pipeline,
		turnTimeout: turnTimeout,
	}
}

// OnUpdate registers a callback invoked, under the session lock, whenever
// a turn changes the transcript. Used to drive the live feed.
func (s *Session) OnUpdate(fn func(turns int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// SubmitText runs one text turn.
func (s *Session) SubmitText(ctx context.Context, text string) convo.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.turnContext(ctx)
	defer cancel()

	before := s.log.Len()
	res := s.pipeline.SubmitText(ctx, text, s.log)
	s.notify(before)
	return res
}

// SubmitAudio runs one voice turn.
func (s *Session) SubmitAudio(ctx context.Context, input convo.AudioInput) convo.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.turnContext(ctx)
	defer cancel()

	before := s.log.Len()
	res := s.pipeline.SubmitAudio(ctx, input, s.log)
	s.notify(before)
	return res
}

// Transcript returns a snapshot of the conversation so far.
func (s *Session) Transcript() []types.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Snapshot()
}

func (s *Session) turnContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.turnTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.turnTimeout)
}

func (s *Session) notify(before int) {
	if s.onUpdate != nil && s.log.Len() != before {
		s.onUpdate(s.log.Len())
	}
}
