package convo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Arjgorithmic/VoiceBot/pkg/core"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/types"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/voice"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/voice/stt"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/voice/tts"
)

// User-facing messages. Validation failures surface as a status message
// only; everything else is recorded in the transcript as an assistant
// notice so the session keeps a faithful audit log.
const (
	StatusEmptyInput     = "Please enter a valid question."
	noticeInvalidAudio   = "Invalid audio input. Please try again."
	noticeUnintelligible = "Could not understand the audio. Please try again."
)

// AudioInput is the tagged audio handle accepted by SubmitAudio. The
// boundary layer decides validity before the pipeline ever sees the input;
// the zero value is the invalid variant.
type AudioInput struct {
	path  string
	valid bool
}

// ValidHandle tags a recorded clip on disk as pipeline input.
func ValidHandle(path string) AudioInput {
	return AudioInput{path: path, valid: true}
}

// InvalidInput is the rejected-at-the-boundary variant.
func InvalidInput() AudioInput {
	return AudioInput{}
}

// Result is what one pipeline invocation hands back to the presentation
// layer: the updated transcript, a status message for failures that do not
// belong in the transcript, and the synthesized reply clip if one was
// produced.
type Result struct {
	Transcript []types.Turn
	Status     string
	Audio      *voice.Artifact
}

// Pipeline drives one unit of user input through recognition, response
// generation, and synthesis. All adapter calls are blocking; there is no
// retry and no cancellation beyond ctx.
type Pipeline struct {
	persona   core.Persona
	generator core.Generator
	stt       stt.Provider
	tts       tts.Provider
	artifacts *voice.ArtifactStore

	sttOpts   stt.TranscribeOptions
	synthOpts tts.SynthesizeOptions

	logger *slog.Logger
}

// Config carries the pipeline's collaborators and fixed settings.
type Config struct {
	Persona        core.Persona
	Generator      core.Generator
	STT            stt.Provider
	TTS            tts.Provider
	Artifacts      *voice.ArtifactStore
	TranscribeOpts stt.TranscribeOptions
	SynthesizeOpts tts.SynthesizeOptions
	Logger         *slog.Logger
}

// NewPipeline wires a pipeline from its adapters.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if cfg.Generator == nil {
		return nil, errors.New("convo: generator is required")
	}
	if cfg.STT == nil {
		return nil, errors.New("convo: stt provider is required")
	}
	if cfg.TTS == nil {
		return nil, errors.New("convo: tts provider is required")
	}
	if cfg.Artifacts == nil {
		return nil, errors.New("convo: artifact store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		persona:   cfg.Persona,
		generator: cfg.Generator,
		stt:       cfg.STT,
		tts:       cfg.TTS,
		artifacts: cfg.Artifacts,
		sttOpts:   cfg.TranscribeOpts,
		synthOpts: cfg.SynthesizeOpts,
		logger:    logger,
	}, nil
}

// SubmitText processes one typed utterance.
//
// Empty or whitespace-only input is a pure validation failure: the
// transcript is untouched, no adapter runs, and the user sees a status
// message instead of a transcript notice.
func (p *Pipeline) SubmitText(ctx context.Context, input string, log *Log) Result {
	if strings.TrimSpace(input) == "" {
		return Result{Transcript: log.Snapshot(), Status: StatusEmptyInput}
	}
	return p.respond(ctx, input, log)
}

// SubmitAudio processes one recorded clip. Every failure mode ends with a
// visible assistant notice in the transcript; nothing escapes uncaught, so
// the session always survives a bad turn.
func (p *Pipeline) SubmitAudio(ctx context.Context, input AudioInput, log *Log) Result {
	if !input.valid {
		return p.notice(log, noticeInvalidAudio)
	}

	clip, err := os.Open(input.path)
	if err != nil {
		p.logger.Error("open audio clip", "path", input.path, "error", err)
		return p.notice(log, fmt.Sprintf("Error processing audio: %v", err))
	}
	defer clip.Close()

	transcript, err := p.stt.Transcribe(ctx, clip, p.sttOpts)
	if err != nil {
		switch core.TypeOf(err) {
		case core.ErrUnintelligible:
			return p.notice(log, noticeUnintelligible)
		case core.ErrSTTUnavailable:
			return p.notice(log, "Speech recognition request failed: "+errDetail(err))
		default:
			p.logger.Error("transcribe", "error", err)
			return p.notice(log, "Error processing audio: "+errDetail(err))
		}
	}

	return p.respond(ctx, transcript.Text, log)
}

// respond is the shared success path: generate a reply, commit the
// exchange to the transcript, then voice the reply. The user turn is only
// appended together with its assistant turn, so a generation failure never
// leaves a dangling half-written exchange.
func (p *Pipeline) respond(ctx context.Context, utterance string, log *Log) Result {
	reply, err := p.generator.Generate(ctx, p.persona, utterance)
	if err != nil {
		p.logger.Error("generate response", "provider", p.generator.Name(), "error", err)
		return p.notice(log, "Response generation failed: "+errDetail(err))
	}

	log.Append(types.UserTurn(utterance))
	log.Append(types.AssistantTurn(reply))

	artifact, err := p.voiceReply(ctx, reply)
	if err != nil {
		// The exchange already happened; losing the audio rendering is not
		// a reason to discard the reply text.
		p.logger.Error("synthesize reply", "error", err)
		return Result{
			Transcript: log.Snapshot(),
			Status:     "Speech synthesis failed: " + errDetail(err),
		}
	}

	return Result{Transcript: log.Snapshot(), Audio: artifact}
}

func (p *Pipeline) voiceReply(ctx context.Context, reply string) (*voice.Artifact, error) {
	synth, err := p.tts.Synthesize(ctx, reply, p.synthOpts)
	if err != nil {
		return nil, err
	}
	artifact, err := p.artifacts.Save(synth.Audio, synth.Format)
	if err != nil {
		return nil, core.NewSynthesisError(err.Error(), err)
	}
	return artifact, nil
}

// notice appends a single assistant turn carrying a failure message.
func (p *Pipeline) notice(log *Log, message string) Result {
	log.Append(types.AssistantTurn(message))
	return Result{Transcript: log.Snapshot()}
}

// errDetail prefers the canonical error message over the type-prefixed
// rendering of core.Error, keeping transcript notices readable.
func errDetail(err error) string {
	var coreErr *core.Error
	if errors.As(err, &coreErr) && coreErr != nil {
		return coreErr.Message
	}
	return err.Error()
}
