package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Arjgorithmic/VoiceBot/internal/dotenv"
	"github.com/Arjgorithmic/VoiceBot/pkg/core"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/convo"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/providers/gemini"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/providers/openai"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/voice"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/voice/stt"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/voice/tts"
	"github.com/Arjgorithmic/VoiceBot/pkg/gateway/config"
	"github.com/Arjgorithmic/VoiceBot/pkg/gateway/server"
	"github.com/Arjgorithmic/VoiceBot/pkg/gateway/session"
)

func buildGenerator(ctx context.Context, cfg config.Config) (core.Generator, error) {
	switch cfg.Generator {
	case config.GeneratorOpenAI:
		opts := []openai.Option{}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		if cfg.GeneratorModel != "" {
			opts = append(opts, openai.WithModel(cfg.GeneratorModel))
		}
		return openai.New(cfg.OpenAIAPIKey, opts...), nil
	case config.GeneratorGemini:
		opts := []gemini.Option{}
		if cfg.GeneratorModel != "" {
			opts = append(opts, gemini.WithModel(cfg.GeneratorModel))
		}
		return gemini.New(ctx, cfg.GeminiAPIKey, opts...)
	default:
		return nil, fmt.Errorf("unknown generator %q", cfg.Generator)
	}
}

func buildPipeline(ctx context.Context, cfg config.Config, logger *slog.Logger) (*convo.Pipeline, *voice.ArtifactStore, error) {
	generator, err := buildGenerator(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("build generator: %w", err)
	}

	personaPrompt, err := cfg.PersonaPrompt()
	if err != nil {
		return nil, nil, err
	}

	sttOpts := []stt.Option{}
	if cfg.STTBaseURL != "" {
		sttOpts = append(sttOpts, stt.WithBaseURL(cfg.STTBaseURL))
	}

	ttsOpts := []tts.Option{}
	if cfg.TTSBaseURL != "" {
		ttsOpts = append(ttsOpts, tts.WithBaseURL(cfg.TTSBaseURL))
	}
	if cfg.TTSModel != "" {
		ttsOpts = append(ttsOpts, tts.WithModel(cfg.TTSModel))
	}

	artifacts, err := voice.NewArtifactStore(cfg.ArtifactDir)
	if err != nil {
		return nil, nil, err
	}

	pipeline, err := convo.NewPipeline(convo.Config{
		Persona:   core.NewPersona(personaPrompt),
		Generator: generator,
		STT:       stt.NewWhisper(cfg.OpenAIAPIKey, sttOpts...),
		TTS:       tts.NewOpenAI(cfg.OpenAIAPIKey, ttsOpts...),
		Artifacts: artifacts,
		TranscribeOpts: stt.TranscribeOptions{
			Model:    cfg.STTModel,
			Language: cfg.Language,
		},
		SynthesizeOpts: tts.SynthesizeOptions{
			Voice:    cfg.Voice,
			Language: cfg.Language,
			Speed:    cfg.SpeechRate,
			Format:   "mp3",
		},
		Logger: logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return pipeline, artifacts, nil
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pipeline, artifacts, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	sess := session.New(pipeline, cfg.TurnTimeout)
	gw := server.New(cfg, sess, artifacts, logger)

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           gw.Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
	}

	logger.Info("starting voicebot gateway",
		"addr", cfg.Addr,
		"generator", cfg.Generator,
		"artifact_dir", artifacts.Dir(),
	)

	listenErrCh := make(chan error, 1)
	go func() {
		err := httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErrCh <- err
			return
		}
		listenErrCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-listenErrCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	gw.CloseLiveFeed()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	if err := <-listenErrCh; err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info("voicebot gateway stopped")
	return nil
}

func runMain(ctx context.Context, stderr io.Writer) int {
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	if err := dotenv.LoadFile(".env"); err != nil {
		fmt.Fprintf(stderr, "voicebot: %v\n", err)
		return 1
	}

	if err := run(ctx, logger); err != nil {
		fmt.Fprintf(stderr, "voicebot: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(runMain(context.Background(), os.Stderr))
}
