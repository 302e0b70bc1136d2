// Package config loads gateway and pipeline configuration from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Generator provider names accepted by VOICEBOT_GENERATOR.
const (
	GeneratorOpenAI = "openai"
	GeneratorGemini = "gemini"
)

type Config struct {
	Addr string

	// Response generation.
	Generator      string // "openai" or "gemini"
	GeneratorModel string // empty => provider default
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	GeminiAPIKey   string

	// Speech recognition.
	STTBaseURL string
	STTModel   string

	// Speech synthesis.
	TTSBaseURL string
	TTSModel   string
	Voice      string
	SpeechRate float64

	// Shared language setting for recognition and synthesis.
	Language string

	// Persona: inline prompt wins over file.
	Persona     string
	PersonaFile string

	// Where synthesized reply clips are written.
	ArtifactDir string

	// Request-shape limits.
	MaxBodyBytes int64
	MaxClipBytes int64

	// CORS (empty => disabled).
	CORSAllowedOrigins map[string]struct{}

	// Operational defaults.
	ReadHeaderTimeout   time.Duration
	ReadTimeout         time.Duration
	ShutdownGracePeriod time.Duration

	// Optional cap on one turn's adapter chain. Zero means no timeout:
	// a hung upstream call hangs the turn, not the process.
	TurnTimeout time.Duration

	// Live feed keepalive.
	LiveWSPingInterval time.Duration
}

// LoadFromEnv builds a Config from VOICEBOT_* environment variables.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                envOr("VOICEBOT_ADDR", ":8080"),
		Generator:           envOr("VOICEBOT_GENERATOR", GeneratorOpenAI),
		GeneratorModel:      os.Getenv("VOICEBOT_GENERATOR_MODEL"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:       os.Getenv("VOICEBOT_OPENAI_BASE_URL"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		STTBaseURL:          os.Getenv("VOICEBOT_STT_BASE_URL"),
		STTModel:            os.Getenv("VOICEBOT_STT_MODEL"),
		TTSBaseURL:          os.Getenv("VOICEBOT_TTS_BASE_URL"),
		TTSModel:            os.Getenv("VOICEBOT_TTS_MODEL"),
		Voice:               os.Getenv("VOICEBOT_VOICE"),
		SpeechRate:          envFloat64Or("VOICEBOT_SPEECH_RATE", 1.0),
		Language:            envOr("VOICEBOT_LANGUAGE", "en"),
		Persona:             os.Getenv("VOICEBOT_PERSONA"),
		PersonaFile:         os.Getenv("VOICEBOT_PERSONA_FILE"),
		ArtifactDir:         os.Getenv("VOICEBOT_ARTIFACT_DIR"),
		MaxBodyBytes:        envInt64Or("VOICEBOT_MAX_BODY_BYTES", 64<<10),  // 64 KiB
		MaxClipBytes:        envInt64Or("VOICEBOT_MAX_CLIP_BYTES", 16<<20), // 16 MiB
		CORSAllowedOrigins:  make(map[string]struct{}),
		ReadHeaderTimeout:   envDurationOr("VOICEBOT_READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:         envDurationOr("VOICEBOT_READ_TIMEOUT", 60*time.Second),
		ShutdownGracePeriod: envDurationOr("VOICEBOT_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
		TurnTimeout:         envDurationOr("VOICEBOT_TURN_TIMEOUT", 0),
		LiveWSPingInterval:  envDurationOr("VOICEBOT_LIVE_WS_PING_INTERVAL", 20*time.Second),
	}

	switch cfg.Generator {
	case GeneratorOpenAI, GeneratorGemini:
	default:
		return Config{}, fmt.Errorf("VOICEBOT_GENERATOR must be one of %s|%s", GeneratorOpenAI, GeneratorGemini)
	}

	for _, origin := range splitCSV(os.Getenv("VOICEBOT_CORS_ORIGINS")) {
		cfg.CORSAllowedOrigins[origin] = struct{}{}
	}

	return cfg, nil
}

// PersonaPrompt resolves the configured persona text. Inline text wins;
// otherwise the persona file is read. Empty means "use the default".
func (c Config) PersonaPrompt() (string, error) {
	if strings.TrimSpace(c.Persona) != "" {
		return c.Persona, nil
	}
	if c.PersonaFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.PersonaFile)
	if err != nil {
		return "", fmt.Errorf("read persona file %q: %w", c.PersonaFile, err)
	}
	return string(data), nil
}

// Issues reports configuration problems a deployment should fix before
// serving traffic. Used by the readiness endpoint.
func (c Config) Issues() []string {
	issues := make([]string, 0, 4)

	switch c.Generator {
	case GeneratorOpenAI:
		if c.OpenAIAPIKey == "" {
			issues = append(issues, "generator=openai but OPENAI_API_KEY is empty")
		}
	case GeneratorGemini:
		if c.GeminiAPIKey == "" {
			issues = append(issues, "generator=gemini but GEMINI_API_KEY is empty")
		}
	default:
		issues = append(issues, "invalid generator")
	}

	// The whisper STT and speech TTS adapters ride on the OpenAI key
	// unless pointed at compatible self-hosted endpoints.
	if c.OpenAIAPIKey == "" && (c.STTBaseURL == "" || c.TTSBaseURL == "") {
		issues = append(issues, "speech endpoints need OPENAI_API_KEY or VOICEBOT_STT_BASE_URL/VOICEBOT_TTS_BASE_URL")
	}

	if c.MaxBodyBytes <= 0 {
		issues = append(issues, "max_body_bytes must be > 0")
	}
	if c.MaxClipBytes <= 0 {
		issues = append(issues, "max_clip_bytes must be > 0")
	}
	if c.SpeechRate < 0.25 || c.SpeechRate > 4.0 {
		issues = append(issues, "speech_rate must be in [0.25, 4.0]")
	}
	if c.ReadHeaderTimeout <= 0 || c.ReadTimeout <= 0 {
		issues = append(issues, "timeouts must be > 0")
	}

	return issues
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt64Or(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envFloat64Or(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envDurationOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
