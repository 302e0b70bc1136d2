// Package handlers implements the gateway's HTTP endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Arjgorithmic/VoiceBot/pkg/core"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/convo"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/types"
	"github.com/Arjgorithmic/VoiceBot/pkg/core/voice"
	"github.com/Arjgorithmic/VoiceBot/pkg/gateway/session"
)

// turnResponse is the wire shape of one pipeline result.
type turnResponse struct {
	Transcript []types.Turn `json:"transcript"`
	Status     string       `json:"status"`
	Audio      *audioRef    `json:"audio"`
}

type audioRef struct {
	ID     string `json:"id"`
	Format string `json:"format"`
	URL    string `json:"url"`
}

func writeTurnResult(w http.ResponseWriter, res convo.Result) {
	resp := turnResponse{
		Transcript: res.Transcript,
		Status:     res.Status,
	}
	if res.Audio != nil {
		resp.Audio = &audioRef{
			ID:     res.Audio.ID,
			Format: res.Audio.Format,
			URL:    "/v1/audio/" + res.Audio.ID,
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// TextTurnHandler serves POST /v1/turns/text.
type TextTurnHandler struct {
	Session      *session.Session
	MaxBodyBytes int64
	Logger       *slog.Logger
}

func (h TextTurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r, http.MethodPost)
		return
	}

	body := io.Reader(r.Body)
	if h.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)
	}

	var req struct {
		Text string `json:"text"`
	}
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, core.NewInvalidRequestError("invalid request body: "+err.Error()))
		return
	}

	writeTurnResult(w, h.Session.SubmitText(r.Context(), req.Text))
}

// AudioTurnHandler serves POST /v1/turns/audio. The clip rides in a
// multipart field named "clip". Anything that fails before a usable file
// exists is the "invalid input shape" case: the pipeline records it as a
// transcript notice, and the HTTP layer still answers 200.
type AudioTurnHandler struct {
	Session      *session.Session
	MaxClipBytes int64
	Logger       *slog.Logger
}

func (h AudioTurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r, http.MethodPost)
		return
	}

	if h.MaxClipBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxClipBytes)
	}

	clip, header, err := r.FormFile("clip")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, core.NewInvalidRequestError("audio clip too large"))
			return
		}
		// Missing field, wrong content type: the boundary decides this is
		// not a valid audio handle before the pipeline sees it.
		writeTurnResult(w, h.Session.SubmitAudio(r.Context(), convo.InvalidInput()))
		return
	}
	defer clip.Close()

	path, cleanup, err := spoolClip(clip, header)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("spool audio clip", "error", err)
		}
		writeError(w, r, core.NewAPIError("could not store uploaded clip"))
		return
	}
	defer cleanup()

	writeTurnResult(w, h.Session.SubmitAudio(r.Context(), convo.ValidHandle(path)))
}

// spoolClip copies an uploaded clip to a temp file the recognizer can read.
func spoolClip(clip multipart.File, header *multipart.FileHeader) (string, func(), error) {
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".wav"
	}
	tmp, err := os.CreateTemp("", "voicebot-clip-*"+ext)
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, clip); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

// TranscriptHandler serves GET /v1/transcript.
type TranscriptHandler struct {
	Session *session.Session
}

func (h TranscriptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r, http.MethodGet)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(struct {
		Transcript []types.Turn `json:"transcript"`
	}{Transcript: h.Session.Transcript()})
}

// AudioArtifactHandler serves GET /v1/audio/{id}.
type AudioArtifactHandler struct {
	Artifacts *voice.ArtifactStore
}

func (h AudioArtifactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r, http.MethodGet)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/audio/")
	path, err := h.Artifacts.Open(id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeErrorStatus(w, &core.Error{
				Type:    core.ErrInvalidRequest,
				Message: "unknown audio artifact",
			}, http.StatusNotFound)
			return
		}
		writeError(w, r, core.NewInvalidRequestError("invalid audio artifact id"))
		return
	}

	http.ServeFile(w, r, path)
}
