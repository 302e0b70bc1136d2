package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Arjgorithmic/VoiceBot/pkg/core"
)

func TestOpenAISynthesize_Success(t *testing.T) {
	var gotReq speechRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", WithBaseURL(srv.URL))
	got, err := p.Synthesize(context.Background(), "Hi there", SynthesizeOptions{
		Voice: "nova",
		Speed: 1.2,
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if string(got.Audio) != "mp3-bytes" {
		t.Errorf("audio = %q", got.Audio)
	}
	if got.Format != "mp3" {
		t.Errorf("format = %q, want mp3", got.Format)
	}
	if gotReq.Model != "tts-1" || gotReq.Input != "Hi there" || gotReq.Voice != "nova" {
		t.Errorf("request = %+v", gotReq)
	}
	if gotReq.Speed != 1.2 {
		t.Errorf("speed = %v, want 1.2", gotReq.Speed)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
}

func TestOpenAISynthesize_Defaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req speechRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Voice != "alloy" {
			t.Errorf("default voice = %q, want alloy", req.Voice)
		}
		if req.ResponseFormat != "mp3" {
			t.Errorf("default format = %q, want mp3", req.ResponseFormat)
		}
		w.Write([]byte("audio"))
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", WithBaseURL(srv.URL))
	if _, err := p.Synthesize(context.Background(), "Hi", SynthesizeOptions{}); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
}

func TestOpenAISynthesize_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid voice"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", WithBaseURL(srv.URL))
	_, err := p.Synthesize(context.Background(), "Hi", SynthesizeOptions{})

	if core.TypeOf(err) != core.ErrSynthesis {
		t.Fatalf("error = %v, want synthesis_error", err)
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "invalid voice") {
		t.Errorf("error detail = %q", err.Error())
	}
}
