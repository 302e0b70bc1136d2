// Package voice owns the synthesized-audio artifact store shared by the
// pipeline and the gateway.
package voice

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Artifact is an opaque reference to one synthesized speech clip. Each turn
// produces a fresh, uniquely named artifact; nothing is ever overwritten in
// place, so playback of a previous reply can never race a new synthesis.
// Retention and cleanup are the caller's concern.
type Artifact struct {
	ID     string `json:"id"`
	Path   string `json:"-"`
	Format string `json:"format"`
}

// ArtifactStore writes synthesized clips to uniquely named files under a
// single directory.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates the artifact directory if needed.
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "voicebot-audio")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir %q: %w", dir, err)
	}
	return &ArtifactStore{dir: dir}, nil
}

// Dir returns the artifact directory.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// Save writes one clip and returns its reference.
func (s *ArtifactStore) Save(audio []byte, format string) (*Artifact, error) {
	if format == "" {
		format = "mp3"
	}
	id := "reply-" + uuid.NewString()
	path := filepath.Join(s.dir, id+"."+format)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return nil, fmt.Errorf("write artifact %q: %w", path, err)
	}
	return &Artifact{ID: id, Path: path, Format: format}, nil
}

// Open resolves an artifact ID back to its file path. IDs come from
// clients, so anything that does not look like an ID we issued is rejected
// before touching the filesystem.
func (s *ArtifactStore) Open(id string) (string, error) {
	if !validArtifactID(id) {
		return "", fmt.Errorf("invalid artifact id %q", id)
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, id+".*"))
	if err != nil {
		return "", fmt.Errorf("lookup artifact %q: %w", id, err)
	}
	if len(matches) == 0 {
		return "", os.ErrNotExist
	}
	return matches[0], nil
}

func validArtifactID(id string) bool {
	if !strings.HasPrefix(id, "reply-") {
		return false
	}
	_, err := uuid.Parse(strings.TrimPrefix(id, "reply-"))
	return err == nil
}
