package handlers

import (
	"net/http"

	"github.com/Arjgorithmic/VoiceBot/pkg/core"
	"github.com/Arjgorithmic/VoiceBot/pkg/gateway/mw"
)

// NotFoundHandler answers unknown paths with the JSON error envelope
// instead of the default plain-text 404.
type NotFoundHandler struct{}

func (h NotFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID, _ := mw.RequestIDFrom(r.Context())
	writeErrorStatus(w, &core.Error{
		Type:      core.ErrInvalidRequest,
		Message:   "not found",
		RequestID: reqID,
	}, http.StatusNotFound)
}
