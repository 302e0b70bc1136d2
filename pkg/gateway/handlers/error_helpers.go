package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Arjgorithmic/VoiceBot/pkg/core"
	"github.com/Arjgorithmic/VoiceBot/pkg/gateway/apierror"
	"github.com/Arjgorithmic/VoiceBot/pkg/gateway/mw"
)

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID, _ := mw.RequestIDFrom(r.Context())
	coreErr, status := apierror.FromError(err, reqID)
	writeErrorStatus(w, coreErr, status)
}

func writeErrorStatus(w http.ResponseWriter, coreErr *core.Error, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apierror.Envelope{Error: coreErr})
}

func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	reqID, _ := mw.RequestIDFrom(r.Context())
	w.Header().Set("Allow", allow)
	writeErrorStatus(w, &core.Error{
		Type:      core.ErrInvalidRequest,
		Message:   "method not allowed",
		RequestID: reqID,
	}, http.StatusMethodNotAllowed)
}
