// Package apierror maps canonical errors to HTTP responses.
package apierror

import (
	"context"
	"errors"
	"net/http"

	"github.com/Arjgorithmic/VoiceBot/pkg/core"
)

// Envelope is the JSON error body.
type Envelope struct {
	Error *core.Error `json:"error"`
}

// FromError converts any error into a canonical error plus HTTP status.
func FromError(err error, requestID string) (*core.Error, int) {
	if err == nil {
		return nil, http.StatusOK
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &core.Error{
			Type:      core.ErrAPI,
			Message:   "request timeout",
			RequestID: requestID,
		}, http.StatusGatewayTimeout
	}
	if errors.Is(err, context.Canceled) {
		return &core.Error{
			Type:      core.ErrAPI,
			Message:   "request cancelled",
			RequestID: requestID,
		}, http.StatusRequestTimeout
	}

	var coreErr *core.Error
	if errors.As(err, &coreErr) && coreErr != nil {
		out := *coreErr
		out.RequestID = requestID
		return &out, StatusFromType(coreErr.Type)
	}

	// Unknown errors: treat as internal and do not leak details.
	return &core.Error{
		Type:      core.ErrAPI,
		Message:   "internal error",
		RequestID: requestID,
	}, http.StatusInternalServerError
}

// StatusFromType picks the HTTP status for a canonical error type.
func StatusFromType(t core.ErrorType) int {
	switch t {
	case core.ErrInvalidRequest:
		return http.StatusBadRequest
	case core.ErrUnintelligible:
		return http.StatusUnprocessableEntity
	case core.ErrSTTUnavailable, core.ErrGeneration, core.ErrSynthesis:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
