// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/Nagaurav/MockInterview1/internal/app"
	"github.com/Nagaurav/MockInterview1/internal/adapters/recordstore"
	"github.com/Nagaurav/MockInterview1/internal/domain/model"
	"github.com/Nagaurav/MockInterview1/internal/domain/session"
)

// SessionDependencies defines the interface for session processing dependencies
type SessionDependencies interface {
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)
	AnalyzeSession(ctx context.Context, req service.SessionRequest) (model.FeedbackBundle, error)
}

// SessionsHandler handles session analysis requests
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandlePostSession handles POST /sessions requests
func (h *SessionsHandler) HandlePostSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.RequestID) {
		writeJSON(w, http.StatusOK, sessionResponse{Status: "duplicate", Duplicate: true})
		return
	}

	frame, _ := base64.StdEncoding.DecodeString(req.Frame) // validated above

	bundle, err := h.deps.AnalyzeSession(r.Context(), service.SessionRequest{
		RequestID:   req.RequestID,
		InterviewID: req.InterviewID,
		UserID:      req.UserID,
		Type:        req.Type,
		Duration:    req.Duration,
		Frame:       frame,
		Audio:       req.Audio,
	})
	if err != nil {
		// Roll back the "seen" status so the client can retry or retake.
		h.deps.Unrecord(r.Context(), req.RequestID)
		switch {
		case errors.Is(err, session.ErrNoDetection):
			writeError(w, http.StatusUnprocessableEntity, "no_detection", WrapKind(op, ErrNoDetection, err))
		case errors.Is(err, recordstore.ErrUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", WrapKind(op, ErrUnavailable, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Status:     "analyzed",
		Duplicate:  false,
		BundleID:   bundle.ID,
		Interview:  bundle.InterviewID,
		Scores:     scoresByName(bundle.Scores),
		Feedback:   bundle.Feedback,
		Transcript: bundle.Transcript,
	})
}
