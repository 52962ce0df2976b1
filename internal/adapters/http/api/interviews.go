// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Nagaurav/MockInterview1/internal/adapters/recordstore"
	"github.com/Nagaurav/MockInterview1/internal/domain/model"
)

// InterviewDependencies defines the interface for interview record access.
type InterviewDependencies interface {
	Records(ctx context.Context, userID string, windowDays int) ([]model.Record, error)
	RemoveInterview(ctx context.Context, userID, interviewID string) error
}

// InterviewsHandler handles interview record requests.
type InterviewsHandler struct {
	deps          InterviewDependencies
	maxWindowDays int
}

// NewInterviewsHandler creates a new interviews handler.
func NewInterviewsHandler(deps InterviewDependencies, maxWindowDays int) *InterviewsHandler {
	return &InterviewsHandler{
		deps:          deps,
		maxWindowDays: maxWindowDays,
	}
}

// HandleListInterviews handles GET /interviews?user_id=U&days=N requests.
func (h *InterviewsHandler) HandleListInterviews(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_interviews"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, days, ok := analyticsQuery(w, r, op, h.maxWindowDays)
	if !ok {
		return
	}
	records, err := h.deps.Records(r.Context(), userID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleDeleteInterview handles DELETE /interviews/{interview_id}?user_id=U requests.
func (h *InterviewsHandler) HandleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_interview"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /interviews/
	interviewID := strings.TrimPrefix(r.URL.Path, "/interviews/")
	if interviewID == "" || strings.Contains(interviewID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.RemoveInterview(r.Context(), userID, interviewID); err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "deleted"})
}
