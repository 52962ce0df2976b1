// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Nagaurav/MockInterview1/internal/domain/model"
)

// AnalyticsDependencies defines the interface for analytics queries
type AnalyticsDependencies interface {
	Analytics(ctx context.Context, userID string, windowDays int) (model.AnalyticsSnapshot, error)
}

// AnalyticsHandler handles analytics snapshot requests
type AnalyticsHandler struct {
	deps          AnalyticsDependencies
	maxWindowDays int
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(deps AnalyticsDependencies, maxWindowDays int) *AnalyticsHandler {
	return &AnalyticsHandler{
		deps:          deps,
		maxWindowDays: maxWindowDays,
	}
}

// HandleGetAnalytics handles GET /analytics?user_id=U&days=N requests
func (h *AnalyticsHandler) HandleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_analytics"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, days, ok := analyticsQuery(w, r, op, h.maxWindowDays)
	if !ok {
		return
	}
	snapshot, err := h.deps.Analytics(r.Context(), userID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// analyticsQuery validates the shared user_id/days query parameters. It
// writes the error response itself and reports ok=false on rejection.
func analyticsQuery(w http.ResponseWriter, r *http.Request, op string, maxWindowDays int) (string, int, bool) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return "", 0, false
	}
	days := 0
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		n, err := strconv.Atoi(daysStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return "", 0, false
		}
		if n > maxWindowDays {
			writeError(w, http.StatusBadRequest, "window_exceeded", NewKind(op, ErrBadRequest))
			return "", 0, false
		}
		days = n
	}
	return userID, days, true
}
