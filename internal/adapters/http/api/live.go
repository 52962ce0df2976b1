// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Nagaurav/MockInterview1/internal/domain/model"
)

// LiveDependencies defines the interface for live analytics subscriptions.
type LiveDependencies interface {
	WatchAnalytics(ctx context.Context, userID string, windowDays int) (<-chan model.AnalyticsSnapshot, error)
}

// LiveHandler streams analytics snapshots over Server-Sent Events.
type LiveHandler struct {
	deps          LiveDependencies
	maxWindowDays int
}

// NewLiveHandler creates a new live analytics handler.
func NewLiveHandler(deps LiveDependencies, maxWindowDays int) *LiveHandler {
	return &LiveHandler{
		deps:          deps,
		maxWindowDays: maxWindowDays,
	}
}

// HandleLive handles GET /analytics/live?user_id=U&days=N requests. The
// response is an SSE stream: one event per recomputed snapshot, starting
// with the current state, until the client disconnects.
func (h *LiveHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	const op = "api.live_analytics"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, days, ok := analyticsQuery(w, r, op, h.maxWindowDays)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", NewKind(op, ErrUnavailable))
		return
	}

	snapshots, err := h.deps.WatchAnalytics(r.Context(), userID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for snapshot := range snapshots {
		payload, err := json.Marshal(snapshot)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
	}
}
