// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/Nagaurav/MockInterview1/internal/app"
	"github.com/Nagaurav/MockInterview1/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SeenAndRecord atomically checks and records a request id; Unrecord
	// rolls the id back so a failed request can be retried.
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)

	// AnalyzeSession turns one session's raw signal into a stored bundle.
	AnalyzeSession(ctx context.Context, req service.SessionRequest) (model.FeedbackBundle, error)

	// Read operations expose aggregated analytics and raw records.
	Analytics(ctx context.Context, userID string, windowDays int) (model.AnalyticsSnapshot, error)
	Records(ctx context.Context, userID string, windowDays int) ([]model.Record, error)
	RemoveInterview(ctx context.Context, userID, interviewID string) error
	WatchAnalytics(ctx context.Context, userID string, windowDays int) (<-chan model.AnalyticsSnapshot, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	sessionsHandler   *SessionsHandler
	analyticsHandler  *AnalyticsHandler
	interviewsHandler *InterviewsHandler
	liveHandler       *LiveHandler
	dashboardHandler  *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxWindowDays int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		sessionsHandler:   NewSessionsHandler(deps),
		analyticsHandler:  NewAnalyticsHandler(deps, maxWindowDays),
		interviewsHandler: NewInterviewsHandler(deps, maxWindowDays),
		liveHandler:       NewLiveHandler(deps, maxWindowDays),
		dashboardHandler:  newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandlePostSession, "sessions"))
	mux.HandleFunc("/analytics/live", s.liveHandler.HandleLive)
	mux.HandleFunc("/analytics", MetricsMiddleware(s.analyticsHandler.HandleGetAnalytics, "analytics"))
	mux.HandleFunc("/interviews", MetricsMiddleware(s.interviewsHandler.HandleListInterviews, "interviews"))
	mux.HandleFunc("/interviews/", MetricsMiddleware(s.interviewsHandler.HandleDeleteInterview, "interviews"))
}

// sessionRequest mirrors the wire schema for POST /sessions.
type sessionRequest struct {
	RequestID   string    `json:"request_id"`
	InterviewID string    `json:"interview_id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Duration    string    `json:"duration"`
	Frame       string    `json:"frame"`
	Audio       []float64 `json:"audio"`
}

func (s sessionRequest) validate() error {
	switch {
	case strings.TrimSpace(s.RequestID) == "":
		return errors.New("missing request_id")
	case strings.TrimSpace(s.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(s.Frame) == "":
		return errors.New("missing frame")
	case len(s.Audio) == 0:
		return errors.New("missing audio")
	}
	if _, err := base64.StdEncoding.DecodeString(s.Frame); err != nil {
		return errors.New("invalid frame; must be base64")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type sessionResponse struct {
	Status     string             `json:"status"`
	Duplicate  bool               `json:"duplicate"`
	BundleID   string             `json:"bundle_id,omitempty"`
	Interview  string             `json:"interview_id,omitempty"`
	Scores     map[string]float64 `json:"scores,omitempty"`
	Feedback   []string           `json:"feedback,omitempty"`
	Transcript string             `json:"transcript,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// scoresByName flattens a score map onto wire keys.
func scoresByName(scores map[model.Kind]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for k, v := range scores {
		out[string(k)] = v
	}
	return out
}
