// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"io/fs"
	"net/http"
	"time"
)

// dashboardHandler handles dashboard requests
type dashboardHandler struct{}

// newdashboardHandler creates a new dashboard handler
func newdashboardHandler() *dashboardHandler {
	return &dashboardHandler{}
}

// HandleDashboard handles GET /dashboard requests
// Returns an HTML page that polls /analytics and /stats to visualize a
// user's interview progress.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	// Serve embedded dashboard page
	data, err := fs.ReadFile(dashboardFS, "dashboard.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, "dashboard.html", time.Time{}, bytes.NewReader(data))
}
