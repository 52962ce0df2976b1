package testsessions

import "time"

// Config holds configuration for the session load test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumSessions int           // Number of sessions to generate
	NumUsers    int           // Number of distinct users to spread sessions over
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for generated sessions
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
}

// Session represents one session payload to be submitted
type Session struct {
	RequestID   string    `json:"request_id"`
	InterviewID string    `json:"interview_id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Duration    string    `json:"duration"`
	Frame       string    `json:"frame"`
	Audio       []float64 `json:"audio"`
}

// SessionAck represents the response from session submission
type SessionAck struct {
	Status    string             `json:"status"`
	Duplicate bool               `json:"duplicate"`
	BundleID  string             `json:"bundle_id"`
	Scores    map[string]float64 `json:"scores"`
	Feedback  []string           `json:"feedback"`
}

// Snapshot mirrors the analytics snapshot returned by the service
type Snapshot struct {
	TotalInterviews      int                `json:"total_interviews"`
	AverageScore         float64            `json:"average_score"`
	TotalDurationMinutes float64            `json:"total_duration_minutes"`
	ImprovementRate      float64            `json:"improvement_rate"`
	PerformanceByType    map[string]float64 `json:"performance_by_type"`
	WindowDays           int                `json:"window_days"`
}

// Stats holds test statistics
type Stats struct {
	SessionsGenerated  int
	SessionsSubmitted  int
	SessionsAnalyzed   int
	SessionsDuplicate  int
	SessionsRejected   int
	SessionsFailed     int
	SnapshotsRetrieved int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
