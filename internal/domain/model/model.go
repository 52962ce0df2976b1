// Package model contains domain models passed between layers.
package model

import "time"

// Kind names one behavioral metric produced by the pipeline or stored
// alongside a feedback bundle.
type Kind string

// Metric kinds. The first five are produced by the extractors; the last two
// exist as nullable columns on stored bundles and only ever arrive from
// external graders.
const (
	KindEyeContact      Kind = "eye_contact_score"
	KindEngagement      Kind = "engagement_score"
	KindSpeechRate      Kind = "speech_rate"
	KindClarity         Kind = "clarity_score"
	KindConfidence      Kind = "confidence_score"
	KindResponseQuality Kind = "response_quality"
	KindAnswerStructure Kind = "answer_structure"
)

// FeedbackBundle is the complete scored outcome of one interview session.
// Scores uses key absence to represent a null column, so sparse bundles
// (e.g. ones missing response_quality) aggregate correctly. A bundle is
// immutable once built.
type FeedbackBundle struct {
	ID          string           `json:"id"`
	InterviewID string           `json:"interview_id"`
	UserID      string           `json:"user_id"`
	Scores      map[Kind]float64 `json:"scores"`
	Feedback    []string         `json:"feedback"`
	Transcript  string           `json:"transcript,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Score returns the value for kind and whether it is present.
func (b FeedbackBundle) Score(k Kind) (float64, bool) {
	v, ok := b.Scores[k]
	return v, ok
}

// Interview is the externally owned session record. The pipeline only
// writes the Score and Duration fields it computes.
type Interview struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Score     *float64  `json:"score"`
	Duration  string    `json:"duration"` // "H:MM:SS"
	CreatedAt time.Time `json:"created_at"`
}

// Record is one interview joined with its feedback bundles, as returned by
// record-store window queries.
type Record struct {
	Interview Interview        `json:"interview"`
	Feedback  []FeedbackBundle `json:"feedback"`
}

// ScorePoint is one entry in a snapshot's score history.
type ScorePoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// SkillValue is one entry in a snapshot's skills distribution.
type SkillValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// AnalyticsSnapshot is a derived aggregate over one user's interview
// history inside a trailing window. It is never persisted; every refresh
// recomputes it from scratch.
type AnalyticsSnapshot struct {
	TotalInterviews      int                `json:"total_interviews"`
	AverageScore         float64            `json:"average_score"`
	TotalDurationMinutes float64            `json:"total_duration_minutes"`
	ImprovementRate      float64            `json:"improvement_rate"`
	PerformanceByType    map[string]float64 `json:"performance_by_type"`
	ScoreHistory         []ScorePoint       `json:"score_history"`
	SkillsDistribution   []SkillValue       `json:"skills_distribution"`
	WindowDays           int                `json:"window_days"`
	GeneratedAt          time.Time          `json:"generated_at"`
}

// SkillDefinition maps a named skill to the metric kinds that contribute to
// it. Contributions are unweighted; every skill has at least one kind.
type SkillDefinition struct {
	Name  string
	Kinds []Kind
}

// DefaultSkills is the skill taxonomy shown on the dashboard radar chart.
func DefaultSkills() []SkillDefinition {
	return []SkillDefinition{
		{Name: "Communication", Kinds: []Kind{KindClarity, KindSpeechRate}},
		{Name: "Confidence", Kinds: []Kind{KindConfidence}},
		{Name: "Engagement", Kinds: []Kind{KindEyeContact, KindEngagement}},
		{Name: "Technical Knowledge", Kinds: []Kind{KindResponseQuality}},
		{Name: "Structure", Kinds: []Kind{KindAnswerStructure}},
	}
}
