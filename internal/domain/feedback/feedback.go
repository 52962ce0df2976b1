// Package feedback turns a bundle of metric scores into the ordered,
// human-readable coaching messages shown after a session.
package feedback

import (
	model "github.com/Nagaurav/MockInterview1/internal/domain/model"
)

// Default threshold bands.
const (
	defaultLowThreshold  = 70
	defaultHighThreshold = 90
)

// messagePair holds the two fixed templates for one metric.
type messagePair struct {
	corrective   string
	commendation string
}

// emissionOrder fixes the output order regardless of input map iteration.
var emissionOrder = []model.Kind{
	model.KindEyeContact,
	model.KindClarity,
	model.KindConfidence,
	model.KindEngagement,
}

var messages = map[model.Kind]messagePair{
	model.KindEyeContact: {
		corrective:   "Try to maintain more consistent eye contact with the camera",
		commendation: "Excellent eye contact maintained throughout",
	},
	model.KindClarity: {
		corrective:   "Consider speaking more clearly and at a moderate pace",
		commendation: "Very clear and well-paced speech",
	},
	model.KindConfidence: {
		corrective:   "Try to speak with more confidence and authority",
		commendation: "Excellent confidence level in your responses",
	},
	model.KindEngagement: {
		corrective:   "Show more enthusiasm and engagement in your responses",
		commendation: "Great level of engagement and enthusiasm",
	},
}

// Option applies a configuration option to the Synthesizer.
type Option func(*Synthesizer)

// WithThresholds overrides the corrective/commendation band edges.
func WithThresholds(low, high float64) Option {
	return func(s *Synthesizer) {
		if low > 0 && high > low {
			s.low = low
			s.high = high
		}
	}
}

// Synthesizer is a pure rule engine over metric scores. Scores below the
// low threshold earn a corrective message, scores at or above the high
// threshold a commendation, and the band between stays silent.
type Synthesizer struct {
	low  float64
	high float64
}

// New creates a Synthesizer with configuration options.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		low:  defaultLowThreshold,
		high: defaultHighThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate emits messages in the fixed order: eye contact, clarity,
// confidence, engagement. Kinds absent from scores are skipped.
func (s *Synthesizer) Generate(scores map[model.Kind]float64) []string {
	out := make([]string, 0, len(emissionOrder))
	for _, kind := range emissionOrder {
		v, ok := scores[kind]
		if !ok {
			continue
		}
		pair := messages[kind]
		switch {
		case v < s.low:
			out = append(out, pair.corrective)
		case v >= s.high:
			out = append(out, pair.commendation)
		}
	}
	return out
}
