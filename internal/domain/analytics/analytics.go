// Package analytics computes derived summary statistics over a user's
// interview history. Aggregate is a pure function of its input slice:
// callers pass records already filtered to the trailing window and ordered
// ascending by creation time, and identical input always yields an
// identical snapshot.
package analytics

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	model "github.com/Nagaurav/MockInterview1/internal/domain/model"
)

// Aggregation constants.
const (
	// improvementWindow is how many records each end of the history
	// contributes to the improvement rate. Windows may overlap when
	// fewer than twice this many records exist.
	improvementWindow = 5

	minutesPerHour    = 60
	secondsPerMinute  = 60
	percentage        = 100
	minRecordsForRate = 2
)

// durationPattern matches the stored "H:MM:SS" duration strings.
var durationPattern = regexp.MustCompile(`(\d+):(\d+):(\d+)`)

// Aggregate recomputes the full snapshot from scratch. It never mutates
// records and tolerates missing scores and malformed durations.
func Aggregate(records []model.Record, skills []model.SkillDefinition, windowDays int, now time.Time) model.AnalyticsSnapshot {
	return model.AnalyticsSnapshot{
		TotalInterviews:      len(records),
		AverageScore:         averageScore(records),
		TotalDurationMinutes: totalDurationMinutes(records),
		ImprovementRate:      improvementRate(records),
		PerformanceByType:    performanceByType(records),
		ScoreHistory:         scoreHistory(records),
		SkillsDistribution:   skillsDistribution(records, skills),
		WindowDays:           windowDays,
		GeneratedAt:          now,
	}
}

// averageScore is the mean of present scores, or 0 when none are present.
func averageScore(records []model.Record) float64 {
	var sum float64
	var n int
	for _, r := range records {
		if r.Interview.Score == nil {
			continue
		}
		sum += *r.Interview.Score
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// totalDurationMinutes sums parsed durations. Unparsable strings
// contribute zero rather than aborting the aggregation.
func totalDurationMinutes(records []model.Record) float64 {
	var total float64
	for _, r := range records {
		total += ParseDurationMinutes(r.Interview.Duration)
	}
	return total
}

// ParseDurationMinutes converts an "H:MM:SS" string to minutes.
// Malformed input yields 0.
func ParseDurationMinutes(d string) float64 {
	m := durationPattern.FindStringSubmatch(d)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	return float64(hours)*minutesPerHour + float64(minutes) + float64(seconds)/secondsPerMinute
}

// improvementRate compares the mean of the first records against the mean
// of the last ones. Missing scores count as zero inside the windows. A
// zero first-window average yields 0 rather than dividing by zero.
func improvementRate(records []model.Record) float64 {
	if len(records) < minRecordsForRate {
		return 0
	}
	first := records
	if len(first) > improvementWindow {
		first = records[:improvementWindow]
	}
	last := records
	if len(last) > improvementWindow {
		last = records[len(records)-improvementWindow:]
	}

	firstAvg := windowMean(first)
	lastAvg := windowMean(last)
	if firstAvg == 0 {
		return 0
	}
	return (lastAvg - firstAvg) / firstAvg * percentage
}

func windowMean(records []model.Record) float64 {
	var sum float64
	for _, r := range records {
		if r.Interview.Score != nil {
			sum += *r.Interview.Score
		}
	}
	return sum / float64(len(records))
}

// performanceByType groups scored records by interview type and takes the
// per-type mean. Unscored records are excluded entirely.
func performanceByType(records []model.Record) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range records {
		if r.Interview.Score == nil {
			continue
		}
		sums[r.Interview.Type] += *r.Interview.Score
		counts[r.Interview.Type]++
	}
	out := make(map[string]float64, len(sums))
	for t, sum := range sums {
		out[t] = sum / float64(counts[t])
	}
	return out
}

// scoreHistory emits one point per record in input order, with missing
// scores defaulting to zero. Same-day entries are not merged.
func scoreHistory(records []model.Record) []model.ScorePoint {
	out := make([]model.ScorePoint, len(records))
	for i, r := range records {
		var score float64
		if r.Interview.Score != nil {
			score = *r.Interview.Score
		}
		out[i] = model.ScorePoint{Date: r.Interview.CreatedAt, Score: score}
	}
	return out
}

// skillsDistribution accumulates every present contributing kind across
// every bundle of every record. The final value divides by
// count x len(kinds): a sparsely populated kind drags the skill down
// instead of being averaged away. That divisor is a deliberate product
// choice and is preserved exactly.
func skillsDistribution(records []model.Record, skills []model.SkillDefinition) []model.SkillValue {
	out := make([]model.SkillValue, 0, len(skills))
	for _, skill := range skills {
		var sum float64
		var count int
		for _, r := range records {
			for _, bundle := range r.Feedback {
				for _, kind := range skill.Kinds {
					if v, ok := bundle.Score(kind); ok {
						sum += v
						count++
					}
				}
			}
		}
		var value float64
		if count > 0 {
			value = sum / (float64(count) * float64(len(skill.Kinds)))
		}
		out = append(out, model.SkillValue{Name: skill.Name, Value: value})
	}
	return out
}

// SortRecordsAscending orders records by creation time ascending, the
// order Aggregate expects. Stores already return this order; the helper
// exists for callers assembling records by hand.
func SortRecordsAscending(records []model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Interview.CreatedAt.Before(records[j].Interview.CreatedAt)
	})
}
