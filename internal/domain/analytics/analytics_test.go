package analytics_test

import (
	"testing"
	"time"

	analytics "github.com/Nagaurav/MockInterview1/internal/domain/analytics"
	model "github.com/Nagaurav/MockInterview1/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func scored(id, typ string, score float64, day int) model.Record {
	s := score
	return model.Record{Interview: model.Interview{
		ID:        id,
		Type:      typ,
		Score:     &s,
		Duration:  "0:10:00",
		CreatedAt: time.Date(2026, 8, day, 12, 0, 0, 0, time.UTC),
	}}
}

func TestAggregateBasics(t *testing.T) {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	skills := model.DefaultSkills()

	Convey("Given three scored interviews spanning a ten-day window", t, func() {
		records := []model.Record{
			scored("a", "technical", 60, 1),
			scored("b", "technical", 75, 5),
			scored("c", "behavioral", 90, 10),
		}

		snap := analytics.Aggregate(records, skills, 10, now)

		Convey("Then the headline stats are correct", func() {
			So(snap.TotalInterviews, ShouldEqual, 3)
			So(snap.AverageScore, ShouldAlmostEqual, 75, 1e-9)
			So(snap.TotalDurationMinutes, ShouldAlmostEqual, 30, 1e-9)
			So(snap.WindowDays, ShouldEqual, 10)
		})

		Convey("Then the score history preserves ascending input order", func() {
			So(snap.ScoreHistory, ShouldHaveLength, 3)
			So(snap.ScoreHistory[0].Score, ShouldEqual, 60)
			So(snap.ScoreHistory[2].Score, ShouldEqual, 90)
			So(snap.ScoreHistory[0].Date.Before(snap.ScoreHistory[1].Date), ShouldBeTrue)
			So(snap.ScoreHistory[1].Date.Before(snap.ScoreHistory[2].Date), ShouldBeTrue)
		})

		Convey("Then performance is grouped by type", func() {
			So(snap.PerformanceByType["technical"], ShouldAlmostEqual, 67.5, 1e-9)
			So(snap.PerformanceByType["behavioral"], ShouldAlmostEqual, 90, 1e-9)
		})

		Convey("Then aggregation is pure and idempotent", func() {
			again := analytics.Aggregate(records, skills, 10, now)
			So(again, ShouldResemble, snap)
		})
	})

	Convey("Given no records", t, func() {
		snap := analytics.Aggregate(nil, skills, 30, now)

		Convey("Then every stat is a zero value, never NaN", func() {
			So(snap.TotalInterviews, ShouldEqual, 0)
			So(snap.AverageScore, ShouldEqual, 0)
			So(snap.ImprovementRate, ShouldEqual, 0)
			So(snap.ScoreHistory, ShouldBeEmpty)
			So(snap.SkillsDistribution, ShouldHaveLength, len(skills))
			for _, sv := range snap.SkillsDistribution {
				So(sv.Value, ShouldEqual, 0)
			}
		})
	})
}

func TestImprovementRate(t *testing.T) {
	now := time.Now()

	Convey("Given exactly two records scoring 50 then 70", t, func() {
		records := []model.Record{
			scored("a", "technical", 50, 1),
			scored("b", "technical", 70, 2),
		}

		Convey("Then the overlapping windows give a 40 percent rate", func() {
			snap := analytics.Aggregate(records, nil, 30, now)
			So(snap.ImprovementRate, ShouldAlmostEqual, 40, 1e-9)
		})
	})

	Convey("Given a single record", t, func() {
		snap := analytics.Aggregate([]model.Record{scored("a", "technical", 80, 1)}, nil, 30, now)
		So(snap.ImprovementRate, ShouldEqual, 0)
	})

	Convey("Given a zero first-window average", t, func() {
		records := []model.Record{
			scored("a", "technical", 0, 1),
			scored("b", "technical", 70, 2),
		}

		Convey("Then the rate is 0 rather than infinite", func() {
			// First window covers both records: mean 35, nonzero. Force a
			// true zero base with two unscored leading records.
			records[0].Interview.Score = nil
			records[1].Interview.Score = nil
			snap := analytics.Aggregate(records, nil, 30, now)
			So(snap.ImprovementRate, ShouldEqual, 0)
		})
	})

	Convey("Given more than ten records", t, func() {
		records := make([]model.Record, 0, 12)
		for i := 0; i < 12; i++ {
			records = append(records, scored("x", "technical", float64(40+5*i), i+1))
		}

		Convey("Then only the first and last five contribute", func() {
			snap := analytics.Aggregate(records, nil, 30, now)
			// first five mean 50, last five mean 85.
			So(snap.ImprovementRate, ShouldAlmostEqual, 70, 1e-9)
		})
	})
}

func TestDurationParsing(t *testing.T) {
	Convey("Given duration strings", t, func() {
		Convey("Then H:MM:SS parses to minutes", func() {
			So(analytics.ParseDurationMinutes("1:02:30"), ShouldAlmostEqual, 62.5, 1e-9)
			So(analytics.ParseDurationMinutes("0:00:30"), ShouldAlmostEqual, 0.5, 1e-9)
		})

		Convey("Then garbage contributes zero without failing", func() {
			So(analytics.ParseDurationMinutes("garbage"), ShouldEqual, 0)
			So(analytics.ParseDurationMinutes(""), ShouldEqual, 0)
			So(analytics.ParseDurationMinutes("12:34"), ShouldEqual, 0)
		})

		Convey("Then a mix of good and bad durations sums the good ones", func() {
			records := []model.Record{
				scored("a", "technical", 50, 1),
				scored("b", "technical", 60, 2),
			}
			records[1].Interview.Duration = "not-a-duration"
			snap := analytics.Aggregate(records, nil, 30, time.Now())
			So(snap.TotalDurationMinutes, ShouldAlmostEqual, 10, 1e-9)
		})
	})
}

func TestSkillsDistribution(t *testing.T) {
	Convey("Given one skill backed by two metric kinds", t, func() {
		skills := []model.SkillDefinition{
			{Name: "Communication", Kinds: []model.Kind{model.KindClarity, model.KindSpeechRate}},
		}

		Convey("When only one kind is populated in a single bundle", func() {
			rec := scored("a", "technical", 70, 1)
			rec.Feedback = []model.FeedbackBundle{{
				Scores: map[model.Kind]float64{model.KindClarity: 80},
			}}

			Convey("Then the documented divisor halves the lone value", func() {
				snap := analytics.Aggregate([]model.Record{rec}, skills, 30, time.Now())
				So(snap.SkillsDistribution, ShouldHaveLength, 1)
				So(snap.SkillsDistribution[0].Name, ShouldEqual, "Communication")
				So(snap.SkillsDistribution[0].Value, ShouldAlmostEqual, 40, 1e-9)
			})
		})

		Convey("When both kinds are populated across two bundles", func() {
			rec := scored("a", "technical", 70, 1)
			rec.Feedback = []model.FeedbackBundle{
				{Scores: map[model.Kind]float64{model.KindClarity: 80, model.KindSpeechRate: 60}},
				{Scores: map[model.Kind]float64{model.KindClarity: 100}},
			}

			Convey("Then sums and counts span every bundle", func() {
				snap := analytics.Aggregate([]model.Record{rec}, skills, 30, time.Now())
				// (80+60+100) / (3 * 2) = 40
				So(snap.SkillsDistribution[0].Value, ShouldAlmostEqual, 40, 1e-9)
			})
		})

		Convey("When no bundle carries either kind", func() {
			rec := scored("a", "technical", 70, 1)
			snap := analytics.Aggregate([]model.Record{rec}, skills, 30, time.Now())
			So(snap.SkillsDistribution[0].Value, ShouldEqual, 0)
		})
	})
}

func TestSortRecordsAscending(t *testing.T) {
	Convey("Given records out of order", t, func() {
		records := []model.Record{
			scored("b", "technical", 70, 9),
			scored("a", "technical", 50, 2),
			scored("c", "technical", 90, 5),
		}

		Convey("Then sorting restores ascending creation time", func() {
			analytics.SortRecordsAscending(records)
			So(records[0].Interview.ID, ShouldEqual, "a")
			So(records[1].Interview.ID, ShouldEqual, "c")
			So(records[2].Interview.ID, ShouldEqual, "b")
		})
	})
}
