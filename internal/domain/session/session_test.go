package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	feedback "github.com/Nagaurav/MockInterview1/internal/domain/feedback"
	model "github.com/Nagaurav/MockInterview1/internal/domain/model"
	session "github.com/Nagaurav/MockInterview1/internal/domain/session"
	perception "github.com/Nagaurav/MockInterview1/internal/perception"
	. "github.com/smartystreets/goconvey/convey"
)

func fastProvider(opts ...perception.SimOption) *perception.SimProvider {
	base := []perception.SimOption{
		perception.WithLatencyRange(time.Millisecond, 2*time.Millisecond),
	}
	return perception.NewSimProvider(append(base, opts...)...)
}

func waveform(n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		if i%3 == 0 {
			samples[i] = -0.4
		} else {
			samples[i] = 0.6
		}
	}
	return samples
}

func TestAnalyzeSuccess(t *testing.T) {
	Convey("Given an analyzer over a working provider", t, func() {
		fixed := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
		analyzer := session.NewAnalyzer(fastProvider(), feedback.New(),
			session.WithClock(func() time.Time { return fixed }),
		)

		in := session.Input{
			InterviewID: "interview-1",
			UserID:      "user-1",
			Frame:       []byte("frame-bytes"),
			Audio:       waveform(2048),
		}

		Convey("When analyzing a complete session", func() {
			bundle, err := analyzer.Analyze(context.Background(), in)
			So(err, ShouldBeNil)

			Convey("Then the bundle carries all five metric scores", func() {
				So(bundle.ID, ShouldNotBeEmpty)
				So(bundle.InterviewID, ShouldEqual, "interview-1")
				So(bundle.UserID, ShouldEqual, "user-1")
				So(bundle.CreatedAt.Equal(fixed), ShouldBeTrue)
				So(bundle.Transcript, ShouldNotBeEmpty)
				for _, kind := range []model.Kind{
					model.KindEyeContact, model.KindEngagement,
					model.KindSpeechRate, model.KindClarity, model.KindConfidence,
				} {
					v, ok := bundle.Score(kind)
					So(ok, ShouldBeTrue)
					So(v, ShouldBeBetweenOrEqual, 0, 100)
				}
			})

			Convey("Then kinds the pipeline never produces stay absent", func() {
				_, ok := bundle.Score(model.KindResponseQuality)
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestAnalyzeFailures(t *testing.T) {
	Convey("Given a session analyzer", t, func() {
		Convey("When the provider finds no face", func() {
			analyzer := session.NewAnalyzer(fastProvider(perception.WithNoDetection()), feedback.New())
			_, err := analyzer.Analyze(context.Background(), session.Input{
				Frame: []byte("frame"),
				Audio: waveform(512),
			})

			Convey("Then the failure names the face path and no-detection", func() {
				So(errors.Is(err, session.ErrNoDetection), ShouldBeTrue)
				var ae *session.AnalysisError
				So(errors.As(err, &ae), ShouldBeTrue)
				So(ae.Path, ShouldEqual, "face")
			})
		})

		Convey("When the audio clip is empty", func() {
			analyzer := session.NewAnalyzer(fastProvider(), feedback.New())
			_, err := analyzer.Analyze(context.Background(), session.Input{
				Frame: []byte("frame"),
				Audio: nil,
			})

			Convey("Then the failure names the audio path", func() {
				So(errors.Is(err, session.ErrNoDetection), ShouldBeTrue)
				var ae *session.AnalysisError
				So(errors.As(err, &ae), ShouldBeTrue)
				So(ae.Path, ShouldEqual, "audio")
			})
		})

		Convey("When the provider is slower than the timeout", func() {
			slow := perception.NewSimProvider(
				perception.WithLatencyRange(200*time.Millisecond, 400*time.Millisecond),
			)
			analyzer := session.NewAnalyzer(slow, feedback.New(),
				session.WithTimeout(10*time.Millisecond),
			)
			_, err := analyzer.Analyze(context.Background(), session.Input{
				Frame: []byte("frame"),
				Audio: waveform(512),
			})

			Convey("Then the timeout surfaces as no-detection", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, session.ErrNoDetection), ShouldBeTrue)
			})
		})
	})
}

func TestAnalyzeConcurrency(t *testing.T) {
	Convey("Given a provider with measurable latency", t, func() {
		perCall := 50 * time.Millisecond
		provider := perception.NewSimProvider(
			perception.WithLatencyRange(perCall, perCall+time.Millisecond),
		)
		analyzer := session.NewAnalyzer(provider, feedback.New())

		Convey("Then face and audio paths overlap rather than run serially", func() {
			start := time.Now()
			_, err := analyzer.Analyze(context.Background(), session.Input{
				Frame: []byte("frame"),
				Audio: waveform(1024),
			})
			elapsed := time.Since(start)
			So(err, ShouldBeNil)
			// Two serial calls would need ~2x the per-call latency.
			So(elapsed, ShouldBeLessThan, 2*perCall)
		})
	})
}
