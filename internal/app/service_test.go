package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/Nagaurav/MockInterview1/internal/app"
	"github.com/Nagaurav/MockInterview1/internal/domain/session"
	"github.com/Nagaurav/MockInterview1/internal/perception"
	"github.com/Nagaurav/MockInterview1/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// fastProvider keeps the simulated inference latency negligible in tests.
func fastProvider(opts ...perception.SimOption) *perception.SimProvider {
	base := []perception.SimOption{
		perception.WithLatencyRange(time.Millisecond, 2*time.Millisecond),
	}
	return perception.NewSimProvider(append(base, opts...)...)
}

func testAudio() []float64 {
	samples := make([]float64, 400)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 0.4
		} else {
			samples[i] = -0.3
		}
	}
	return samples
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWindowDays(14),
			service.WithIdempotencySize(1_000),
			service.WithAnalysisTimeout(5*time.Second),
			service.WithFeedbackThresholds(60, 85),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithProvider(fastProvider()))

		Convey("When started", func() {
			err := svc.Start(ctx)

			Convey("Then it should report started stats", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
			})

			Convey("And starting twice should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And stopping should mark it stopped", func() {
				svc.Stop()
				stats := svc.GetStats()
				So(stats["started"], ShouldBeFalse)
			})
		})

		Convey("When stopped without ever starting", func() {
			Convey("Then it should not panic", func() {
				So(svc.Stop, ShouldNotPanic)
			})
		})
	})
}

func TestService_Idempotency(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithProvider(fastProvider()))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When recording a request id twice", func() {
			first := svc.SeenAndRecord(ctx, "req-1")
			second := svc.SeenAndRecord(ctx, "req-1")

			Convey("Then only the second call should report seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(svc.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a request id is unrecorded", func() {
			So(svc.SeenAndRecord(ctx, "req-2"), ShouldBeFalse)
			svc.Unrecord(ctx, "req-2")

			Convey("Then it can be recorded again", func() {
				So(svc.SeenAndRecord(ctx, "req-2"), ShouldBeFalse)
			})
		})
	})
}

func TestService_AnalyzeSession(t *testing.T) {
	Convey("Given a started service with a simulated provider", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithProvider(fastProvider()))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a session with usable signal is analyzed", func() {
			bundle, err := svc.AnalyzeSession(ctx, service.SessionRequest{
				RequestID:   "req-1",
				InterviewID: "iv-1",
				UserID:      "user-1",
				Type:        "Technical",
				Duration:    "0:12:30",
				Frame:       []byte("frame-bytes"),
				Audio:       testAudio(),
			})

			Convey("Then it should persist the bundle and the interview", func() {
				So(err, ShouldBeNil)
				So(bundle.InterviewID, ShouldEqual, "iv-1")
				So(bundle.UserID, ShouldEqual, "user-1")
				So(len(bundle.Scores), ShouldEqual, 5)
				So(bundle.Transcript, ShouldNotBeEmpty)

				records, err := svc.Records(ctx, "user-1", 30)
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 1)
				So(records[0].Interview.ID, ShouldEqual, "iv-1")
				So(records[0].Interview.Score, ShouldNotBeNil)
				So(len(records[0].Feedback), ShouldEqual, 1)
			})
		})

		Convey("When the interview id is omitted", func() {
			bundle, err := svc.AnalyzeSession(ctx, service.SessionRequest{
				UserID: "user-2",
				Frame:  []byte("frame"),
				Audio:  testAudio(),
			})

			Convey("Then one should be generated", func() {
				So(err, ShouldBeNil)
				So(bundle.InterviewID, ShouldNotBeEmpty)
			})
		})

		Convey("When re-analyzing the same interview", func() {
			first, err := svc.AnalyzeSession(ctx, service.SessionRequest{
				InterviewID: "iv-redo",
				UserID:      "user-3",
				Type:        "Behavioral",
				Frame:       []byte("take one"),
				Audio:       testAudio(),
			})
			So(err, ShouldBeNil)

			_, err = svc.AnalyzeSession(ctx, service.SessionRequest{
				InterviewID: "iv-redo",
				UserID:      "user-3",
				Frame:       []byte("take two"),
				Audio:       testAudio(),
			})
			So(err, ShouldBeNil)

			Convey("Then the record keeps one interview with both bundles", func() {
				records, err := svc.Records(ctx, "user-3", 30)
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 1)
				So(records[0].Interview.Type, ShouldEqual, "Behavioral")
				So(records[0].Interview.CreatedAt.Equal(first.CreatedAt), ShouldBeTrue)
				So(len(records[0].Feedback), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a provider that never detects a face", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithProvider(fastProvider(perception.WithNoDetection())))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a session is analyzed", func() {
			_, err := svc.AnalyzeSession(ctx, service.SessionRequest{
				InterviewID: "iv-1",
				UserID:      "user-1",
				Frame:       []byte("frame"),
				Audio:       testAudio(),
			})

			Convey("Then it should fail with the no-detection error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, session.ErrNoDetection), ShouldBeTrue)
			})

			Convey("And nothing should be persisted", func() {
				records, err := svc.Records(ctx, "user-1", 30)
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 0)
			})
		})
	})
}

func TestService_RemoveInterview(t *testing.T) {
	Convey("Given a service with one analyzed session", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithProvider(fastProvider()))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		_, err := svc.AnalyzeSession(ctx, service.SessionRequest{
			InterviewID: "iv-1",
			UserID:      "user-1",
			Frame:       []byte("frame"),
			Audio:       testAudio(),
		})
		So(err, ShouldBeNil)

		Convey("When the interview is removed", func() {
			So(svc.RemoveInterview(ctx, "user-1", "iv-1"), ShouldBeNil)

			Convey("Then the user's records should be empty", func() {
				records, err := svc.Records(ctx, "user-1", 30)
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 0)
			})
		})

		Convey("When removing an unknown interview", func() {
			err := svc.RemoveInterview(ctx, "user-1", "missing")

			Convey("Then it should report not found", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
