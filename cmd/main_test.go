package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/Nagaurav/MockInterview1/internal/adapters/http/api"
	"github.com/Nagaurav/MockInterview1/internal/adapters/http/site"
	"github.com/Nagaurav/MockInterview1/internal/adapters/http/swagger"
	app "github.com/Nagaurav/MockInterview1/internal/app"
	"github.com/Nagaurav/MockInterview1/internal/config"
	"github.com/Nagaurav/MockInterview1/internal/perception"
	"github.com/Nagaurav/MockInterview1/pkg/logger"
	"github.com/Nagaurav/MockInterview1/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("INTERVIEW_ADDR", ":8080")
			_ = os.Setenv("INTERVIEW_WINDOW_DAYS", "14")
			defer func() {
				_ = os.Unsetenv("INTERVIEW_ADDR")
				_ = os.Unsetenv("INTERVIEW_WINDOW_DAYS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.WindowDays, convey.ShouldEqual, 14)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithWindowDays(7),
					app.WithIdempotencySize(1000),
					app.WithAnalysisTimeout(5*time.Second),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc, svc, 365)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				registry := prometheus.NewRegistry()
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(registry))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing the system metrics updater", func() {
			convey.Convey("Then it should run until its context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing the system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing the provider selection", func() {
			convey.Convey("Then sim mode should yield a simulated provider", func() {
				cfg := config.New()
				provider := buildProvider(cfg)
				_, ok := provider.(*perception.SimProvider)
				convey.So(ok, convey.ShouldBeTrue)
			})

			convey.Convey("And http mode should yield an HTTP provider", func() {
				cfg := config.New()
				cfg.ProviderMode = "http"
				provider := buildProvider(cfg)
				_, ok := provider.(*perception.HTTPProvider)
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When testing the store selection", func() {
			ctx := context.Background()

			convey.Convey("Then the memory driver should open without touching disk", func() {
				cfg := config.New()
				store, err := openStore(ctx, cfg, logger.Get())
				convey.So(err, convey.ShouldBeNil)
				convey.So(store, convey.ShouldNotBeNil)
				convey.So(store.Close(), convey.ShouldBeNil)
			})

			convey.Convey("And the sqlite driver should create its database file", func() {
				cfg := config.New()
				cfg.StoreDriver = "sqlite"
				cfg.SQLitePath = t.TempDir() + "/records.db"
				store, err := openStore(ctx, cfg, logger.Get())
				convey.So(err, convey.ShouldBeNil)
				convey.So(store, convey.ShouldNotBeNil)
				convey.So(store.Close(), convey.ShouldBeNil)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		convey.Convey("When testing full application setup", func() {
			_ = os.Setenv("INTERVIEW_ADDR", ":8080")
			defer func() { _ = os.Unsetenv("INTERVIEW_ADDR") }()

			convey.Convey("Then all components should work together", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				// Load configuration
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)

				// Create service (without starting to avoid logger dependency)
				svc := app.New(
					app.WithWindowDays(cfg.WindowDays),
					app.WithIdempotencySize(cfg.IdempotencySize),
				)
				convey.So(svc, convey.ShouldNotBeNil)

				// Create HTTP server
				server := api.NewServer(svc, svc, cfg.MaxWindowDays)
				convey.So(server, convey.ShouldNotBeNil)

				// Create HTTP mux and register routes
				mux := http.NewServeMux()
				server.Register(ctx, mux)
				swagger.Register(ctx, mux)
				site.Register(ctx, mux)

				// Stop service
				svc.Stop()
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("INTERVIEW_ADDR", "")
			defer func() { _ = os.Unsetenv("INTERVIEW_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing service creation with invalid options", func() {
			convey.Convey("Then service should handle invalid options gracefully", func() {
				svc := app.New(
					app.WithWindowDays(0),
					app.WithIdempotencySize(0),
					app.WithAnalysisTimeout(0),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})
	})
}
