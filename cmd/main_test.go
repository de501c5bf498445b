package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	app "github.com/okian/contest/internal/app"
	"github.com/okian/contest/internal/config"
	"github.com/okian/contest/pkg/logger"
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
			_ = os.Setenv("CONTEST_ADDR", ":8080")
			_ = os.Setenv("CONTEST_MAX_SESSIONS", "4")
			defer func() {
				_ = os.Unsetenv("CONTEST_ADDR")
				_ = os.Unsetenv("CONTEST_MAX_SESSIONS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When building the mux", func() {
			ctx := context.Background()
			cfg := config.New()
			svc := app.New(app.WithSeed(config.DefaultSeed()))
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()
			mux := newMux(ctx, cfg, svc)

			convey.Convey("Then docs and API routes should be served", func() {
				for _, path := range []string{"/api-docs", "/openapi.yaml", "/healthz", "/stats"} {
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusCreated)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the system metrics updater runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(startSystemMetricsUpdater(ctx), convey.ShouldBeNil)
		})

		convey.Convey("When updating system metrics directly", func() {
			convey.So(func() {
				updateSystemMetrics()
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When the session sweeper runs", func() {
			svc := app.New(app.WithSessionTTL(time.Nanosecond))
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			defer svc.Stop()
			_, err := svc.OpenSession(context.Background())
			convey.So(err, convey.ShouldBeNil)

			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()
			convey.So(startSessionSweeper(ctx, svc, 10*time.Millisecond), convey.ShouldBeNil)

			convey.Convey("Then idle sessions should be gone", func() {
				convey.So(svc.Sessions(), convey.ShouldEqual, 0)
			})
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a config on a free port", t, func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)
		addr := ln.Addr().String()
		_ = ln.Close()

		cfg := config.New()
		cfg.Addr = addr

		convey.Convey("When the server runs and its context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg) }()

			var resp *http.Response
			for i := 0; i < 50; i++ {
				resp, err = http.Post("http://"+addr+"/sessions", "application/json", http.NoBody)
				if err == nil {
					break
				}
				time.Sleep(20 * time.Millisecond)
			}
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()
			cancel()

			convey.Convey("Then it should have served requests and stopped cleanly", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusCreated)
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("server did not stop")
				}
			})
		})
	})
}
