package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should be created with defaults", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating two managers without a registry", func() {
			Convey("Then they should not collide on registration", func() {
				So(func() {
					NewManager()
					NewManager()
				}, ShouldNotPanic)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then options should be applied", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
			})

			Convey("And metrics should register on the given registry", func() {
				manager.scoresSubmitted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "contest_roster_scores_submitted_total")
			})
		})

		Convey("When options receive empty values", func() {
			manager := NewManager(
				WithRefreshInterval(-1*time.Second),
				WithPrometheusRegistry(nil),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				So(manager.registry, ShouldNotBeNil)
			})
		})

		Convey("When reading the global refresh interval", func() {
			Convey("Then it should follow the global manager", func() {
				So(RefreshInterval(), ShouldEqual, globalManager.RefreshInterval())
				So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording roster mutations", func() {
			before := testutil.ToFloat64(globalManager.rosterMutations.WithLabelValues("contestant", "add"))
			RecordRosterMutation("contestant", "add")
			RecordRosterMutation("contestant", "add")

			Convey("Then the labelled counter should grow", func() {
				after := testutil.ToFloat64(globalManager.rosterMutations.WithLabelValues("contestant", "add"))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When recording score submissions and duplicates", func() {
			submitted := testutil.ToFloat64(globalManager.scoresSubmitted)
			duplicate := testutil.ToFloat64(globalManager.scoresDuplicate)
			RecordScoreSubmitted()
			RecordScoreDuplicate()

			Convey("Then both counters should grow by one", func() {
				So(testutil.ToFloat64(globalManager.scoresSubmitted)-submitted, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.scoresDuplicate)-duplicate, ShouldEqual, 1)
			})
		})

		Convey("When recording sessions", func() {
			UpdateActiveSessions(3)
			RecordSessionOpened()
			RecordSessionEvicted("idle")

			Convey("Then the gauge should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.sessionsActive), ShouldEqual, 3)
			})
		})

		Convey("When recording everything else", func() {
			So(func() {
				RecordAggregation(0.5)
				RecordHTTPRequest("/totals", "GET", "200")
				RecordHTTPRequestDuration("/totals", "GET", "200", 1.0)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("/scores", "POST", "client_error")
				RecordErrorLatency("http", "client_error", 1.0)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})

		Convey("When gathering the custom registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then it should expose the service metrics", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		done := make(chan bool, 10)
		for i := 0; i < 10; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					RecordScoreSubmitted()
					RecordAggregation(float64(j))
					RecordHTTPRequest("/test", "GET", "200")
				}
				done <- true
			}()
		}
		for i := 0; i < 10; i++ {
			<-done
		}

		Convey("Then no recorder should panic", func() {
			So(true, ShouldBeTrue)
		})
	})
}
