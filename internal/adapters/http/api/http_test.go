package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/contest/internal/adapters/http/api"
	service "github.com/okian/contest/internal/app"
	"github.com/okian/contest/internal/config"
	"github.com/okian/contest/internal/domain/model"
	"github.com/okian/contest/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(maxLimit int) (*http.ServeMux, *service.Service) {
	svc := service.New(service.WithSeed(config.DefaultSeed()))
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc, maxLimit).Register(context.Background(), mux)
	return mux, svc
}

func do(mux *http.ServeMux, method, path, body, sid string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.Header.Set(api.SessionHeader, sid)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func openSession(mux *http.ServeMux) string {
	w := do(mux, http.MethodPost, "/sessions", "", "")
	var resp struct {
		SessionID string `json:"session_id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.SessionID
}

func decodeError(w *httptest.ResponseRecorder) (code, message string) {
	var resp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Code, resp.Message
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, svc := newMux(100)
		defer svc.Stop()

		Convey("Then health should serve Prometheus metrics by default", func() {
			w := do(mux, http.MethodGet, "/healthz", "", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "contest_roster_sessions_opened_total")
		})

		Convey("And health should answer JSON when asked", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
			req.Header.Set("Accept", "application/json")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("And stats should report sessions", func() {
			_ = openSession(mux)
			w := do(mux, http.MethodGet, "/stats", "", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["sessions"], ShouldEqual, float64(1))
			So(stats["started"], ShouldEqual, true)
		})

		Convey("And unsupported methods should 404", func() {
			So(do(mux, http.MethodGet, "/sessions", "", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodPost, "/totals", "", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodPatch, "/contestants", "", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStatsHandler(t *testing.T) {
	Convey("Given a stats handler with a fixed provider", t, func() {
		h := api.NewStatsHandler(&mockStatsProvider{stats: map[string]interface{}{"sessions": 3}})

		Convey("When GET /stats is served", func() {
			w := httptest.NewRecorder()
			h.HandleStats(w, httptest.NewRequest(http.MethodGet, "/stats", http.NoBody))

			Convey("Then the provider's stats should be returned as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				So(w.Body.String(), ShouldContainSubstring, `"sessions":3`)
			})
		})
	})
}

func TestSessions(t *testing.T) {
	Convey("Given a running API", t, func() {
		mux, svc := newMux(100)
		defer svc.Stop()

		Convey("When a session is opened", func() {
			w := do(mux, http.MethodPost, "/sessions", "", "")

			Convey("Then a session id should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(w.Body.String(), ShouldContainSubstring, "session_id")
			})
		})

		Convey("When a session is closed", func() {
			sid := openSession(mux)
			So(do(mux, http.MethodDelete, "/sessions/"+sid, "", "").Code, ShouldEqual, http.StatusNoContent)

			Convey("Then it should be gone", func() {
				So(do(mux, http.MethodGet, "/contestants", "", sid).Code, ShouldEqual, http.StatusNotFound)
				So(do(mux, http.MethodDelete, "/sessions/"+sid, "", "").Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the session header is missing", func() {
			w := do(mux, http.MethodGet, "/contestants", "", "")
			code, msg := decodeError(w)

			Convey("Then the request should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(code, ShouldEqual, "missing_session")
				So(msg, ShouldContainSubstring, api.SessionHeader)
			})
		})

		Convey("When the session id is unknown", func() {
			w := do(mux, http.MethodGet, "/totals", "", "no-such-session")
			code, _ := decodeError(w)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(code, ShouldEqual, "session_not_found")
		})
	})
}

func TestMembers(t *testing.T) {
	Convey("Given an open session", t, func() {
		mux, svc := newMux(100)
		defer svc.Stop()
		sid := openSession(mux)

		Convey("When listing contestants", func() {
			w := do(mux, http.MethodGet, "/contestants", "", sid)
			var rows []model.Contestant
			So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)

			Convey("Then the seed roster should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(rows, ShouldHaveLength, 3)
				So(rows[0].Name, ShouldEqual, "Alice")
				So(rows[0].Skills, ShouldResemble, []string{"Dance", "Instrumental"})
			})
		})

		Convey("When adding a contestant", func() {
			w := do(mux, http.MethodPost, "/contestants", `{"name":"Dana","skills":"Music, Dance"}`, sid)
			var row model.Contestant
			So(json.Unmarshal(w.Body.Bytes(), &row), ShouldBeNil)

			Convey("Then the new row should get the next id", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(row.ID, ShouldEqual, 4)
				So(row.Skills, ShouldResemble, []string{"Music", "Dance"})
			})
		})

		Convey("When updating a contestant", func() {
			w := do(mux, http.MethodPut, "/contestants/Bob", `{"name":"Robert","skills":"Music"}`, sid)

			Convey("Then one row should be affected", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"affected":1`)
				list := do(mux, http.MethodGet, "/contestants", "", sid).Body.String()
				So(list, ShouldContainSubstring, "Robert")
				So(list, ShouldNotContainSubstring, `"Bob"`)
			})
		})

		Convey("When updating a missing contestant", func() {
			w := do(mux, http.MethodPut, "/contestants/Nobody", `{"name":"X","skills":""}`, sid)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"affected":0`)
		})

		Convey("When removing a judge", func() {
			w := do(mux, http.MethodDelete, "/judges/Judge2", "", sid)

			Convey("Then it should be gone from the list", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"affected":1`)
				var rows []model.Judge
				_ = json.Unmarshal(do(mux, http.MethodGet, "/judges", "", sid).Body.Bytes(), &rows)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Name, ShouldEqual, "Judge1")
			})
		})

		Convey("When the body breaks input rules", func() {
			long := strings.Repeat("x", 51)
			So(do(mux, http.MethodPost, "/contestants", `{"name":"","skills":"Dance"}`, sid).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/contestants", `{"name":"`+long+`"}`, sid).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/judges", `{"name":"J","skills":"`+strings.Repeat("y", 101)+`"}`, sid).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/judges", `{"name":"J","extra":1}`, sid).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/judges", `not json`, sid).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a name cannot be addressed as a single path segment", func() {
			for _, name := range []string{"A/B", ".", ".."} {
				w := do(mux, http.MethodPost, "/contestants", `{"name":"`+name+`"}`, sid)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(do(mux, http.MethodPost, "/judges", `{"name":"`+name+`"}`, sid).Code, ShouldEqual, http.StatusBadRequest)
			}
			w := do(mux, http.MethodPut, "/contestants/Bob", `{"name":"B/ob"}`, sid)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			w = do(mux, http.MethodPost, "/judges", `{"name":"Judge3","skills":"Dance, Hip/Hop"}`, sid)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			w = do(mux, http.MethodPut, "/contestants/Bob", `{"name":"Bob","skills":"Music, .."}`, sid)
			So(w.Code, ShouldEqual, http.StatusBadRequest)

			Convey("Then no row should have been added or renamed", func() {
				var rows []model.Contestant
				_ = json.Unmarshal(do(mux, http.MethodGet, "/contestants", "", sid).Body.Bytes(), &rows)
				So(rows, ShouldHaveLength, 3)
				So(rows[1].Name, ShouldEqual, "Bob")
				So(rows[1].Skills, ShouldResemble, []string{"Performance", "Music"})
			})
		})

		Convey("When a name needs escaping in the path", func() {
			So(do(mux, http.MethodPost, "/contestants", `{"name":"Mary Ann?","skills":"Dance"}`, sid).Code, ShouldEqual, http.StatusCreated)

			Convey("Then it can be updated and removed through its escaped form", func() {
				w := do(mux, http.MethodPut, "/contestants/Mary%20Ann%3F", `{"name":"Mary Ann?","skills":"Music"}`, sid)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"affected":1`)
				w = do(mux, http.MethodDelete, "/contestants/Mary%20Ann%3F", "", sid)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"affected":1`)
			})
		})

		Convey("When the path has extra segments", func() {
			So(do(mux, http.MethodDelete, "/contestants/a/b", "", sid).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestWeightsAndScores(t *testing.T) {
	Convey("Given an open session", t, func() {
		mux, svc := newMux(2)
		defer svc.Stop()
		sid := openSession(mux)

		Convey("When setting a weight", func() {
			w := do(mux, http.MethodPut, "/weights/Juggling", `{"weight":40}`, sid)
			var weights map[string]int
			So(json.Unmarshal(w.Body.Bytes(), &weights), ShouldBeNil)

			Convey("Then the new skill should be listed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(weights["Juggling"], ShouldEqual, 40)
				So(weights["Dance"], ShouldEqual, 30)
			})
		})

		Convey("When a weight is out of range", func() {
			So(do(mux, http.MethodPut, "/weights/Dance", `{"weight":0}`, sid).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPut, "/weights/Dance", `{"weight":101}`, sid).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When scores are submitted", func() {
			w1 := do(mux, http.MethodPost, "/scores", `{"judge":"Judge1","contestant":"Alice","skill":"Dance","score":80}`, sid)
			w2 := do(mux, http.MethodPost, "/scores", `{"judge":"Judge2","contestant":"Alice","skill":"Music","score":60}`, sid)
			w3 := do(mux, http.MethodPost, "/scores", `{"judge":"Judge2","contestant":"Bob","skill":"Instrumental","score":90,"submission_id":"s-1"}`, sid)

			Convey("Then each should be accepted", func() {
				So(w1.Code, ShouldEqual, http.StatusCreated)
				So(w2.Code, ShouldEqual, http.StatusCreated)
				So(w3.Body.String(), ShouldContainSubstring, `"status":"accepted"`)
			})

			Convey("And the log should list them in order", func() {
				var log []model.ScoreEntry
				_ = json.Unmarshal(do(mux, http.MethodGet, "/scores", "", sid).Body.Bytes(), &log)
				So(log, ShouldHaveLength, 3)
				So(log[0].Skill, ShouldEqual, "Dance")
				So(log[2].Contestant, ShouldEqual, "Bob")
			})

			Convey("And totals should be weighted sums", func() {
				var totals map[string]float64
				w := do(mux, http.MethodGet, "/totals", "", sid)
				So(json.Unmarshal(w.Body.Bytes(), &totals), ShouldBeNil)
				So(totals["Alice"], ShouldAlmostEqual, 39.0)
				So(totals["Bob"], ShouldAlmostEqual, 18.0)
			})

			Convey("And a repeated submission id should not be appended", func() {
				w := do(mux, http.MethodPost, "/scores", `{"judge":"Judge2","contestant":"Bob","skill":"Instrumental","score":90,"submission_id":"s-1"}`, sid)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"duplicate":true`)
				var log []model.ScoreEntry
				_ = json.Unmarshal(do(mux, http.MethodGet, "/scores", "", sid).Body.Bytes(), &log)
				So(log, ShouldHaveLength, 3)
			})

			Convey("And the leaderboard should rank contestants", func() {
				var entries []api.Entry
				w := do(mux, http.MethodGet, "/leaderboard?limit=1", "", sid)
				So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Contestant, ShouldEqual, "Alice")
				So(entries[0].Rank, ShouldEqual, 1)

				var all []api.Entry
				_ = json.Unmarshal(do(mux, http.MethodGet, "/leaderboard", "", sid).Body.Bytes(), &all)
				So(all, ShouldHaveLength, 2)
			})
		})

		Convey("When a score names a skill that could never be weighted", func() {
			w := do(mux, http.MethodPost, "/scores", `{"judge":"Judge1","contestant":"Alice","skill":"A/B","score":50}`, sid)

			Convey("Then it should be rejected and not logged", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var log []model.ScoreEntry
				_ = json.Unmarshal(do(mux, http.MethodGet, "/scores", "", sid).Body.Bytes(), &log)
				So(log, ShouldBeEmpty)
			})
		})

		Convey("When a score is out of range", func() {
			So(do(mux, http.MethodPost, "/scores", `{"judge":"J","contestant":"A","skill":"Dance","score":0}`, sid).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/scores", `{"judge":"J","contestant":"A","skill":"Dance","score":101}`, sid).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/scores", `{"judge":"","contestant":"A","skill":"Dance","score":5}`, sid).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the leaderboard limit is invalid", func() {
			w := do(mux, http.MethodGet, "/leaderboard?limit=abc", "", sid)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			w = do(mux, http.MethodGet, "/leaderboard?limit=0", "", sid)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the leaderboard limit is over the configured maximum", func() {
			for _, c := range []string{"Alice", "Bob", "Charlie"} {
				_ = do(mux, http.MethodPost, "/scores", `{"judge":"Judge1","contestant":"`+c+`","skill":"Dance","score":50}`, sid)
			}
			w := do(mux, http.MethodGet, "/leaderboard?limit=3", "", sid)
			var entries []api.Entry
			So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)

			Convey("Then the rows should be capped at the maximum", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(entries, ShouldHaveLength, 2)
			})
		})

		Convey("When a contestant is removed after scoring", func() {
			_ = do(mux, http.MethodPost, "/scores", `{"judge":"Judge1","contestant":"Charlie","skill":"Dance","score":50}`, sid)
			_ = do(mux, http.MethodDelete, "/contestants/Charlie", "", sid)

			Convey("Then totals should still include the name", func() {
				var totals map[string]float64
				_ = json.Unmarshal(do(mux, http.MethodGet, "/totals", "", sid).Body.Bytes(), &totals)
				So(totals["Charlie"], ShouldAlmostEqual, 15.0)
			})
		})
	})
}
