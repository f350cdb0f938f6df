package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/tagtrend/internal/adapters/csvsource"
	"github.com/okian/tagtrend/internal/adapters/http/api"
	service "github.com/okian/tagtrend/internal/app"
	"github.com/okian/tagtrend/internal/domain/model"
	"github.com/okian/tagtrend/internal/domain/types"
	"github.com/okian/tagtrend/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// Mock implementations for testing
type mockDependencies struct {
	report    model.Report
	trendsErr error
	tags      []types.TagCount
	topNErr   error
	rankErr   error
}

func (m *mockDependencies) Trends(ctx context.Context) (model.Report, error) {
	if m.trendsErr != nil {
		return model.Report{}, m.trendsErr
	}
	return m.report, nil
}

func (m *mockDependencies) TopN(ctx context.Context, n int) ([]types.TagCount, error) {
	if m.topNErr != nil {
		return nil, m.topNErr
	}
	if n > len(m.tags) {
		return m.tags, nil
	}
	return m.tags[:n], nil
}

func (m *mockDependencies) Rank(ctx context.Context, tag string) (types.TagCount, error) {
	if m.rankErr != nil {
		return types.TagCount{}, m.rankErr
	}
	for _, tc := range m.tags {
		if tc.Tag == tag {
			return tc, nil
		}
	}
	return types.TagCount{}, fmt.Errorf("%w: %q", service.ErrTagNotFound, tag)
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{
		report: model.Report{
			Years: []int{2023, 2024, 2025},
			Tags: []model.TagTrend{
				{Name: "python", Data: []float64{66.67, 65, 70}, Average: 67.22},
				{Name: "java", Data: []float64{33.33, 35, 30}, Average: 32.78},
			},
			TotalQuestions:     map[int]int{2023: 3, 2024: 20, 2025: 10},
			TotalRowsProcessed: 3,
		},
		tags: []types.TagCount{
			{Rank: 1, Tag: "python", Count: 2},
			{Rank: 2, Tag: "java", Count: 1},
		},
	}
}

func serve(mux http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMockDependencies()
		statsProvider := &mockStatsProvider{stats: map[string]interface{}{"requests": 7}}
		server := api.NewServer(deps, statsProvider, api.WithMaxTagsLimit(5))
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("Then health endpoint should expose metrics", func() {
				w := serve(mux, http.MethodGet, "/healthz")
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should return the provider's stats", func() {
				w := serve(mux, http.MethodGet, "/stats")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"requests":7`)
			})

			Convey("And data endpoint should return the report", func() {
				w := serve(mux, http.MethodGet, "/api/data")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")

				var body map[string]json.RawMessage
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body, ShouldContainKey, "years")
				So(body, ShouldContainKey, "tags")
				So(body, ShouldContainKey, "total_rows_processed")

				var totals map[string]int
				So(json.Unmarshal(body["total_questions"], &totals), ShouldBeNil)
				So(totals["2024"], ShouldEqual, 20)
			})

			Convey("And tags endpoint should be accessible", func() {
				w := serve(mux, http.MethodGet, "/api/tags?limit=1")
				So(w.Code, ShouldEqual, http.StatusOK)

				var entries []types.TagCount
				So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)
				So(entries, ShouldResemble, []types.TagCount{{Rank: 1, Tag: "python", Count: 2}})
			})

			Convey("And tag rank endpoint should be accessible", func() {
				w := serve(mux, http.MethodGet, "/api/tags/java")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"rank":2`)
			})

			Convey("And unknown paths should not be found", func() {
				w := serve(mux, http.MethodGet, "/unknown")
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And non-GET requests should not be found", func() {
				for _, target := range []string{"/api/data", "/api/tags?limit=1", "/api/tags/java", "/stats", "/healthz"} {
					w := serve(mux, http.MethodPost, target)
					So(w.Code, ShouldEqual, http.StatusNotFound)
				}
			})
		})
	})
}

func TestDataHandler(t *testing.T) {
	Convey("Given a data handler", t, func() {
		deps := newMockDependencies()
		handler := api.NewDataHandler(deps, logger.Get())

		Convey("When the data source fails", func() {
			deps.trendsErr = fmt.Errorf("%w: open /srv/new.csv: no such file", csvsource.ErrDataSource)
			w := serve(http.HandlerFunc(handler.HandleGetData), http.MethodGet, "/api/data")

			Convey("Then it should fail with a data source error and hide the path", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "data_source_error")
				So(body["error"], ShouldEqual, "Failed to process CSV file")
				So(w.Body.String(), ShouldNotContainSubstring, "/srv/new.csv")
			})
		})

		Convey("When an unexpected error occurs", func() {
			deps.trendsErr = errors.New("boom")
			w := serve(http.HandlerFunc(handler.HandleGetData), http.MethodGet, "/api/data")

			Convey("Then it should fail with an internal error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "internal_error")
				So(body["error"], ShouldContainSubstring, "boom")
			})
		})
	})
}

func TestTagsHandler(t *testing.T) {
	Convey("Given a tags handler with a limit cap of 5", t, func() {
		deps := newMockDependencies()
		handler := http.HandlerFunc(api.NewTagsHandler(deps, 5).HandleGetTags)

		Convey("When the limit is missing", func() {
			w := serve(handler, http.MethodGet, "/api/tags")

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the limit is not a positive number", func() {
			for _, limit := range []string{"0", "-3", "ten"} {
				w := serve(handler, http.MethodGet, "/api/tags?limit="+limit)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the limit exceeds the cap", func() {
			w := serve(handler, http.MethodGet, "/api/tags?limit=6")

			Convey("Then it should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When the data source fails", func() {
			deps.topNErr = fmt.Errorf("%w: read", csvsource.ErrDataSource)
			w := serve(handler, http.MethodGet, "/api/tags?limit=5")

			Convey("Then it should fail with a server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["code"], ShouldEqual, "data_source_error")
			})
		})
	})
}

func TestTagRankHandler(t *testing.T) {
	Convey("Given a tag rank handler", t, func() {
		deps := newMockDependencies()
		handler := http.HandlerFunc(api.NewTagRankHandler(deps).HandleGetTagRank)

		Convey("When the tag is unknown", func() {
			w := serve(handler, http.MethodGet, "/api/tags/cobol")

			Convey("Then it should not be found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When the tag is missing or nested", func() {
			So(serve(handler, http.MethodGet, "/api/tags/").Code, ShouldEqual, http.StatusBadRequest)
			So(serve(handler, http.MethodGet, "/api/tags/a/b").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the tag contains escaped characters", func() {
			deps.tags = append(deps.tags, types.TagCount{Rank: 3, Tag: "c#", Count: 1})
			w := serve(handler, http.MethodGet, "/api/tags/c%23")

			Convey("Then the decoded tag should be looked up", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"tag":"c#"`)
			})
		})

		Convey("When the tag contains an escaped slash", func() {
			deps.tags = append(deps.tags, types.TagCount{Rank: 3, Tag: "ci/cd", Count: 4})

			Convey("Then the handler should find it", func() {
				w := serve(handler, http.MethodGet, "/api/tags/ci%2Fcd")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"tag":"ci/cd"`)
			})

			Convey("Then the registered route should find it too", func() {
				mux := http.NewServeMux()
				api.NewServer(deps, &mockStatsProvider{}).Register(context.Background(), mux)
				w := serve(mux, http.MethodGet, "/api/tags/ci%2Fcd")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"count":4`)
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a handler wrapped with the request id middleware", t, func() {
		var seen string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFromContext(r.Context())
			w.WriteHeader(http.StatusTeapot)
		})
		handler := api.RequestIDMiddleware(inner, logger.Get())

		Convey("When the client sends no id", func() {
			w := serve(handler, http.MethodGet, "/")

			Convey("Then one should be generated and echoed", func() {
				So(w.Code, ShouldEqual, http.StatusTeapot)
				So(seen, ShouldNotBeEmpty)
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, seen)
			})
		})

		Convey("When the client sends an id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			Convey("Then it should be reused", func() {
				So(seen, ShouldEqual, "abc-123")
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})
	})
}

func TestWrap(t *testing.T) {
	Convey("Given an operation error", t, func() {
		err := api.Wrap("api.op", api.ErrBadRequest)

		Convey("Then it should keep the cause and name the operation", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request")
			So(api.Wrap("api.op", nil), ShouldBeNil)
		})
	})
}
