package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/growthdash/internal/adapters/http/api"
	"github.com/okian/growthdash/internal/domain/feature"
	"github.com/okian/growthdash/internal/domain/forecast"
	"github.com/okian/growthdash/internal/domain/skills"
	"github.com/okian/growthdash/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock dependencies that implements the Dependencies interface
type mockDependencies struct {
	forecast   forecast.Forecast
	predictErr error
	lastInputs feature.Inputs

	rec    skills.Recommendation
	recErr error

	industries []string
	indErr     error
}

func (m *mockDependencies) Predict(_ context.Context, in feature.Inputs) (forecast.Forecast, error) {
	m.lastInputs = in
	if m.predictErr != nil {
		return forecast.Forecast{}, m.predictErr
	}
	return m.forecast, nil
}

func (m *mockDependencies) Recommend(_ context.Context, industry, field string) (skills.Recommendation, error) {
	if m.recErr != nil {
		return skills.Recommendation{}, m.recErr
	}
	rec := m.rec
	rec.Industry, rec.Field = industry, field
	return rec, nil
}

func (m *mockDependencies) Industries(context.Context) ([]string, error) {
	return m.industries, m.indErr
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

type errorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Issues  []feature.Issue `json:"issues"`
}

func sampleForecast() forecast.Forecast {
	return forecast.Forecast{
		Record:   feature.Record{Industry: "Technology", Field: "Data Science", Year: 2026, Quarter: 1},
		Headline: 4.5,
		Series: []forecast.Point{
			{Quarter: 1, Value: 4.5}, {Quarter: 2, Value: 4.6}, {Quarter: 3, Value: 4.8}, {Quarter: 4, Value: 5.0},
		},
		Outlook: forecast.Outlook{Level: forecast.LevelPromising, Message: "promising"},
	}
}

func newMux(deps *mockDependencies) http.Handler {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return api.RequestIDMiddleware(mux)
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{forecast: sampleForecast(), industries: []string{"Technology"}}
		mux := newMux(deps)

		Convey("When registering routes", func() {
			Convey("Then health endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And industries endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/industries", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And unknown paths should not be found", func() {
				req := httptest.NewRequest("GET", "/unknown", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And dashboard endpoint should serve the HTML form", func() {
				req := httptest.NewRequest("GET", "/dashboard", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				body := w.Body.String()
				So(body, ShouldContainSubstring, `id="industry"`)
				So(body, ShouldContainSubstring, "/predict")
			})
		})
	})
}

func TestPredictHandler_HandlePredict(t *testing.T) {
	Convey("Given a predict handler", t, func() {
		deps := &mockDependencies{forecast: sampleForecast()}
		handler := api.NewPredictHandler(deps)

		Convey("When handling a valid POST request", func() {
			body := `{"industry":"Technology","field":"Data Science","year":2026,"gdp_growth":1.5}`
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it should return the forecast", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp types.PredictResponse
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.ID, ShouldNotBeEmpty)
				So(resp.Industry, ShouldEqual, "Technology")
				So(resp.Year, ShouldEqual, 2026)
				So(resp.Headline, ShouldEqual, 4.5)
				So(len(resp.Series), ShouldEqual, 4)
				So(resp.Series[0].Value, ShouldEqual, resp.Headline)
				So(resp.Outlook.Level, ShouldEqual, "promising")
			})

			Convey("And omitted indicators should take their defaults", func() {
				So(deps.lastInputs.GDPGrowth, ShouldEqual, 1.5)
				So(deps.lastInputs.InflationRate, ShouldEqual, feature.DefaultInflationRate)
				So(deps.lastInputs.UnemploymentRate, ShouldEqual, feature.DefaultUnemploymentRate)
			})
		})

		Convey("When handling an invalid JSON request", func() {
			req := httptest.NewRequest("POST", "/predict", strings.NewReader("{invalid json"))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it should return bad request status", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var resp errorBody
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "invalid_input")
			})
		})

		Convey("When the inputs fail validation", func() {
			deps.predictErr = &feature.ValidationError{Issues: []feature.Issue{{Field: "year", Reason: "must be one of 2025, 2026, 2027"}}}
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"industry":"Technology","year":1999}`))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it should return bad request with the field issues", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var resp errorBody
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "invalid_input")
				So(len(resp.Issues), ShouldEqual, 1)
				So(resp.Issues[0].Field, ShouldEqual, "year")
			})
		})

		Convey("When the predictor fails", func() {
			deps.predictErr = fmt.Errorf("%w: quarter 2: boom", forecast.ErrPredictionFailed)
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"industry":"Technology","year":2026}`))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it should return bad gateway", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				var resp errorBody
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "prediction_failed")
				So(resp.Message, ShouldContainSubstring, "quarter 2")
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.predictErr = errors.New("disk on fire")
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"industry":"Technology","year":2026}`))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("When handling a non-POST request", func() {
			req := httptest.NewRequest("GET", "/predict", nil)
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSkillsHandler_HandleGetSkills(t *testing.T) {
	Convey("Given a skills handler", t, func() {
		deps := &mockDependencies{
			rec: skills.Recommendation{Skills: []skills.Ranked{
				{Entry: skills.Entry{Industry: "Tech", Skill: "SQL", DemandLevel: "Very High", PeakPeriod: "Q1 2025"}, Score: 3, Scored: true},
				{Entry: skills.Entry{Industry: "Tech", Skill: "Python", DemandLevel: "High"}, Score: 2, Scored: true},
			}},
		}
		handler := api.NewSkillsHandler(deps)

		Convey("When requesting skills for an industry", func() {
			req := httptest.NewRequest("GET", "/skills?industry=Tech&field=", nil)
			w := httptest.NewRecorder()
			handler.HandleGetSkills(w, req)

			Convey("Then it should return the ranked skills and leaderboard", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp types.SkillsResponse
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Industry, ShouldEqual, "Tech")
				So(len(resp.Skills), ShouldEqual, 2)
				So(resp.Skills[0].Skill, ShouldEqual, "SQL")
				So(resp.Skills[0].DemandScore, ShouldEqual, 3)
				So(len(resp.Leaderboard), ShouldEqual, 2)
				So(resp.Empty, ShouldEqual, "")
			})
		})

		Convey("When nothing matches", func() {
			deps.rec = skills.Recommendation{Empty: skills.EmptyField}
			req := httptest.NewRequest("GET", "/skills?industry=Tech&field=zzz", nil)
			w := httptest.NewRecorder()
			handler.HandleGetSkills(w, req)

			Convey("Then it should return 200 with the empty reason", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp types.SkillsResponse
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Empty, ShouldEqual, "field")
				So(resp.Field, ShouldEqual, "zzz")
				So(resp.Message, ShouldEqual, "No skills found for the selected industry and field.")
				So(resp.Skills, ShouldBeEmpty)
			})
		})

		Convey("When the filter is rejected", func() {
			deps.recErr = &feature.ValidationError{Issues: []feature.Issue{{Field: "industry", Reason: "must not be empty"}}}
			req := httptest.NewRequest("GET", "/skills", nil)
			w := httptest.NewRecorder()
			handler.HandleGetSkills(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When handling a non-GET request", func() {
			req := httptest.NewRequest("POST", "/skills", nil)
			w := httptest.NewRecorder()
			handler.HandleGetSkills(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestIndustriesHandler_HandleGetIndustries(t *testing.T) {
	Convey("Given an industries handler", t, func() {
		deps := &mockDependencies{industries: []string{"Technology", "Finance"}}
		handler := api.NewIndustriesHandler(deps)

		Convey("When listing industries", func() {
			req := httptest.NewRequest("GET", "/industries", nil)
			w := httptest.NewRecorder()
			handler.HandleGetIndustries(w, req)

			Convey("Then it should return them in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp types.IndustriesResponse
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Industries, ShouldResemble, []string{"Technology", "Finance"})
			})
		})

		Convey("When the list is empty", func() {
			deps.industries = nil
			req := httptest.NewRequest("GET", "/industries", nil)
			w := httptest.NewRecorder()
			handler.HandleGetIndustries(w, req)
			So(w.Body.String(), ShouldContainSubstring, `"industries":[]`)
		})

		Convey("When the service is unavailable", func() {
			deps.indErr = errors.New("service not started")
			req := httptest.NewRequest("GET", "/industries", nil)
			w := httptest.NewRecorder()
			handler.HandleGetIndustries(w, req)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a handler behind the request id middleware", t, func() {
		var seen string
		h := api.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFrom(r.Context())
		}))

		Convey("When the client sends an id", func() {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it should be echoed and visible to the handler", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
				So(seen, ShouldEqual, "abc-123")
			})
		})

		Convey("When the client sends no id", func() {
			req := httptest.NewRequest("GET", "/", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then a UUID should be assigned", func() {
				id := w.Header().Get(api.RequestIDHeader)
				So(len(id), ShouldEqual, 36)
				So(seen, ShouldEqual, id)
			})
		})

		Convey("When the client id is oversized", func() {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set(api.RequestIDHeader, strings.Repeat("x", 200))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(len(w.Header().Get(api.RequestIDHeader)), ShouldEqual, 36)
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return OK status with metrics", func() {
				handler.HandleHealth(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "growthdash_")
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]interface{}{
				"predictions":     1000,
				"referenceSkills": 28,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return stats", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]interface{}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response["predictions"], ShouldEqual, 1000)
				So(response["referenceSkills"], ShouldEqual, 28)
				So(response["generatedAt"], ShouldNotBeEmpty)
			})
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given the op/kind error helpers", t, func() {
		cause := errors.New("boom")

		Convey("Then WrapKind matches both kind and cause", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
		})

		Convey("And Wrap keeps nil as nil", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(errors.Is(api.Wrap("api.op", cause), cause), ShouldBeTrue)
		})

		Convey("And NewKind carries the kind only", func() {
			err := api.NewKind("api.op", api.ErrUpstream)
			So(errors.Is(err, api.ErrUpstream), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: upstream failure")
			So(errors.Is(api.WrapKind("api.op", api.ErrInternal, nil), api.ErrInternal), ShouldBeTrue)
		})
	})
}
