package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	service "github.com/okian/growthdash/internal/app"
	"github.com/okian/growthdash/internal/config"
	"github.com/okian/growthdash/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		panic(err)
	}
}

func startedService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	opts = append([]service.Option{
		service.WithModelPath("../data/model_pipeline.json"),
		service.WithSkillsPath("../data/high_skills.csv"),
	}, opts...)
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			t.Setenv("GROWTHDASH_ADDR", ":8080")
			t.Setenv("GROWTHDASH_SWEEP_CONCURRENCY", "2")
			t.Setenv("GROWTHDASH_REDIS_ADDR", "localhost:6379")

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SweepConcurrency, convey.ShouldEqual, 2)
				convey.So(cfg.CacheEnabled(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the configuration is invalid", func() {
			t.Setenv("GROWTHDASH_SWEEP_CONCURRENCY", "0")

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given a started service behind the full handler", t, func() {
		ctx := context.Background()
		srv := httptest.NewServer(newHandler(ctx, startedService(t)))
		defer srv.Close()

		get := func(path string) *http.Response {
			resp, err := http.Get(srv.URL + path)
			convey.So(err, convey.ShouldBeNil)
			return resp
		}

		convey.Convey("Then every surface is routed", func() {
			for _, path := range []string{"/", "/dashboard", "/api-docs", "/openapi.yaml", "/healthz", "/stats", "/industries"} {
				resp := get(path)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(resp.Header.Get("X-Request-ID"), convey.ShouldNotBeEmpty)
			}
			resp := get("/nope")
			_ = resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusNotFound)
		})

		convey.Convey("And a prediction round-trips through the API", func() {
			resp := get("/industries")
			var ind struct {
				Industries []string `json:"industries"`
			}
			convey.So(json.NewDecoder(resp.Body).Decode(&ind), convey.ShouldBeNil)
			_ = resp.Body.Close()
			convey.So(ind.Industries, convey.ShouldNotBeEmpty)

			body := `{"industry":"` + ind.Industries[0] + `","year":2026}`
			resp, err := http.Post(srv.URL+"/predict", "application/json", strings.NewReader(body))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

			var out struct {
				Headline float64 `json:"headline"`
				Series   []struct {
					Value float64 `json:"value"`
				} `json:"series"`
			}
			convey.So(json.NewDecoder(resp.Body).Decode(&out), convey.ShouldBeNil)
			convey.So(len(out.Series), convey.ShouldEqual, 4)
			convey.So(out.Headline, convey.ShouldEqual, out.Series[0].Value)
		})
	})
}

func TestConnectCache(t *testing.T) {
	convey.Convey("Given cache configuration", t, func() {
		ctx := context.Background()
		log := logger.Get()
		cfg := config.New()

		convey.Convey("When no Redis address is set", func() {
			convey.So(connectCache(ctx, cfg, log), convey.ShouldBeNil)
		})

		convey.Convey("When Redis is unreachable", func() {
			cfg.RedisAddr = "127.0.0.1:1"
			convey.So(connectCache(ctx, cfg, log), convey.ShouldBeNil)
		})

		convey.Convey("When Redis is reachable", func() {
			mr := miniredis.RunT(t)
			cfg.RedisAddr = mr.Addr()
			client := connectCache(ctx, cfg, log)
			convey.So(client, convey.ShouldNotBeNil)
			defer func() { _ = client.Close() }()

			convey.Convey("Then the service caches predictions in it", func() {
				svc := startedService(t, service.WithCache(cacheWrapper(cfg, client, log)))
				industries, err := svc.Industries(ctx)
				convey.So(err, convey.ShouldBeNil)

				h := newHandler(ctx, svc)
				body := `{"industry":"` + industries[0] + `","year":2025}`
				req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				keys := mr.Keys()
				convey.So(len(keys), convey.ShouldEqual, 4)
				convey.So(keys[0], convey.ShouldStartWith, cfg.CachePrefix)
				convey.So(mr.TTL(keys[0]), convey.ShouldEqual, cfg.CacheTTL())
			})
		})
	})
}

func TestSystemMetricsUpdater(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("When its context expires", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			convey.Convey("Then it returns without panicking", func() {
				convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})
	})
}
