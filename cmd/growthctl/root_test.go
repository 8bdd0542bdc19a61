package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/okian/growthdash/internal/adapters/http/api"
	service "github.com/okian/growthdash/internal/app"
	"github.com/okian/growthdash/internal/domain/types"
	"github.com/okian/growthdash/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		panic(err)
	}
}

func liveURL(t *testing.T) string {
	t.Helper()
	svc := service.New(
		service.WithModelPath("../../data/model_pipeline.json"),
		service.WithSkillsPath("../../data/high_skills.csv"),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		svc.Stop()
	})
	return srv.URL
}

func run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGrowthctl(t *testing.T) {
	convey.Convey("Given growthctl pointed at a live service", t, func() {
		url := liveURL(t)

		convey.Convey("When listing industries as JSON", func() {
			out, err := run("--url", url, "-o", "json", "industries")
			convey.So(err, convey.ShouldBeNil)

			var resp types.IndustriesResponse
			convey.So(json.Unmarshal([]byte(out), &resp), convey.ShouldBeNil)
			convey.So(resp.Industries, convey.ShouldNotBeEmpty)

			convey.Convey("Then predict accepts one of them", func() {
				out, err := run("--url", url, "-o", "json", "predict", "--industry", resp.Industries[0], "--year", "2026", "--gdp", "1.5")
				convey.So(err, convey.ShouldBeNil)
				var f types.PredictResponse
				convey.So(json.Unmarshal([]byte(out), &f), convey.ShouldBeNil)
				convey.So(f.Year, convey.ShouldEqual, 2026)
				convey.So(len(f.Series), convey.ShouldEqual, 4)
			})

			convey.Convey("And skills renders a table", func() {
				out, err := run("--url", url, "skills", "--industry", resp.Industries[0])
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldNotBeEmpty)
			})

			convey.Convey("And the probe passes", func() {
				out, err := run("--url", url, "-o", "yaml", "probe", "--workers", "2", "--years", "2025")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "run_id:")
			})
		})

		convey.Convey("When predict is rejected by the API", func() {
			_, err := run("--url", url, "predict", "--industry", "Nowhere", "--year", "1999")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "invalid_input")
			convey.So(err.Error(), convey.ShouldContainSubstring, "year:")
		})

		convey.Convey("When the output format is unknown", func() {
			_, err := run("--url", url, "-o", "xml", "industries")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When a required flag is missing", func() {
			_, err := run("--url", url, "skills")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
