package main

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/okian/growthdash/internal/domain/feature"
	"github.com/okian/growthdash/internal/domain/types"
	"github.com/okian/growthdash/internal/probe"
	"github.com/okian/growthdash/pkg/logger"
	"github.com/spf13/cobra"
)

// Default flag values.
const (
	defaultURL     = "http://localhost:9080"
	defaultTimeout = 30 * time.Second
)

// errProbeFailed marks a probe run whose checks did not all hold.
var errProbeFailed = errors.New("probe checks failed")

type rootOptions struct {
	url     string
	timeout time.Duration
	output  string
	verbose bool
}

func (o *rootOptions) client() *probe.Client {
	return probe.NewClient(o.url, o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "growthctl",
		Short:         "Query growth forecasts and high-demand skills",
		Long:          "growthctl calls the growth dashboard HTTP API: it forecasts quarterly industry growth, lists high-demand skills, and probes a live service end to end.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := probe.CheckFormat(opts.output); err != nil {
				return err
			}
			level := "warn"
			if opts.verbose {
				level = "info"
			}
			return logger.SetLevelString(level)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.url, "url", defaultURL, "Base URL of the service")
	flags.DurationVar(&opts.timeout, "timeout", defaultTimeout, "HTTP request timeout")
	flags.StringVarP(&opts.output, "output", "o", probe.FormatTable, "Output format: table, json or yaml")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(
		newPredictCmd(opts),
		newSkillsCmd(opts),
		newIndustriesCmd(opts),
		newProbeCmd(opts),
	)
	return cmd
}

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var (
		req                          types.PredictRequest
		gdp, inflation, unemployment float64
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Forecast quarterly growth for an industry and year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("gdp") {
				req.GDPGrowth = &gdp
			}
			if cmd.Flags().Changed("inflation") {
				req.InflationRate = &inflation
			}
			if cmd.Flags().Changed("unemployment") {
				req.UnemploymentRate = &unemployment
			}
			f, err := opts.client().Predict(cmd.Context(), req)
			if err != nil {
				return describe(err)
			}
			return probe.Render(cmd.OutOrStdout(), opts.output, f, probe.ForecastTable(f))
		},
	}
	cmd.Flags().StringVar(&req.Industry, "industry", "", "Industry to forecast")
	cmd.Flags().StringVar(&req.Field, "field", "", "Optional field within the industry")
	cmd.Flags().IntVar(&req.Year, "year", feature.Years()[0], "Forecast year")
	cmd.Flags().Float64Var(&gdp, "gdp", feature.DefaultGDPGrowth, "GDP growth (%)")
	cmd.Flags().Float64Var(&inflation, "inflation", feature.DefaultInflationRate, "Inflation rate (%)")
	cmd.Flags().Float64Var(&unemployment, "unemployment", feature.DefaultUnemploymentRate, "Unemployment rate (%)")
	_ = cmd.MarkFlagRequired("industry")
	return cmd
}

func newSkillsCmd(opts *rootOptions) *cobra.Command {
	var industry, field string
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List high-demand skills for an industry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.client().Skills(cmd.Context(), industry, field)
			if err != nil {
				return describe(err)
			}
			return probe.Render(cmd.OutOrStdout(), opts.output, s, probe.SkillsTable(s))
		},
	}
	cmd.Flags().StringVar(&industry, "industry", "", "Industry to list skills for")
	cmd.Flags().StringVar(&field, "field", "", "Case-insensitive substring filter on skill names")
	_ = cmd.MarkFlagRequired("industry")
	return cmd
}

func newIndustriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "industries",
		Short: "List the industries known to the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			industries, err := opts.client().Industries(cmd.Context())
			if err != nil {
				return describe(err)
			}
			return probe.Render(cmd.OutOrStdout(), opts.output,
				types.IndustriesResponse{Industries: industries}, probe.IndustriesTable(industries))
		},
	}
}

func newProbeCmd(opts *rootOptions) *cobra.Command {
	var (
		workers int
		years   []int
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Verify a live service end to end",
		Long:  "probe forecasts every industry and year concurrently, checks series shape and determinism, and checks the skill ranking of every industry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := probe.Run(cmd.Context(), opts.client(), probe.Config{
				Workers: workers,
				Years:   years,
				Verbose: opts.verbose,
			})
			if err != nil {
				return err
			}
			if err := probe.Render(cmd.OutOrStdout(), opts.output, report, probe.ReportTable(report)); err != nil {
				return err
			}
			if !report.Passed() {
				return fmt.Errorf("%w: %d failure(s)", errProbeFailed, len(report.Failures))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU()*2, "Number of concurrent workers")
	cmd.Flags().IntSliceVar(&years, "years", nil, "Years to forecast (default: every supported year)")
	return cmd
}

// describe appends field issues to API validation errors.
func describe(err error) error {
	var apiErr *probe.APIError
	if !errors.As(err, &apiErr) || len(apiErr.Issues) == 0 {
		return err
	}
	msg := apiErr.Error()
	for _, is := range apiErr.Issues {
		msg += fmt.Sprintf("\n  %s: %s", is.Field, is.Reason)
	}
	return errors.New(msg)
}
