package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "carbon-footprint/footprint-backend/api/v1"
	"carbon-footprint/footprint-backend/internal/areas"
	"carbon-footprint/footprint-backend/internal/config"
	"carbon-footprint/footprint-backend/internal/emissions"
	"carbon-footprint/footprint-backend/internal/metrics"
	"carbon-footprint/footprint-backend/internal/reports"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "footprint",
		Short:         "Carbon footprint calculator, forecaster and report exporter",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(breakdownCmd())
	root.AddCommand(forecastCmd())
	root.AddCommand(areasCmd())
	root.AddCommand(reportCmd())
	return root
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// loadSurvey reads a survey file, or returns the default survey for an empty path
func loadSurvey(path string) (*emissions.SurveyInput, error) {
	if path == "" {
		return emissions.DefaultSurvey(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read survey: %w", err)
	}
	return emissions.ParseSurvey(data)
}

func breakdownCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "breakdown [survey.json]",
		Short: "Print the emission breakdown of a survey (default survey when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			input, err := loadSurvey(path)
			if err != nil {
				return err
			}

			breakdown := emissions.ComputeBreakdown(input)
			total := emissions.Total(breakdown)
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"breakdown":        breakdown,
				"extended":         emissions.ComputeExtendedBreakdown(input),
				"top_categories":   emissions.TopCategories(input, top),
				"total":            emissions.Round2(total),
				"recycling_credit": emissions.RecyclingCredit(input),
			})
		},
	}

	cmd.Flags().IntVarP(&top, "top", "n", 3, "number of top categories")
	return cmd
}

func forecastCmd() *cobra.Command {
	var (
		current   float64
		predicted float64
		seed      uint64
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Print the 12 month forecast anchored on two totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []emissions.ForecastOption{}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, emissions.WithRand(emissions.SeededRand(seed)))
			}
			forecaster := emissions.NewForecaster(opts...)
			return writeJSON(cmd.OutOrStdout(), forecaster.ComputeForecast(current, predicted))
		},
	}

	cmd.Flags().Float64Var(&current, "current", emissions.DefaultCurrentTotal, "current monthly total (kg CO2)")
	cmd.Flags().Float64Var(&predicted, "predicted", emissions.DefaultPredictedTotal, "predicted next month total (kg CO2)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for a reproducible series")
	return cmd
}

func areasCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "areas [query]",
		Short: "List areas, or search them by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeJSON(cmd.OutOrStdout(), areas.Summarize())
			}
			return writeJSON(cmd.OutOrStdout(), areas.Search(args[0], limit))
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 5, "maximum search results")
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build and export footprint reports",
	}
	cmd.AddCommand(reportExportCmd())
	return cmd
}

func reportExportCmd() *cobra.Command {
	var (
		configPath string
		userID     string
		format     string
		output     string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's report as csv, excel or json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := reports.ExportFormat(format)
			if !f.Valid() {
				return fmt.Errorf("unsupported export format: %s", format)
			}

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			logger := zap.NewNop()
			stores, err := v1.OpenStores(ctx, &cfg.Database, logger)
			if err != nil {
				return err
			}
			defer stores.Close()

			api := v1.SetupAPI(cfg, stores, metrics.New(), logger)
			defer api.Cache.Stop()

			result, err := api.ReportService.Export(ctx, userID, f)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err = cmd.OutOrStdout().Write(result.Data)
				return err
			}
			if output == "" {
				output = result.FileName
			}
			if err := os.WriteFile(output, result.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", output, len(result.Data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.json", "configuration file")
	cmd.Flags().StringVarP(&userID, "user", "u", v1.DefaultUserID, "user whose survey is reported")
	cmd.Flags().StringVarP(&format, "format", "f", string(reports.ExportFormatExcel), "csv, excel or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: generated file name)")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "export timeout")
	return cmd
}
