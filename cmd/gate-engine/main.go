package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/decodestack/decode-gate/internal/config"
	"github.com/decodestack/decode-gate/internal/decoders"
	"github.com/decodestack/decode-gate/internal/engine"
	"github.com/decodestack/decode-gate/internal/matrix"
	"github.com/decodestack/decode-gate/internal/metrics"
	"github.com/decodestack/decode-gate/internal/render"
	"github.com/decodestack/decode-gate/internal/repo"
	"github.com/decodestack/decode-gate/internal/store"
	"github.com/decodestack/decode-gate/internal/utils"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "gate-engine",
		Short:         "Structural decoding applicability engine",
		Long:          "gate-engine evaluates which decoding methods may be attempted against\na set of signal-analysis measurements, runs the applicable decoders, and\nemits a fully attributed report.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	root.AddCommand(
		newRunCmd(&configPath),
		newValidateCmd(&configPath),
		newDecodersCmd(),
		newRunsCmd(&configPath),
	)
	return root
}

func newRunCmd(configPath *string) *cobra.Command {
	var (
		measurementsPath string
		outputDir        string
		channels         []string
		acceptProxies    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate applicability and run the applicable decoders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if measurementsPath != "" {
				cfg.Measurements.Path = measurementsPath
			}
			if outputDir != "" {
				cfg.Output.Dir = outputDir
			}
			if len(channels) > 0 {
				cfg.Channels = channels
			}
			if cmd.Flags().Changed("accept-matrix-proxies") {
				cfg.Thresholds.AcceptMatrixProxies = acceptProxies
			}
			if cfg.Measurements.Path == "" {
				return errors.New("measurements path required (flag --measurements or config measurements.path)")
			}

			return runPipeline(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&measurementsPath, "measurements", "m", "", "results.json file or directory containing one")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "report output directory")
	cmd.Flags().StringSliceVar(&channels, "channels", nil, "channels to process (default: all)")
	cmd.Flags().BoolVar(&acceptProxies, "accept-matrix-proxies", false, "accept time-series proxies for matrix inputs")
	return cmd
}

func runPipeline(parent context.Context, cfg *config.Config) error {
	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	var metricsSrv *http.Server
	if cfg.Metrics.Address != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.Address, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics listener failed", "error", err)
			}
		}()
		logger.Info("metrics listening", "address", cfg.Metrics.Address)
	}

	measurements, err := repo.Load(cfg.Measurements.Path)
	if err != nil {
		return err
	}
	logger.Info("measurement set loaded",
		"source", measurements.SourcePath(),
		"methods", len(measurements.Methods()),
		"channels", len(measurements.Channels()))

	requirements, err := matrix.Load(cfg.Matrix.Dir)
	if err != nil {
		return err
	}
	logger.Info("requirements matrix loaded",
		"schema", requirements.SchemaVersion,
		"methods", len(requirements.Methods))

	decoderParams := make(map[string]decoders.Params, len(cfg.Decoders))
	for methodID, params := range cfg.Decoders {
		decoderParams[methodID] = decoders.Params(params)
	}

	pipeline := engine.NewPipeline(logger, decoders.Default(), cfg.Thresholds, decoderParams)

	run, err := pipeline.Run(ctx, measurements, requirements, cfg.Channels)
	if err != nil {
		return err
	}

	if err := render.WriteRunBundle(cfg.Output.Dir, cfg.Output.Title, run); err != nil {
		return err
	}
	logger.Info("report written",
		"run_id", run.RunID,
		"dir", cfg.Output.Dir,
		"channels", len(run.Channels),
		"elapsed", run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond))

	if cfg.Archive.Enabled {
		archive, err := store.Open(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer archive.Close()
		if err := archive.SaveRun(run); err != nil {
			return err
		}
		logger.Info("run archived", "run_id", run.RunID, "path", cfg.Archive.Path)
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}

	fmt.Println(filepath.Join(cfg.Output.Dir, "report.md"))
	return nil
}

func newValidateCmd(configPath *string) *cobra.Command {
	var measurementsPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the requirements matrix pack and, optionally, a measurement set",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			requirements, err := matrix.Load(cfg.Matrix.Dir)
			if err != nil {
				return err
			}
			fmt.Printf("matrix pack %s: ok (%d methods, schema %s)\n",
				cfg.Matrix.Dir, len(requirements.Methods), requirements.SchemaVersion)

			if measurementsPath == "" {
				measurementsPath = cfg.Measurements.Path
			}
			if measurementsPath != "" {
				if err := repo.Validate(measurementsPath); err != nil {
					return err
				}
				fmt.Printf("measurement set %s: ok\n", measurementsPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&measurementsPath, "measurements", "m", "", "results.json file or directory containing one")
	return cmd
}

func newDecodersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decoders",
		Short: "List the registered decoders and their versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			versions := decoders.Default().Versions()
			ids := make([]string, 0, len(versions))
			for id := range versions {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Printf("%s\t%s\n", id, versions[id])
			}
			return nil
		},
	}
}

func newRunsCmd(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			archive, err := store.Open(cfg.Archive.Path)
			if err != nil {
				return err
			}
			defer archive.Close()

			runs, err := archive.ListRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no archived runs")
				return nil
			}
			for _, r := range runs {
				fmt.Printf("%s\t%s\t%d channel(s)\t%s\n",
					r.RunID, r.StartedAt.Format(time.RFC3339), r.Channels, r.Source)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list")
	return cmd
}
