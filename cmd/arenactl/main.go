// Command arenactl replays arena manager scenarios from YAML files.
//
//	arenactl -f scenario.yaml [--verbose] [--dump] [--budget 4096] [--metrics]
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/pflag"

	"github.com/hupe1980/sysarena"
	"github.com/hupe1980/sysarena/internal/scenario"
	"github.com/hupe1980/sysarena/promstats"
	"github.com/hupe1980/sysarena/resource"
)

const (
	exitOK = iota
	exitFailed
	exitUsage
)

type config struct {
	file    string
	verbose bool
	dump    bool
	metrics bool
	budget  int64
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var cfg config
	fs := pflag.NewFlagSet("arenactl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&cfg.file, "file", "f", "", "scenario file to replay (required)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log every operation at debug level to stderr")
	fs.BoolVar(&cfg.dump, "dump", false, "print the final slot table")
	fs.BoolVar(&cfg.metrics, "metrics", false, "print Prometheus metrics after the replay")
	fs.Int64Var(&cfg.budget, "budget", 0, "memory budget in bytes (0 = unlimited)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if cfg.file == "" {
		fmt.Fprintln(stderr, "arenactl: --file is required")
		fs.PrintDefaults()
		return exitUsage
	}

	s, err := scenario.Load(cfg.file)
	if err != nil {
		fmt.Fprintf(stderr, "arenactl: %v\n", err)
		return exitFailed
	}

	reg := prometheus.NewRegistry()
	opts := []sysarena.Option{
		sysarena.WithMetricsCollector(promstats.NewCollector(reg, "arenactl")),
	}
	if cfg.verbose {
		logger := sysarena.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, sysarena.WithLogger(logger))
	}
	if cfg.budget > 0 {
		opts = append(opts, sysarena.WithMemoryAcquirer(resource.NewController(resource.Config{
			MemoryLimitBytes: cfg.budget,
		})))
	}

	res, runErr := scenario.Run(s, opts...)
	if res != nil {
		for _, line := range res.Lines {
			fmt.Fprintln(stdout, line)
		}
		if cfg.dump {
			fmt.Fprintln(stdout, res.Manager.String())
		}
		if cfg.metrics {
			promstats.RegisterStats(reg, "arenactl", res.Manager.Stats)
			if err := writeMetrics(stdout, reg); err != nil {
				fmt.Fprintf(stderr, "arenactl: %v\n", err)
				return exitFailed
			}
		}
	}
	if runErr != nil {
		fmt.Fprintf(stderr, "arenactl: %s: %v\n", cfg.file, runErr)
		return exitFailed
	}
	return exitOK
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
