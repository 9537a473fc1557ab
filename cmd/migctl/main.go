package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"migctl/internal/config"
	"migctl/internal/coord"
	"migctl/internal/model"
	"migctl/internal/platform"
	"migctl/internal/report"
)

const usage = `migctl - cross-node thread-migration coordinator and verifier

Usage:
  migctl run  [--config <path>] [--report <path>] [--csv <path>] [--verbose] SOURCE SINK [COUNT]
  migctl soak [--config <path>] [--rest <dur>] [--duration <dur>] [--verbose] SOURCE SINK COUNT
  migctl nodes [--config <path>]

SOURCE and SINK are node ids in [0,32), SOURCE != SINK. COUNT is the number
of traveling tasks (default 1).

run   performs one verified round-trip per task and exits 0 only if every
      task passed.
soak  round-trips indefinitely ("threads never die") until a signal or
      --duration elapses; tasks cancelled in flight are the expected outcome.
nodes prints the configured cluster topology.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "-h", "--help", "help":
		fmt.Print(usage)
	case "run":
		handleRun(os.Args[2:])
	case "soak":
		handleSoak(os.Args[2:])
	case "nodes":
		handleNodes(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func handleRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config")
	reportPath := fs.String("report", "", "write suite report YAML to path")
	csvPath := fs.String("csv", "", "write per-task CSV to path")
	verbose := fs.Bool("verbose", false, "debug logging")
	_ = fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}

	source, sink, count := parsePositionals(fs.Args(), cfg.Run.Tasks)

	logger, err := newLogger(*verbose)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	sim, err := buildPlatform(cfg)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	c := coord.New(sim, logger)
	suite, err := c.Run(ctx, coord.Params{Source: source, Sink: sink, Tasks: count})
	if err != nil {
		fatal(err)
	}

	finish(cfg, suite, *reportPath, *csvPath)
	if !suite.AllPassed() {
		os.Exit(1)
	}
}

func handleSoak(args []string) {
	fs := flag.NewFlagSet("soak", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config")
	rest := fs.Duration("rest", 0, "pause between round-trips")
	duration := fs.Duration("duration", 0, "stop after this long (0 = until signal)")
	reportPath := fs.String("report", "", "write suite report YAML to path")
	csvPath := fs.String("csv", "", "write per-task CSV to path")
	verbose := fs.Bool("verbose", false, "debug logging")
	_ = fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}

	source, sink, count := parsePositionals(fs.Args(), cfg.Run.Tasks)

	soakRest := *rest
	if soakRest <= 0 {
		soakRest = time.Duration(cfg.Run.SoakRestSec) * time.Second
	}
	soakFor := *duration
	if soakFor <= 0 && cfg.Run.SoakDurationSec > 0 {
		soakFor = time.Duration(cfg.Run.SoakDurationSec) * time.Second
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	sim, err := buildPlatform(cfg)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := signalContext()
	defer cancel()
	if soakFor > 0 {
		var timedCancel context.CancelFunc
		ctx, timedCancel = context.WithTimeout(ctx, soakFor)
		defer timedCancel()
	}

	c := coord.New(sim, logger)
	suite, err := c.Soak(ctx, coord.Params{Source: source, Sink: sink, Tasks: count, SoakRest: soakRest})
	if err != nil {
		fatal(err)
	}

	finish(cfg, suite, *reportPath, *csvPath)
	if !suite.NoFailures() {
		os.Exit(1)
	}
}

func handleNodes(args []string) {
	fs := flag.NewFlagSet("nodes", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config")
	_ = fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}

	nodes, err := cfg.Cluster.NodeTable()
	if err != nil {
		fatal(err)
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-10s  %-8s  %-6s\n", "NODE", "ARCH", "STATUS", "BOOT")
	for _, n := range nodes {
		boot := ""
		if int(n.ID) == cfg.Cluster.BootNode {
			boot = "*"
		}
		fmt.Fprintf(os.Stdout, "%-8d  %-10s  %-8s  %-6s\n", int(n.ID), n.Arch, n.Liveness, boot)
	}
}

func parsePositionals(rest []string, defaultCount int) (model.NodeID, model.NodeID, int) {
	if len(rest) < 2 || len(rest) > 3 {
		fmt.Fprintln(os.Stderr, "expected positional arguments: SOURCE SINK [COUNT]")
		os.Exit(2)
	}

	source := parseInt(rest[0], "SOURCE")
	sink := parseInt(rest[1], "SINK")
	count := defaultCount
	if len(rest) == 3 {
		count = parseInt(rest[2], "COUNT")
	}
	return model.NodeID(source), model.NodeID(sink), count
}

func parseInt(value, name string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s must be an integer, got %q\n", name, value)
		os.Exit(2)
	}
	return n
}

func loadConfig(path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	config.ApplyDefaults(&cfg)
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func buildPlatform(cfg config.Config) (platform.Platform, error) {
	nodes, err := cfg.Cluster.NodeTable()
	if err != nil {
		return nil, err
	}
	return platform.NewSim(nodes, platform.WithBootNode(model.NodeID(cfg.Cluster.BootNode))), nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}

func finish(cfg config.Config, suite *report.Suite, reportPath, csvPath string) {
	report.WriteExitLines(os.Stdout, suite)
	report.WriteTable(os.Stdout, suite)

	if reportPath == "" {
		reportPath = cfg.Run.ReportPath
	}
	if reportPath != "" {
		if err := report.Save(reportPath, suite); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save report: %v\n", err)
		}
	}

	if csvPath == "" {
		csvPath = cfg.Run.CSVPath
	}
	if csvPath != "" {
		if err := report.SaveCSV(csvPath, suite.Tasks); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save csv: %v\n", err)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()
	return ctx, cancel
}

func fatal(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	if errors.Is(err, coord.ErrConfig) {
		os.Exit(2)
	}
	os.Exit(1)
}
