package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	service "github.com/okian/kudos/internal/app"
	"github.com/okian/kudos/internal/config"
	"github.com/okian/kudos/pkg/logger"
	"github.com/okian/kudos/pkg/metrics"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usageText = `kudos builds an analytics report from award records and classification runs.

Usage:
  kudos [-awards awards.csv] [-run name=taxonomy,classifications[,summary]]... [flags]

Flags:
`

// runFlags collects repeated -run values.
type runFlags []string

func (r *runFlags) String() string { return strings.Join(*r, " ") }

func (r *runFlags) Set(v string) error {
	*r = append(*r, v)
	return nil
}

type options struct {
	configPath  string
	awardsPath  string
	runs        runFlags
	outPath     string
	metricsFile string
	logLevel    string
}

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("kudos", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = io.WriteString(stderr, usageText)
		fs.PrintDefaults()
	}
	fs.StringVar(&o.configPath, "config", os.Getenv(config.EnvConfigPath), "YAML config file")
	fs.StringVar(&o.awardsPath, "awards", "", "award records CSV file")
	fs.Var(&o.runs, "run", "classification run as name=taxonomy,classifications[,summary] (repeatable)")
	fs.StringVar(&o.outPath, "out", "", "write the JSON report here instead of stdout")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format")
	fs.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.awardsPath == "" && len(o.runs) == 0 {
		fs.Usage()
		return o, errors.New("nothing to do: pass -awards and/or -run")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return exitUsage
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.LoadFile(ctx, opts.configPath)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "failed to load config: "+err.Error())
		return exitError
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.metricsFile != "" {
		cfg.MetricsFile = opts.metricsFile
	}

	if err := logger.Init(logger.WithWriter(stderr), logger.WithFormat(cfg.LogFormat), logger.WithLevel(cfg.LogLevel)); err != nil {
		_, _ = fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return exitError
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	inputs, closeInputs, err := openInputs(opts)
	if err != nil {
		log.Error(ctx, "failed to read inputs", logger.Error(err))
		return exitError
	}
	defer closeInputs()

	m := metrics.NewManager(cfg.MetricsOptions()...)
	svc := service.New(
		service.WithLogger(log.Named("app")),
		service.WithMetrics(m),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithTopTitles(cfg.TopTitles),
		service.WithTopPairs(cfg.TopPairs),
		service.WithMessageSamples(cfg.MessageSamples),
		service.WithPreviewLength(cfg.PreviewLength),
		service.WithSensitivityMultipliers(cfg.SensitivityMultipliers),
		service.WithDefaultBatchSize(cfg.DefaultBatchSize),
	)

	rep, err := svc.Generate(ctx, inputs)
	if err != nil {
		log.Error(ctx, "report failed", logger.Error(err))
		return exitError
	}

	if err := writeReport(rep, opts.outPath, stdout, cfg.Pretty); err != nil {
		log.Error(ctx, "failed to write report", logger.Error(err))
		return exitError
	}

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error(ctx, "failed to write metrics", logger.Error(err))
			return exitError
		}
	}
	return exitOK
}

func openInputs(opts options) (service.Inputs, func(), error) {
	var in service.Inputs
	closer := func() {}

	for _, arg := range opts.runs {
		src, err := service.ParseRunSource(arg)
		if err != nil {
			return in, closer, err
		}
		r, err := service.LoadRun(src)
		if err != nil {
			return in, closer, err
		}
		in.Runs = append(in.Runs, r)
	}

	if opts.awardsPath != "" {
		f, err := os.Open(opts.awardsPath)
		if err != nil {
			return in, closer, fmt.Errorf("open awards: %w", err)
		}
		in.Awards = f
		closer = func() { _ = f.Close() }
	}
	return in, closer, nil
}

func writeReport(rep *service.Report, path string, stdout io.Writer, pretty bool) (err error) {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rep)
}
