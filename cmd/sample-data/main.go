package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/kudos/internal/sampledata"
	"github.com/okian/kudos/pkg/logger"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("sample-data", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		dir       = fs.String("dir", "sample", "output directory")
		records   = fs.Int("records", sampledata.DefaultRecords, "number of award rows")
		seed      = fs.Uint64("seed", sampledata.DefaultSeed, "random seed")
		blank     = fs.Float64("blank-rate", sampledata.DefaultBlankRate, "fraction of blank award rows")
		malformed = fs.Float64("malformed-rate", sampledata.DefaultMalformedRate, "fraction of non-canonical subcategories")
		batch     = fs.Int("batch-size", sampledata.DefaultBatchSize, "classification batch size")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if err := logger.Init(logger.WithWriter(stderr)); err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return exitError
	}

	g := sampledata.New(
		sampledata.WithRecords(*records),
		sampledata.WithSeed(*seed),
		sampledata.WithBlankRate(*blank),
		sampledata.WithMalformedRate(*malformed),
		sampledata.WithBatchSize(*batch),
	)
	ds, err := g.Generate(ctx)
	if err != nil {
		logger.Get().Error(ctx, "generate sample data", logger.Error(err))
		return exitError
	}
	if err := sampledata.WriteDir(*dir, ds); err != nil {
		logger.Get().Error(ctx, "write sample data", logger.Error(err))
		return exitError
	}
	logger.Get().Info(ctx, "sample data written", logger.String("dir", *dir))
	return exitOK
}
