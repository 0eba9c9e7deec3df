package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/oneconcern/datareset/pkg/dlogger"
	"github.com/oneconcern/datareset/pkg/reset"
	"go.uber.org/zap"
)

// used to patch over the report timestamp during test
var now = time.Now

func isInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// runReset runs all stages and prints their outcome. It returns the process exit code.
func runReset(ctx context.Context, cfg *CLIConfig, stdin io.Reader, stdout io.Writer) int {
	logger, err := dlogger.GetLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	var confirmer reset.Confirmer
	switch {
	case cfg.AssumeYes:
		confirmer = reset.AssumeYes()
	default:
		if !cfg.DryRun && !isInteractive(stdin) {
			logger.Warn("standard input is not a terminal, publishing requires an answer on stdin or --assume-yes")
		}
		confirmer = reset.Prompt(stdin, stdout)
	}

	p := newPrinter(stdout)
	o := reset.New(cfg.resetConfig(), appFs,
		openRepository(appFs, cfg.GitTimeout, logger),
		openBucket(appFs, cfg.StoreTimeout, logger),
		reset.WithLogger(logger),
		reset.WithConfirmer(confirmer),
		reset.WithReporter(p.stage),
	)

	summary, err := o.Run(ctx)
	p.summary(summary, err)

	if cfg.Report != "" {
		if rerr := writeReport(appFs, cfg.Report, summary, now()); rerr != nil {
			logger.Warn("could not write report", zap.String("report", cfg.Report), zap.Error(rerr))
		} else {
			logger.Info("report written", zap.String("report", cfg.Report))
		}
	}

	if err != nil {
		return 1
	}
	return 0
}
