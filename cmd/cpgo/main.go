package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/ogzhanolguncu/cpgo/internal/config"
	"github.com/ogzhanolguncu/cpgo/internal/cperr"
	"github.com/ogzhanolguncu/cpgo/internal/dryrun"
	"github.com/ogzhanolguncu/cpgo/internal/fileops"
	"github.com/ogzhanolguncu/cpgo/internal/flags"
	"github.com/ogzhanolguncu/cpgo/internal/logger"
	"github.com/ogzhanolguncu/cpgo/internal/options"
	"github.com/ogzhanolguncu/cpgo/internal/plan"
)

func main() {
	// exits when invoked by the shell for completion
	completion().Complete("cp")
	os.Exit(run(os.Args[1:], os.LookupEnv, os.Stdin, os.Stdout, os.Stderr))
}

// run executes one cp invocation and returns the exit status.
func run(args []string, lookup func(string) (string, bool), stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.FromEnv(lookup)
	if err != nil {
		return fail(stderr, err)
	}

	if cfg.Debug {
		logger.Initialize(logger.Config{
			Level:   slog.LevelDebug,
			Output:  stderr,
			Program: "cp",
		})
	} else {
		// stderr carries only cp diagnostics unless debugging
		logger.InitNoOp()
	}

	root := newRootCmd(cfg, stdin, stdout, stderr)
	// a nil slice would make cobra fall back to os.Args
	root.SetArgs(append([]string{}, args...))
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		return fail(stderr, err)
	}
	return 0
}

// newRootCmd builds the command. Flag parsing is disabled so that the cp
// grammar sees argv untouched.
func newRootCmd(cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:                "cp [OPTION]... SOURCE... DEST",
		Short:              "Copy SOURCE to DEST, or multiple SOURCE(s) to DIRECTORY",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return copyFiles(cfg, args, stdin, stdout, stderr)
		},
	}
}

func copyFiles(cfg *config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	op := "copyFiles"
	res, err := options.Parse(args, cfg.Defaults)
	if err != nil {
		return err
	}
	switch res.Outcome {
	case options.HelpRequested:
		writeUsage(stdout, flags.CP)
		return nil
	case options.VersionRequested:
		writeVersion(stdout)
		return nil
	}

	prober := fileops.OSProber{}
	pl, err := plan.Make(res.State, res.Operands, prober)
	if err != nil {
		return err
	}
	logger.Info("Plan ready", "operation", op, "shape", pl.Shape, "target", pl.Target, "instructions", len(pl.Instructions))

	if cfg.ReportFormat != "" {
		report, err := dryrun.Build(pl, prober)
		if err != nil {
			return err
		}
		if cfg.ReportFormat == config.ReportYAML {
			return dryrun.WriteYAML(stdout, report)
		}
		dryrun.PrintFullReport(stdout, report)
		logger.Info("Dry run completed", "operation", op, "format", cfg.ReportFormat)
		return nil
	}

	exec := fileops.NewExecutor(cfg, stdout, fileops.NewLinePrompter(stdin, stderr))
	if err := exec.Run(pl); err != nil {
		return err
	}
	logger.Info("Copy completed", "operation", op, "instructions", len(pl.Instructions))
	return nil
}

// fail prints err as cp diagnostics and returns the exit status.
func fail(w io.Writer, err error) int {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			fmt.Fprintf(w, "cp: %v\n", e)
		}
		return 1
	}

	fmt.Fprintf(w, "cp: %v\n", err)
	var ce *cperr.Error
	if errors.As(err, &ce) && ce.Hint() {
		fmt.Fprintln(w, "Try 'cp --help' for more information.")
	}
	return 1
}
