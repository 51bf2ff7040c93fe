package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"

	"github.com/cellsafe/clashscan/collision"
	"github.com/cellsafe/clashscan/config"
	"github.com/cellsafe/clashscan/history"
	"github.com/cellsafe/clashscan/kinematics"
	"github.com/cellsafe/clashscan/logging"
	"github.com/cellsafe/clashscan/scan"
)

type checkArgs struct {
	job     string
	debug   bool
	logFile string
	workers int
	history string
}

// CheckAction scans the job given as the first argument.
func CheckAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit("check takes exactly one job file", exitFailure)
	}
	args := checkArgs{
		job:     c.Args().First(),
		debug:   c.Bool(flagDebug),
		logFile: c.Path(flagLogFile),
		workers: c.Int(flagWorkers),
		history: c.Path(flagHistory),
	}
	report, err := runCheck(c.Context, args)
	if report != nil {
		fmt.Fprintln(c.App.Writer, report.String())
	}
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	if report.HasCollision() {
		return cli.Exit("", exitCollision)
	}
	return nil
}

// runCheck returns the report of a finished scan even when the scan also returns an error.
func runCheck(ctx context.Context, args checkArgs) (*scan.Report, error) {
	job, err := config.Read(args.job)
	if err != nil {
		return nil, err
	}
	built, err := job.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "job file %s", args.job)
	}

	level := built.Level
	if args.debug {
		level = logging.DEBUG
	}
	logFile := job.Logging.File
	if args.logFile != "" {
		logFile = args.logFile
	}
	fileCfg := logging.FileConfig{}
	if logFile != "" {
		fileCfg = logging.DefaultFileConfig(logFile)
	}
	logger := logging.NewFileLogger("clashscan", level, fileCfg, true)
	defer goutils.UncheckedErrorFunc(logger.Sync)

	if args.workers > 0 {
		built.Options.Workers = args.workers
	}
	solver, err := kinematics.NewModelSolver(built.Cell, built.IKOptions, logger.Sublogger("kinematics"))
	if err != nil {
		return nil, err
	}
	scanner := scan.NewScanner(solver, built.Poser, collision.NewMeshOracle(), logger.Sublogger("scan"))
	report, scanErr := scanner.Scan(ctx, built.Program, built.Options)
	if report == nil {
		return nil, scanErr
	}

	if args.history != "" {
		if err := record(ctx, args.history, args.job, report); err != nil {
			logger.Errorw("failed to record scan", "history", args.history, "error", err)
		}
	}
	return report, scanErr
}

func record(ctx context.Context, path, job string, report *scan.Report) (err error) {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); err == nil {
			err = cerr
		}
	}()
	return store.Record(ctx, job, report)
}
