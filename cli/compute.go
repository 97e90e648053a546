package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/sizeprior/config"
	"go.viam.com/sizeprior/logging"
	"go.viam.com/sizeprior/vision/sizeprior"
)

// ComputeAction runs a batch export and prints the resulting table.
func ComputeAction(cCtx *cli.Context) error {
	cfg, err := configFromFlags(cCtx)
	if err != nil {
		return err
	}
	logger, closeLogs := newLogger(cCtx, cfg)
	defer func() {
		//nolint:errcheck
		logger.Sync()
		//nolint:errcheck
		closeLogs()
	}()

	table, summary, err := sizeprior.Run(cCtx.Context, cfg, logger)
	if err != nil {
		return errors.Wrap(err, "size prior computation failed")
	}
	printf(cCtx.App.Writer, "%s", table.String())
	status := color.New(color.FgGreen)
	if summary.Failed > 0 {
		status = color.New(color.FgYellow)
	}
	//nolint:errcheck
	status.Fprintf(cCtx.App.Writer, "processed %d scans (%d skipped), %d boxes, %d categories written to %s\n",
		summary.Processed, summary.Failed, summary.Boxes, len(table), cfg.Output)
	return nil
}

// ShowAction prints a persisted table.
func ShowAction(cCtx *cli.Context) error {
	path := cCtx.Args().First()
	if path == "" {
		path = config.DefaultOutput
	}
	table, err := sizeprior.ReadTableFile(path)
	if err != nil {
		return err
	}
	printf(cCtx.App.Writer, "%s", table.String())
	return nil
}

func configFromFlags(cCtx *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}
	source := "flags"
	if path := cCtx.Path(generalFlagConfig); path != "" {
		var err error
		if cfg, err = config.Read(path); err != nil {
			return nil, err
		}
		source = path
	}

	for flag, field := range map[string]*string{
		computeFlagDatasetDir:   &cfg.DatasetDir,
		computeFlagScanList:     &cfg.ScanList,
		computeFlagLabelMap:     &cfg.LabelMap,
		computeFlagLabelFrom:    &cfg.LabelFrom,
		computeFlagLabelTo:      &cfg.LabelTo,
		computeFlagOutput:       &cfg.Output,
		computeFlagLASExportDir: &cfg.LASExportDir,
	} {
		if cCtx.IsSet(flag) {
			*field = cCtx.String(flag)
		}
	}
	if cCtx.IsSet(generalFlagLogFile) {
		cfg.LogFile = cCtx.Path(generalFlagLogFile)
	}
	if cCtx.IsSet(computeFlagLayout) {
		cfg.Layout = config.Layout(cCtx.String(computeFlagLayout))
	}
	if err := cfg.Validate(source); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns the run's logger and a function closing its log file, if any.
func newLogger(cCtx *cli.Context, cfg *config.Config) (logging.Logger, func() error) {
	logger := logging.NewBlankLogger("sizeprior")
	logger.AddAppender(logging.NewWriterAppender(cCtx.App.ErrWriter))
	closeLogs := func() error { return nil }
	if cfg.LogFile != "" {
		fileAppender := logging.NewFileAppender(cfg.LogFile)
		logger.AddAppender(fileAppender)
		closeLogs = fileAppender.Close
	}
	logger.SetLevel(logging.INFO)
	if cfg.LogLevel != nil {
		logger.SetLevel(*cfg.LogLevel)
	}
	if cCtx.Bool(generalFlagDebug) {
		logger.SetLevel(logging.DEBUG)
	}
	return logger, closeLogs
}

// printf prints a message with a newline to the given writer.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
