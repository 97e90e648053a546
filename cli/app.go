// Package cli contains the sizeprior command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Global flags.
	generalFlagConfig  = "config"
	generalFlagDebug   = "debug"
	generalFlagLogFile = "log-file"

	// Compute flags.
	computeFlagDatasetDir   = "dataset-dir"
	computeFlagLayout       = "layout"
	computeFlagScanList     = "scan-list"
	computeFlagLabelMap     = "label-map"
	computeFlagLabelFrom    = "label-from"
	computeFlagLabelTo      = "label-to"
	computeFlagOutput       = "output"
	computeFlagLASExportDir = "las-export-dir"
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter set to errOut.
// Logs go to errOut; tables go to out.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "sizeprior",
		Usage:           "compute per-category mean box sizes from annotated indoor scans",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    generalFlagConfig,
				Aliases: []string{"c"},
				Usage:   "load run configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.PathFlag{
				Name:  generalFlagLogFile,
				Usage: "also write logs to `FILE`, rotating it as it grows",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "compute",
				Usage: "export every listed scan and write the size prior table",
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:  computeFlagDatasetDir,
						Usage: "directory holding one sub-directory per scan",
					},
					&cli.StringFlag{
						Name:  computeFlagLayout,
						Usage: "dataset layout, one of matterport or scannet",
					},
					&cli.PathFlag{
						Name:  computeFlagScanList,
						Usage: "file listing one scan name per line",
					},
					&cli.PathFlag{
						Name:  computeFlagLabelMap,
						Usage: "tab separated category mapping table",
					},
					&cli.StringFlag{
						Name:  computeFlagLabelFrom,
						Usage: "label map column holding raw annotation labels",
					},
					&cli.StringFlag{
						Name:  computeFlagLabelTo,
						Usage: "label map column holding category ids",
					},
					&cli.PathFlag{
						Name:    computeFlagOutput,
						Aliases: []string{"o"},
						Usage:   "where to write the size prior table",
					},
					&cli.PathFlag{
						Name:  computeFlagLASExportDir,
						Usage: "if set, write every scan's vertices labeled with instance ids as LAS files here",
					},
				},
				Action: ComputeAction,
			},
			{
				Name:      "show",
				Usage:     "print a size prior table",
				ArgsUsage: "[table file]",
				Action:    ShowAction,
			},
		},
	}
}
