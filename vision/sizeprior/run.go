package sizeprior

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/sizeprior/config"
	"go.viam.com/sizeprior/logging"
	"go.viam.com/sizeprior/utils"
	"go.viam.com/sizeprior/vision/classification"
)

// Summary describes a finished batch run.
type Summary struct {
	RunID     uuid.UUID
	Elapsed   time.Duration
	Processed int
	Failed    int
	Boxes     int
	// Failures combines the *ScanError of every skipped scan.
	Failures error
}

// ReadScanList reads one scan name per line. Blank lines and lines starting with # are ignored.
func ReadScanList(path string) ([]string, error) {
	if err := utils.CheckFileExists(path); err != nil {
		return nil, err
	}
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var scans []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		scans = append(scans, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "cannot read scan list %q", path)
	}
	return scans, nil
}

// Run exports every listed scan in order, writes the finalized table to cfg.Output and returns
// it. A scan that cannot be exported is logged and skipped; only an unreadable label map or
// scan list, an unwritable output or a cancelled ctx fail the run.
func Run(ctx context.Context, cfg *config.Config, logger logging.Logger) (Table, Summary, error) {
	summary := Summary{RunID: uuid.New()}
	start := time.Now()

	labels, err := classification.ReadLabelMap(cfg.LabelMap, cfg.LabelFrom, cfg.LabelTo)
	if err != nil {
		return nil, summary, err
	}
	scans, err := ReadScanList(cfg.ScanList)
	if err != nil {
		return nil, summary, err
	}
	if cfg.LASExportDir != "" {
		if err := os.MkdirAll(cfg.LASExportDir, 0o750); err != nil {
			return nil, summary, err
		}
	}
	logger.Infow("starting run", "run", summary.RunID.String(), "scans", len(scans), "layout", cfg.Layout,
		"labels", labels.Len(), "categories", labels.Categories())

	acc := NewAccumulator()
	exporter := NewExporter(cfg, labels, logger)
	for _, scan := range scans {
		if err := ctx.Err(); err != nil {
			return nil, summary, err
		}
		logger.Infow("exporting scan", "scan", scan)
		boxes, err := exporter.ExportScan(scan, acc)
		if err != nil {
			summary.Failed++
			summary.Failures = multierr.Append(summary.Failures, err)
			logger.Warnw("failed to export scan", "scan", scan, "error", err)
			continue
		}
		summary.Processed++
		summary.Boxes += len(boxes)
	}

	table, err := acc.Finalize()
	if err != nil {
		return nil, summary, err
	}
	if err := table.WriteFile(cfg.Output); err != nil {
		return nil, summary, errors.Wrapf(err, "cannot write size priors to %q", cfg.Output)
	}
	summary.Elapsed = time.Since(start)
	logger.Infow("wrote size priors",
		"run", summary.RunID.String(),
		"output", cfg.Output,
		"categories", len(table),
		"processed", summary.Processed,
		"failed", summary.Failed,
		"boxes", summary.Boxes,
		"elapsed", units.HumanDuration(summary.Elapsed),
	)
	return table, summary, nil
}
