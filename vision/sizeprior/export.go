package sizeprior

import (
	"fmt"
	"path/filepath"

	"go.viam.com/sizeprior/config"
	"go.viam.com/sizeprior/logging"
	"go.viam.com/sizeprior/pointcloud"
	"go.viam.com/sizeprior/vision"
	"go.viam.com/sizeprior/vision/segmentation"
)

// ScanError reports why a scan was skipped.
type ScanError struct {
	Scan string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %q: %v", e.Scan, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Exporter turns single scans into instance boxes.
type Exporter struct {
	layout     config.Layout
	datasetDir string
	lasDir     string
	labels     segmentation.CategoryLookup
	logger     logging.Logger
}

// NewExporter returns an Exporter reading scans as described by cfg.
func NewExporter(cfg *config.Config, labels segmentation.CategoryLookup, logger logging.Logger) *Exporter {
	return &Exporter{
		layout:     cfg.Layout,
		datasetDir: cfg.DatasetDir,
		lasDir:     cfg.LASExportDir,
		labels:     labels,
		logger:     logger,
	}
}

// ExportScan extracts the instance boxes of one scan and, only once all of them were extracted,
// folds them into acc. Any failure is returned as a *ScanError and leaves acc untouched.
func (e *Exporter) ExportScan(scan string, acc *Accumulator) ([]vision.InstanceBox, error) {
	boxes, err := e.extract(scan)
	if err != nil {
		return nil, &ScanError{Scan: scan, Err: err}
	}
	acc.AddBoxes(boxes)
	return boxes, nil
}

func (e *Exporter) extract(scan string) ([]vision.InstanceBox, error) {
	logger := e.logger.Sublogger(scan)

	files, err := LocateScan(e.layout, e.datasetDir, scan)
	if err != nil {
		return nil, err
	}
	agg, err := segmentation.ReadAggregation(files.Aggregation)
	if err != nil {
		return nil, err
	}
	vs, err := pointcloud.NewFromFile(files.Mesh, logger)
	if err != nil {
		return nil, err
	}
	segs, err := segmentation.ReadSegmentation(files.Segmentation)
	if err != nil {
		return nil, err
	}

	semantic, err := segmentation.AssignSemanticLabels(agg, segs, e.labels, logger)
	if err != nil {
		return nil, err
	}
	instance, err := segmentation.AssignInstanceLabels(agg.Groups, segs, semantic, logger)
	if err != nil {
		return nil, err
	}
	boxes, err := vision.ExtractInstanceBoxes(vs, agg, instance, e.labels, logger)
	if err != nil {
		return nil, err
	}

	if e.lasDir != "" {
		fn := filepath.Join(e.lasDir, scan+".las")
		if err := pointcloud.WriteToLASFile(vs, instance, fn); err != nil {
			return nil, err
		}
		logger.Debugw("wrote labeled vertices", "file", fn)
	}
	logger.Debugw("extracted boxes", "instances", len(agg.Groups), "boxes", len(boxes))
	return boxes, nil
}
