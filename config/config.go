// Package config defines the run configuration of a size prior computation.
package config

import (
	"github.com/pkg/errors"

	"go.viam.com/sizeprior/logging"
	"go.viam.com/sizeprior/utils"
)

// Layout names a dataset's directory layout.
type Layout string

// The known dataset layouts.
const (
	// LayoutMatterport is <dataset>/<scan>/region<N>.{ply,semseg.json,vsegs.json}, where N is the
	// number formed by the scan name's last two characters.
	LayoutMatterport Layout = "matterport"
	// LayoutScanNet is <dataset>/<scan>/<scan>_vh_clean_2.ply and its ScanNet annotation files.
	LayoutScanNet Layout = "scannet"
)

// Defaults applied by Validate to unset fields.
const (
	DefaultDatasetDir = "./scans"
	DefaultScanList   = "meta_data/matterport3d_train.txt"
	DefaultLabelMap   = "meta_data/category_mapping.tsv"
	DefaultLabelFrom  = "raw_category"
	DefaultLabelTo    = "ModelNet40"
	DefaultOutput     = "object40_property.json"
)

// Config describes one batch run.
type Config struct {
	ConfigFilePath string `json:"-"`

	DatasetDir string `json:"dataset_dir,omitempty"`
	Layout     Layout `json:"layout,omitempty"`
	ScanList   string `json:"scan_list,omitempty"`

	LabelMap  string `json:"label_map,omitempty"`
	LabelFrom string `json:"label_from,omitempty"`
	LabelTo   string `json:"label_to,omitempty"`

	Output string `json:"output,omitempty"`
	// LASExportDir, when set, receives one LAS file per scan with every vertex's instance id.
	LASExportDir string `json:"las_export_dir,omitempty"`

	LogLevel *logging.Level `json:"log_level,omitempty"`
	// LogFile, when set, also receives every log line. The file is rotated as it grows.
	LogFile string `json:"log_file,omitempty"`
}

// Validate fills in defaults and ensures all parts of the config are valid.
func (c *Config) Validate(path string) error {
	if c.DatasetDir == "" {
		c.DatasetDir = DefaultDatasetDir
	}
	if c.Layout == "" {
		c.Layout = LayoutMatterport
	}
	if c.ScanList == "" {
		c.ScanList = DefaultScanList
	}
	if c.LabelMap == "" {
		c.LabelMap = DefaultLabelMap
	}
	if c.LabelFrom == "" {
		c.LabelFrom = DefaultLabelFrom
	}
	if c.LabelTo == "" {
		c.LabelTo = DefaultLabelTo
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}

	switch c.Layout {
	case LayoutMatterport, LayoutScanNet:
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown layout %q", c.Layout))
	}
	if c.LabelFrom == c.LabelTo {
		return utils.NewConfigValidationError(path, errors.New("label_from and label_to must differ"))
	}
	return nil
}
