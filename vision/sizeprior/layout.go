package sizeprior

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"go.viam.com/sizeprior/config"
	"go.viam.com/sizeprior/utils"
)

// ScanFiles are the input files of one scan.
type ScanFiles struct {
	Mesh         string
	Aggregation  string
	Segmentation string
}

// LocateScan returns where a scan's files live under datasetDir for the given layout.
func LocateScan(layout config.Layout, datasetDir, scan string) (ScanFiles, error) {
	dir, err := utils.SafeJoinDir(datasetDir, scan)
	if err != nil {
		return ScanFiles{}, err
	}
	switch layout {
	case config.LayoutMatterport:
		if len(scan) < 2 {
			return ScanFiles{}, errors.Errorf("scan name %q is too short to carry a region number", scan)
		}
		region, err := strconv.Atoi(scan[len(scan)-2:])
		if err != nil {
			return ScanFiles{}, errors.Errorf("scan name %q does not end in a region number", scan)
		}
		base := filepath.Join(dir, fmt.Sprintf("region%d", region))
		return ScanFiles{
			Mesh:         base + ".ply",
			Aggregation:  base + ".semseg.json",
			Segmentation: base + ".vsegs.json",
		}, nil
	case config.LayoutScanNet:
		return ScanFiles{
			Mesh:         filepath.Join(dir, scan+"_vh_clean_2.ply"),
			Aggregation:  filepath.Join(dir, scan+".aggregation.json"),
			Segmentation: filepath.Join(dir, scan+"_vh_clean_2.0.010000.segs.json"),
		}, nil
	default:
		return ScanFiles{}, errors.Errorf("unknown layout %q", layout)
	}
}
