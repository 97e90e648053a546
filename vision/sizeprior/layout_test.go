package sizeprior

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/sizeprior/config"
)

func TestLocateScan(t *testing.T) {
	files, err := LocateScan(config.LayoutMatterport, "/data/scans", "17DRP5sb8fy_07")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, files, test.ShouldResemble, ScanFiles{
		Mesh:         "/data/scans/17DRP5sb8fy_07/region7.ply",
		Aggregation:  "/data/scans/17DRP5sb8fy_07/region7.semseg.json",
		Segmentation: "/data/scans/17DRP5sb8fy_07/region7.vsegs.json",
	})

	files, err = LocateScan(config.LayoutMatterport, "scans", "2t7WUuJeko7_12")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, files.Mesh, test.ShouldEqual, "scans/2t7WUuJeko7_12/region12.ply")

	files, err = LocateScan(config.LayoutScanNet, "/data/scannet", "scene0000_00")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, files, test.ShouldResemble, ScanFiles{
		Mesh:         "/data/scannet/scene0000_00/scene0000_00_vh_clean_2.ply",
		Aggregation:  "/data/scannet/scene0000_00/scene0000_00.aggregation.json",
		Segmentation: "/data/scannet/scene0000_00/scene0000_00_vh_clean_2.0.010000.segs.json",
	})
}

func TestLocateScanErrors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		layout config.Layout
		scan   string
		errStr string
	}{
		{"short", config.LayoutMatterport, "7", "too short"},
		{"no region", config.LayoutMatterport, "17DRP5sb8fy", "does not end in a region number"},
		{"escape", config.LayoutScanNet, "../secret_00", "unsafe path join"},
		{"layout", config.Layout("s3dis"), "area_01", "unknown layout"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LocateScan(tc.layout, "/data/scans", tc.scan)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.errStr)
		})
	}
}
