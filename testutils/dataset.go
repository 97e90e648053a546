package testutils

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
)

// SegGroup is one annotated object of an aggregation fixture.
type SegGroup struct {
	ObjectID int    `json:"objectId"`
	Label    string `json:"label"`
	Segments []int  `json:"segments"`
}

// Scan is the content of one scan fixture.
type Scan struct {
	Vertices   []r3.Vector
	SegIndices []int
	Groups     []SegGroup
}

// WriteScan writes the mesh, aggregation and segmentation files of a scan to the given paths.
// An empty path skips that file.
func WriteScan(tb testing.TB, mesh, aggregation, segmentation string, scan Scan) {
	tb.Helper()
	if mesh != "" {
		WriteFile(tb, mesh, ASCIIPLY(scan.Vertices))
	}
	if aggregation != "" {
		WriteJSON(tb, aggregation, map[string]interface{}{"segGroups": scan.Groups})
	}
	if segmentation != "" {
		WriteJSON(tb, segmentation, map[string]interface{}{"segIndices": scan.SegIndices})
	}
}

// ASCIIPLY renders vertices as an ascii PLY mesh with a constant gray color.
func ASCIIPLY(vertices []r3.Vector) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ply\nformat ascii 1.0\nelement vertex %d\n", len(vertices))
	sb.WriteString("property float x\nproperty float y\nproperty float z\n")
	sb.WriteString("property uchar red\nproperty uchar green\nproperty uchar blue\n")
	sb.WriteString("end_header\n")
	for _, v := range vertices {
		fmt.Fprintf(&sb, "%g %g %g 128 128 128\n", v.X, v.Y, v.Z)
	}
	return sb.String()
}

// BoxVertices returns the eight corners of an axis aligned box with its minimum corner at min.
func BoxVertices(min r3.Vector, dx, dy, dz float64) []r3.Vector {
	var vertices []r3.Vector
	for _, z := range []float64{0, dz} {
		for _, c := range [][2]float64{{0, 0}, {dx, 0}, {dx, dy}, {0, dy}} {
			vertices = append(vertices, min.Add(r3.Vector{X: c[0], Y: c[1], Z: z}))
		}
	}
	return vertices
}

// WriteLabelMap writes a category mapping table with raw_category and ModelNet40 columns.
func WriteLabelMap(tb testing.TB, path string, ids map[string]int) string {
	tb.Helper()
	labels := make([]string, 0, len(ids))
	for label := range ids {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var sb strings.Builder
	sb.WriteString("index\traw_category\tcategory\tModelNet40\n")
	for i, label := range labels {
		fmt.Fprintf(&sb, "%d\t%s\t%s\t%d\n", i+1, label, label, ids[label])
	}
	return WriteFile(tb, path, sb.String())
}

// WriteScanList writes one scan name per line.
func WriteScanList(tb testing.TB, path string, scans ...string) string {
	tb.Helper()
	return WriteFile(tb, path, strings.Join(scans, "\n")+"\n")
}
