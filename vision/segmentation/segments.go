package segmentation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"go.viam.com/sizeprior/utils"
)

// SegmentNotFoundError is returned when an annotation refers to a segment that no vertex belongs
// to. It is never fatal: the segment simply contributes no vertices.
type SegmentNotFoundError struct {
	Segment int
}

func (e *SegmentNotFoundError) Error() string {
	return fmt.Sprintf("segment %d not found in segmentation", e.Segment)
}

// IsSegmentNotFound reports whether any error in err's chain is a *SegmentNotFoundError.
func IsSegmentNotFound(err error) bool {
	var notFound *SegmentNotFoundError
	return errors.As(err, &notFound)
}

// SegmentMap maps each segment id to the ascending indices of the vertices in it.
type SegmentMap struct {
	segments    map[int][]int
	numVertices int
}

type segmentationFile struct {
	SegIndices []int `json:"segIndices"`
}

// ReadSegmentation reads the segIndices of a segmentation file. A missing file is reported as a
// *utils.FileNotFoundError.
func ReadSegmentation(path string) (*SegmentMap, error) {
	if err := utils.CheckFileExists(path); err != nil {
		return nil, err
	}
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw segmentationFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "cannot parse segmentation file %q", path)
	}
	if raw.SegIndices == nil {
		return nil, errors.Errorf("segmentation file %q has no segIndices", path)
	}
	return NewSegmentMap(raw.SegIndices), nil
}

// NewSegmentMap inverts a per-vertex segment assignment.
func NewSegmentMap(segIndices []int) *SegmentMap {
	sm := &SegmentMap{segments: map[int][]int{}, numVertices: len(segIndices)}
	for v, seg := range segIndices {
		sm.segments[seg] = append(sm.segments[seg], v)
	}
	return sm
}

// Vertices returns the vertex indices of a segment, or a *SegmentNotFoundError.
func (sm *SegmentMap) Vertices(segment int) ([]int, error) {
	verts, ok := sm.segments[segment]
	if !ok {
		return nil, &SegmentNotFoundError{Segment: segment}
	}
	return verts, nil
}

// NumVertices is the number of vertices the segmentation covers.
func (sm *SegmentMap) NumVertices() int {
	return sm.numVertices
}

// NumSegments is the number of distinct segments.
func (sm *SegmentMap) NumSegments() int {
	return len(sm.segments)
}
