// Package segmentation resolves the annotation files of a scan into per-vertex semantic and
// instance labels.
//
// An aggregation file groups over-segmentation segments into annotated objects, and a
// segmentation file maps every mesh vertex to its segment. Together they let each annotated
// object be traced back to the mesh vertices it covers.
package segmentation

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"go.viam.com/sizeprior/utils"
)

// ObjectGroup is one annotated object instance. InstanceID is the file's objectId plus one, so
// that 0 stays free to mean "unannotated".
type ObjectGroup struct {
	InstanceID int
	Label      string
	Segments   []int
}

// Aggregation is the parsed content of an aggregation file.
type Aggregation struct {
	// Groups are in annotation order.
	Groups []ObjectGroup
	// LabelSegments holds, per raw label, the segments of every instance carrying that label.
	LabelSegments map[string][]int
	// Labels lists each raw label once, in first-seen order.
	Labels []string
}

type aggregationFile struct {
	SegGroups []struct {
		ObjectID int    `json:"objectId"`
		Label    string `json:"label"`
		Segments []int  `json:"segments"`
	} `json:"segGroups"`
}

// ReadAggregation reads the segGroups of an aggregation file. A missing file is reported as a
// *utils.FileNotFoundError.
func ReadAggregation(path string) (*Aggregation, error) {
	if err := utils.CheckFileExists(path); err != nil {
		return nil, err
	}
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw aggregationFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "cannot parse aggregation file %q", path)
	}
	if raw.SegGroups == nil {
		return nil, errors.Errorf("aggregation file %q has no segGroups", path)
	}

	agg := NewAggregation()
	for _, g := range raw.SegGroups {
		agg.Add(ObjectGroup{InstanceID: g.ObjectID + 1, Label: g.Label, Segments: g.Segments})
	}
	return agg, nil
}

// NewAggregation returns an empty Aggregation.
func NewAggregation() *Aggregation {
	return &Aggregation{LabelSegments: map[string][]int{}}
}

// Add records an object group. A group reusing an instance id replaces the earlier group in
// place; its segments still count towards both labels.
func (agg *Aggregation) Add(g ObjectGroup) {
	segments := make([]int, len(g.Segments))
	copy(segments, g.Segments)
	g.Segments = segments

	replaced := false
	for i := range agg.Groups {
		if agg.Groups[i].InstanceID == g.InstanceID {
			agg.Groups[i] = g
			replaced = true
			break
		}
	}
	if !replaced {
		agg.Groups = append(agg.Groups, g)
	}

	if _, ok := agg.LabelSegments[g.Label]; !ok {
		agg.Labels = append(agg.Labels, g.Label)
	}
	agg.LabelSegments[g.Label] = append(agg.LabelSegments[g.Label], segments...)
}

// Label returns the raw label of an instance.
func (agg *Aggregation) Label(instanceID int) (string, bool) {
	for _, g := range agg.Groups {
		if g.InstanceID == instanceID {
			return g.Label, true
		}
	}
	return "", false
}
