package segmentation

import (
	"github.com/pkg/errors"

	"go.viam.com/sizeprior/logging"
)

// A CategoryLookup maps a raw annotation label to a canonical category id, 0 meaning unmapped.
type CategoryLookup interface {
	ID(label string) int
}

// AssignSemanticLabels returns the category id of every vertex the segmentation covers. Each raw
// label is looked up once and stamped onto all vertices of its segments; where segments of
// different labels overlap, the label seen last wins. Unannotated vertices stay 0.
func AssignSemanticLabels(
	agg *Aggregation,
	segs *SegmentMap,
	lookup CategoryLookup,
	logger logging.Logger,
) ([]int, error) {
	semantic := make([]int, segs.NumVertices())
	for _, label := range agg.Labels {
		category := lookup.ID(label)
		for _, seg := range agg.LabelSegments[label] {
			verts, err := segs.Vertices(seg)
			if err != nil {
				logger.Debugw("skipping segment", "label", label, "error", err)
				continue
			}
			if err := stamp(semantic, verts, category); err != nil {
				return nil, err
			}
		}
	}
	return semantic, nil
}

// AssignInstanceLabels returns the instance id of every vertex. Groups are walked in annotation
// order and, within a group, segment by segment. Only the first vertex of a segment is checked
// against the semantic labels: if it is unannotated the whole segment is stamped 0, otherwise the
// whole segment gets the group's instance id. Since the probed vertex belongs to the segment
// being stamped, a vertex never keeps an instance id while its semantic label is 0.
func AssignInstanceLabels(
	groups []ObjectGroup,
	segs *SegmentMap,
	semantic []int,
	logger logging.Logger,
) ([]int, error) {
	instance := make([]int, len(semantic))
	for _, g := range groups {
		for _, seg := range g.Segments {
			verts, err := segs.Vertices(seg)
			if err != nil {
				logger.Debugw("skipping segment", "instance", g.InstanceID, "error", err)
				continue
			}
			if verts[0] >= len(semantic) {
				return nil, errors.Errorf("segment %d has vertex %d but only %d are labeled", seg, verts[0], len(semantic))
			}
			id := g.InstanceID
			if semantic[verts[0]] == 0 {
				id = 0
			}
			if err := stamp(instance, verts, id); err != nil {
				return nil, err
			}
		}
	}
	return instance, nil
}

func stamp(labels, verts []int, value int) error {
	for _, v := range verts {
		if v < 0 || v >= len(labels) {
			return errors.Errorf("vertex %d out of range [0,%d)", v, len(labels))
		}
		labels[v] = value
	}
	return nil
}
