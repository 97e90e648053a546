// Package vision turns labeled scan vertices into per-instance boxes.
package vision

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/sizeprior/logging"
	"go.viam.com/sizeprior/pointcloud"
	"go.viam.com/sizeprior/spatialmath"
	"go.viam.com/sizeprior/utils"
	"go.viam.com/sizeprior/vision/segmentation"
)

// planar coordinates are fit in integer millimeters
const rectFitScale = 1000.

// InstanceBox is a height aligned box around one annotated instance, rotated in the XY plane by
// Angle radians.
type InstanceBox struct {
	InstanceID int
	Label      string
	CategoryID int

	Center     r3.Vector
	DX, DY, DZ float64
	Angle      float64

	NumPoints int
}

// NewInstanceBox fits a box around points. The vertical extent comes straight from the Z range;
// the planar extent and heading come from the minimum-area rectangle around the points' XY
// coordinates, fit after scaling by 1000 and truncating toward zero. DX and DY are the
// rectangle's first and second sides.
func NewInstanceBox(points []r3.Vector) (InstanceBox, error) {
	if len(points) == 0 {
		return InstanceBox{}, errors.New("cannot fit a box around zero points")
	}
	zs := make([]float64, len(points))
	planar := make([]r2.Point, len(points))
	for i, p := range points {
		zs[i] = p.Z
		planar[i] = r2.Point{
			X: math.Trunc(p.X * rectFitScale),
			Y: math.Trunc(p.Y * rectFitScale),
		}
	}
	zmin, zmax := floats.Min(zs), floats.Max(zs)

	rect := spatialmath.MinAreaRect(planar)
	return InstanceBox{
		Center: r3.Vector{
			X: rect.Center.X / rectFitScale,
			Y: rect.Center.Y / rectFitScale,
			Z: (zmin + zmax) / 2,
		},
		DX:        rect.Width / rectFitScale,
		DY:        rect.Height / rectFitScale,
		DZ:        zmax - zmin,
		Angle:     utils.DegToRad(90 - rect.Angle),
		NumPoints: len(points),
	}, nil
}

// Volume returns DX*DY*DZ.
func (b InstanceBox) Volume() float64 {
	return b.DX * b.DY * b.DZ
}

// ExtractInstanceBoxes returns one box per annotated instance, in annotation order. instance
// holds the instance id of every vertex. Instances that own no vertices, and instances whose
// label maps to category 0, produce no box.
func ExtractInstanceBoxes(
	vs *pointcloud.Vertices,
	agg *segmentation.Aggregation,
	instance []int,
	lookup segmentation.CategoryLookup,
	logger logging.Logger,
) ([]InstanceBox, error) {
	if len(instance) != vs.Len() {
		return nil, errors.Errorf("have %d instance labels for %d vertices", len(instance), vs.Len())
	}
	var boxes []InstanceBox
	for _, g := range agg.Groups {
		if g.InstanceID == 0 {
			continue
		}
		label, ok := agg.Label(g.InstanceID)
		if !ok {
			continue
		}
		points := vs.Where(instance, g.InstanceID)
		if len(points) == 0 {
			logger.Debugw("instance has no vertices", "instance", g.InstanceID, "label", label)
			continue
		}
		category := lookup.ID(label)
		if category == 0 {
			logger.Debugw("instance label is unmapped", "instance", g.InstanceID, "label", label)
			continue
		}
		box, err := NewInstanceBox(points)
		if err != nil {
			return nil, err
		}
		box.InstanceID = g.InstanceID
		box.Label = label
		box.CategoryID = category
		boxes = append(boxes, box)
	}
	return boxes, nil
}
