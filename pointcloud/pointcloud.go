// Package pointcloud defines the ordered vertex set read from a scan mesh and the readers and
// writers for the mesh formats sizeprior understands.
//
// Unlike a spatially keyed point cloud, a vertex set keeps every vertex at its file index, even
// duplicates, because annotations address vertices by index.
package pointcloud

import (
	"image/color"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
)

// MetaData is data about what's stored in the vertex set.
type MetaData struct {
	HasColor bool

	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// NewMetaData creates a new MetaData whose bounds are empty.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// Vertices is an ordered sequence of 3D points with RGB color, indexed 0..N-1. Colors has the
// same length as Positions; uncolored vertices carry the zero color.
type Vertices struct {
	Positions []r3.Vector
	Colors    []color.NRGBA

	hasColor bool
}

// NewVertices returns an empty, preallocated vertex set.
func NewVertices(size int) *Vertices {
	return &Vertices{
		Positions: make([]r3.Vector, 0, size),
		Colors:    make([]color.NRGBA, 0, size),
	}
}

// Len returns the number of vertices.
func (vs *Vertices) Len() int {
	return len(vs.Positions)
}

// MetaData returns the color flag and coordinate bounds of the vertex set. The bounds of an
// empty set are those of NewMetaData.
func (vs *Vertices) MetaData() MetaData {
	meta := NewMetaData()
	meta.HasColor = vs.hasColor
	if len(vs.Positions) == 0 {
		return meta
	}
	xs := make([]float64, len(vs.Positions))
	ys := make([]float64, len(vs.Positions))
	zs := make([]float64, len(vs.Positions))
	for i, p := range vs.Positions {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	meta.MinX, meta.MaxX = floats.Min(xs), floats.Max(xs)
	meta.MinY, meta.MaxY = floats.Min(ys), floats.Max(ys)
	meta.MinZ, meta.MaxZ = floats.Min(zs), floats.Max(zs)
	return meta
}

// Append adds an uncolored vertex at the next index.
func (vs *Vertices) Append(p r3.Vector) {
	vs.Positions = append(vs.Positions, p)
	vs.Colors = append(vs.Colors, color.NRGBA{})
}

// AppendColored adds a colored vertex at the next index.
func (vs *Vertices) AppendColored(p r3.Vector, c color.NRGBA) {
	vs.Positions = append(vs.Positions, p)
	vs.Colors = append(vs.Colors, c)
	vs.hasColor = true
}

// Select returns the positions at the given indices, in the order given.
func (vs *Vertices) Select(indices []int) []r3.Vector {
	selected := make([]r3.Vector, 0, len(indices))
	for _, idx := range indices {
		selected = append(selected, vs.Positions[idx])
	}
	return selected
}

// Where returns, in index order, the positions whose entry in labels equals label. labels must
// have one entry per vertex.
func (vs *Vertices) Where(labels []int, label int) []r3.Vector {
	var indices []int
	for idx, l := range labels {
		if l == label {
			indices = append(indices, idx)
		}
	}
	return vs.Select(indices)
}
