// Package spatialmath defines the planar geometry used to fit boxes around annotated instances.
package spatialmath

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// RotatedRect is a rectangle of arbitrary orientation in the plane. Angle is in degrees and is
// the direction of the Width side measured counterclockwise from +X.
type RotatedRect struct {
	Center r2.Point
	Width  float64
	Height float64
	Angle  float64
}

// Area returns the area of the rectangle.
func (rr RotatedRect) Area() float64 {
	return rr.Width * rr.Height
}

// MinAreaRect returns the smallest-area rectangle enclosing points.
//
// The angle is normalized to (0, 90]; each 90 degree turn applied during normalization swaps
// Width and Height, so the same rectangle always comes back the same way. An empty input yields
// the zero rectangle, a single distinct point a zero-sized rectangle at that point, and
// collinear points a rectangle of zero Height.
func MinAreaRect(points []r2.Point) RotatedRect {
	if len(points) == 0 {
		return RotatedRect{}
	}
	hull := ConvexHull(points)

	best := RotatedRect{Center: hull[0], Angle: 90}
	bestArea := math.Inf(1)
	for i := range hull {
		edge := hull[(i+1)%len(hull)].Sub(hull[i])
		if edge.Norm() == 0 {
			continue
		}
		rr := fitAlong(hull, edge.Normalize())
		// strict so that the first edge wins ties
		if area := rr.Area(); area < bestArea {
			best, bestArea = rr, area
		}
	}
	return normalizeRect(best)
}

// fitAlong returns the bounding rectangle of hull whose Width side runs along the unit vector u.
func fitAlong(hull []r2.Point, u r2.Point) RotatedRect {
	n := u.Ortho()
	minU, maxU := math.Inf(1), math.Inf(-1)
	minN, maxN := math.Inf(1), math.Inf(-1)
	for _, p := range hull {
		pu, pn := p.Dot(u), p.Dot(n)
		minU, maxU = math.Min(minU, pu), math.Max(maxU, pu)
		minN, maxN = math.Min(minN, pn), math.Max(maxN, pn)
	}
	center := u.Mul((minU + maxU) / 2).Add(n.Mul((minN + maxN) / 2))
	return RotatedRect{
		Center: center,
		Width:  maxU - minU,
		Height: maxN - minN,
		Angle:  math.Atan2(u.Y, u.X) * 180 / math.Pi,
	}
}

func normalizeRect(rr RotatedRect) RotatedRect {
	for rr.Angle <= 0 {
		rr.Angle += 90
		rr.Width, rr.Height = rr.Height, rr.Width
	}
	for rr.Angle > 90 {
		rr.Angle -= 90
		rr.Width, rr.Height = rr.Height, rr.Width
	}
	return rr
}

// ConvexHull returns the convex hull of points in counterclockwise order starting from the
// lowest-leftmost point. Collinear boundary points are dropped. The input is not modified.
func ConvexHull(points []r2.Point) []r2.Point {
	sorted := make([]r2.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	if len(sorted) < 3 {
		return sorted
	}

	// Andrew's monotone chain
	hull := make([]r2.Point, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// turn is positive when a, b, c make a counterclockwise turn.
func turn(a, b, c r2.Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}
