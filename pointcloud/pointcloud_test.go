package pointcloud

import (
	"image/color"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestVerticesBasics(t *testing.T) {
	vs := NewVertices(0)
	test.That(t, vs.Len(), test.ShouldEqual, 0)
	meta := vs.MetaData()
	test.That(t, meta.HasColor, test.ShouldBeFalse)
	test.That(t, meta.MinX, test.ShouldEqual, math.MaxFloat64)

	vs.Append(r3.Vector{X: 1, Y: 2, Z: 3})
	vs.Append(r3.Vector{X: 1, Y: 2, Z: 3})
	vs.AppendColored(r3.Vector{X: -1, Y: 5, Z: 0}, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	// duplicates keep their own index
	test.That(t, vs.Len(), test.ShouldEqual, 3)
	test.That(t, vs.Colors, test.ShouldHaveLength, 3)
	test.That(t, vs.Colors[0], test.ShouldResemble, color.NRGBA{})
	test.That(t, vs.Colors[2].G, test.ShouldEqual, uint8(20))

	meta = vs.MetaData()
	test.That(t, meta.HasColor, test.ShouldBeTrue)
	test.That(t, meta.MinX, test.ShouldEqual, -1.0)
	test.That(t, meta.MaxX, test.ShouldEqual, 1.0)
	test.That(t, meta.MinY, test.ShouldEqual, 2.0)
	test.That(t, meta.MaxY, test.ShouldEqual, 5.0)
	test.That(t, meta.MinZ, test.ShouldEqual, 0.0)
	test.That(t, meta.MaxZ, test.ShouldEqual, 3.0)
}

func TestVerticesSelectAndWhere(t *testing.T) {
	vs := NewVertices(4)
	for i := 0; i < 4; i++ {
		vs.Append(r3.Vector{X: float64(i)})
	}

	selected := vs.Select([]int{3, 0})
	test.That(t, selected, test.ShouldResemble, []r3.Vector{{X: 3}, {X: 0}})
	test.That(t, vs.Select(nil), test.ShouldHaveLength, 0)

	labels := []int{7, 0, 7, 2}
	test.That(t, vs.Where(labels, 7), test.ShouldResemble, []r3.Vector{{X: 0}, {X: 2}})
	test.That(t, vs.Where(labels, 2), test.ShouldResemble, []r3.Vector{{X: 3}})
	test.That(t, vs.Where(labels, 5), test.ShouldBeEmpty)
}
