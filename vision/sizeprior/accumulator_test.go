package sizeprior

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/sizeprior/vision"
)

func TestAccumulatorSeed(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(7, 2, 1, 0.5)
	test.That(t, acc.Categories(), test.ShouldResemble, []int{7})
	test.That(t, acc.Count(7), test.ShouldResemble, [numLists]int{1, 1, 1, 1, 1, 1})

	table, err := acc.Finalize()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, table[7], test.ShouldResemble, [numLists]float64{2, 1, 0.5, 2, 1, 0.5})
}

func TestAccumulatorBuckets(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(7, 2, 1, 1)

	// wide
	acc.Add(7, 4, 1, 1)
	test.That(t, acc.Count(7), test.ShouldResemble, [numLists]int{2, 2, 2, 1, 1, 1})
	// tall
	acc.Add(7, 1, 3, 2)
	test.That(t, acc.Count(7), test.ShouldResemble, [numLists]int{2, 2, 2, 2, 2, 2})
	// square footprints count as wide
	acc.Add(7, 3, 3, 3)
	test.That(t, acc.Count(7), test.ShouldResemble, [numLists]int{3, 3, 3, 2, 2, 2})

	table, err := acc.Finalize()
	test.That(t, err, test.ShouldBeNil)
	means := table[7]
	test.That(t, means[WideDX], test.ShouldAlmostEqual, 3)
	test.That(t, means[WideDY], test.ShouldAlmostEqual, 5.0/3)
	test.That(t, means[WideDZ], test.ShouldAlmostEqual, 5.0/3)
	test.That(t, means[TallDX], test.ShouldAlmostEqual, 1.5)
	test.That(t, means[TallDY], test.ShouldAlmostEqual, 2)
	test.That(t, means[TallDZ], test.ShouldAlmostEqual, 1.5)
}

func TestAccumulatorExactlyOneBucket(t *testing.T) {
	for _, tc := range []struct {
		name       string
		dx, dy     float64
		wide, tall int
	}{
		{"wide", 2, 1, 1, 0},
		{"tall", 1, 2, 0, 1},
		{"square", 1, 1, 1, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			acc := NewAccumulator()
			acc.Add(3, 1, 1, 1)
			before := acc.Count(3)
			acc.Add(3, tc.dx, tc.dy, 1)
			after := acc.Count(3)
			test.That(t, after[WideDX]-before[WideDX], test.ShouldEqual, tc.wide)
			test.That(t, after[TallDX]-before[TallDX], test.ShouldEqual, tc.tall)
		})
	}
}

func TestAccumulatorIgnoresCategoryZero(t *testing.T) {
	acc := NewAccumulator()
	acc.AddBoxes([]vision.InstanceBox{
		{CategoryID: 0, DX: 1, DY: 1, DZ: 1},
		{CategoryID: 9, DX: 1, DY: 2, DZ: 1},
		{CategoryID: 4, DX: 1, DY: 2, DZ: 1},
	})
	test.That(t, acc.Categories(), test.ShouldResemble, []int{4, 9})
	test.That(t, acc.Count(0), test.ShouldResemble, [numLists]int{})

	table, err := NewAccumulator().Finalize()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, table, test.ShouldBeEmpty)
}
