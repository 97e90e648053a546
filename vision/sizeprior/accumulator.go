// Package sizeprior computes per-category mean box dimensions over a batch of annotated scans.
//
// Boxes are split by footprint orientation: a "wide" box has dx >= dy and a "tall" box has
// dy > dx. The first box seen for a category seeds both groups, so every category always ends up
// with all six means defined.
package sizeprior

import (
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/sizeprior/vision"
)

// Positions of the per-category lists and of the finalized means.
const (
	WideDX = iota
	WideDY
	WideDZ
	TallDX
	TallDY
	TallDZ
	numLists
)

// Accumulator collects box dimensions per category id. It is not safe for concurrent use.
type Accumulator struct {
	lists map[int]*[numLists][]float64
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{lists: map[int]*[numLists][]float64{}}
}

// Add folds one box's dimensions into its category. Category 0 is ignored.
func (acc *Accumulator) Add(category int, dx, dy, dz float64) {
	if category == 0 {
		return
	}
	lists, ok := acc.lists[category]
	if !ok {
		acc.lists[category] = &[numLists][]float64{{dx}, {dy}, {dz}, {dx}, {dy}, {dz}}
		return
	}
	if dy > dx {
		lists[TallDX] = append(lists[TallDX], dx)
		lists[TallDY] = append(lists[TallDY], dy)
		lists[TallDZ] = append(lists[TallDZ], dz)
	}
	if dx >= dy {
		lists[WideDX] = append(lists[WideDX], dx)
		lists[WideDY] = append(lists[WideDY], dy)
		lists[WideDZ] = append(lists[WideDZ], dz)
	}
}

// AddBoxes folds every box into the accumulator.
func (acc *Accumulator) AddBoxes(boxes []vision.InstanceBox) {
	for _, b := range boxes {
		acc.Add(b.CategoryID, b.DX, b.DY, b.DZ)
	}
}

// Categories returns the category ids seen so far, ascending.
func (acc *Accumulator) Categories() []int {
	categories := lo.Keys(acc.lists)
	sort.Ints(categories)
	return categories
}

// Count returns how many values each of a category's lists holds.
func (acc *Accumulator) Count(category int) [numLists]int {
	var counts [numLists]int
	if lists, ok := acc.lists[category]; ok {
		for i, l := range lists {
			counts[i] = len(l)
		}
	}
	return counts
}

// Finalize reduces every list to its mean.
func (acc *Accumulator) Finalize() (Table, error) {
	table := make(Table, len(acc.lists))
	for category, lists := range acc.lists {
		var means [numLists]float64
		for i, l := range lists {
			mean, err := stats.Mean(l)
			if err != nil {
				return nil, errors.Wrapf(err, "category %d", category)
			}
			means[i] = mean
		}
		table[category] = means
	}
	return table, nil
}
