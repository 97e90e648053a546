// Package classification maps raw annotation labels onto a canonical category set.
package classification

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"

	"go.viam.com/sizeprior/utils"
)

// LabelMap maps raw annotation labels to integer category ids. Labels it does not know map to 0.
type LabelMap struct {
	ids map[string]int
}

// NewLabelMap returns a LabelMap over the given label to id pairs.
func NewLabelMap(ids map[string]int) *LabelMap {
	lm := &LabelMap{ids: make(map[string]int, len(ids))}
	for label, id := range ids {
		lm.ids[label] = id
	}
	return lm
}

// ReadLabelMap reads a tab separated mapping table with a header row, taking raw labels from
// column labelFrom and category ids from column labelTo. An empty id cell maps to 0; a later row
// for the same raw label overrides an earlier one.
func ReadLabelMap(path, labelFrom, labelTo string) (*LabelMap, error) {
	if err := utils.CheckFileExists(path); err != nil {
		return nil, err
	}
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lm, err := ParseLabelMap(f, labelFrom, labelTo)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read label map %q", path)
	}
	return lm, nil
}

// ParseLabelMap is ReadLabelMap over an arbitrary reader.
func ParseLabelMap(r io.Reader, labelFrom, labelTo string) (*LabelMap, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("label map is empty")
		}
		return nil, err
	}
	fromCol, toCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case labelFrom:
			fromCol = i
		case labelTo:
			toCol = i
		}
	}
	if fromCol < 0 {
		return nil, errors.Errorf("label map has no %q column", labelFrom)
	}
	if toCol < 0 {
		return nil, errors.Errorf("label map has no %q column", labelTo)
	}

	lm := &LabelMap{ids: map[string]int{}}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) <= fromCol {
			continue
		}
		label := record[fromCol]
		var id int
		if toCol < len(record) && strings.TrimSpace(record[toCol]) != "" {
			f, err := cast.ToFloat64E(strings.TrimSpace(record[toCol]))
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: bad %s value", line, labelTo)
			}
			id = int(f)
		}
		lm.ids[label] = id
	}
	return lm, nil
}

// ID returns the category id of a raw label, or 0 if the label is unmapped.
func (lm *LabelMap) ID(label string) int {
	return lm.ids[label]
}

// Len returns the number of raw labels known.
func (lm *LabelMap) Len() int {
	return len(lm.ids)
}

// Categories returns the distinct non-zero category ids, ascending.
func (lm *LabelMap) Categories() []int {
	categories := lo.Uniq(lo.Filter(lo.Values(lm.ids), func(id, _ int) bool {
		return id != 0
	}))
	sort.Ints(categories)
	return categories
}
