package sizeprior

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/sizeprior/utils"
)

// Table maps a category id to its six mean dimensions, indexed by WideDX through TallDZ.
type Table map[int][numLists]float64

// Categories returns the table's category ids, ascending.
func (t Table) Categories() []int {
	categories := lo.Keys(t)
	sort.Ints(categories)
	return categories
}

// MarshalJSON encodes the table as an object keyed by decimal category id.
func (t Table) MarshalJSON() ([]byte, error) {
	out := make(map[string][numLists]float64, len(t))
	for category, means := range t {
		out[strconv.Itoa(category)] = means
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a table written by MarshalJSON.
func (t *Table) UnmarshalJSON(data []byte) error {
	var in map[string][numLists]float64
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	out := make(Table, len(in))
	for key, means := range in {
		category, err := strconv.Atoi(key)
		if err != nil {
			return errors.Errorf("bad category id %q", key)
		}
		out[category] = means
	}
	*t = out
	return nil
}

// WriteFile persists the table as JSON.
func (t Table) WriteFile(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	//nolint:gosec
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ReadTableFile reads a table persisted by WriteFile.
func ReadTableFile(path string) (Table, error) {
	if err := utils.CheckFileExists(path); err != nil {
		return nil, err
	}
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrapf(err, "cannot parse size prior table %q", path)
	}
	return t, nil
}

// String prints out a table of each category with its wide and tall mean dimensions.
func (t Table) String() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Category", "Wide DX", "Wide DY", "Wide DZ", "Tall DX", "Tall DY", "Tall DZ"})
	for _, category := range t.Categories() {
		means := t[category]
		row := table.Row{category}
		for _, m := range means {
			row = append(row, fmt.Sprintf("%.3f", m))
		}
		tw.AppendRow(row)
	}
	return tw.Render()
}
