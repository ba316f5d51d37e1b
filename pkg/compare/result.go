package compare

import (
	"slices"

	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
	"github.com/Sumatoshi-tech/benchratio/pkg/report"
)

// Ratio is one named quotient of an entry.
type Ratio struct {
	Name  string
	Value float64
}

// Value is the raw measurement of one category at an entry's coordinate.
type Value struct {
	Category    catalog.Category
	Measurement report.Measurement
}

// Entry is the comparison output at one (action, file size, block size).
type Entry struct {
	Ratios []Ratio
	Values []Value
}

// Ratio returns the named ratio.
func (e Entry) Ratio(name string) (float64, bool) {
	for _, r := range e.Ratios {
		if r.Name == name {
			return r.Value, true
		}
	}

	return 0, false
}

// Value returns the raw measurement of a category.
func (e Entry) Value(category catalog.Category) (report.Measurement, bool) {
	for _, v := range e.Values {
		if v.Category == category {
			return v.Measurement, true
		}
	}

	return 0, false
}

// Coordinate addresses one cell of a report.
type Coordinate struct {
	FileSize  report.FileSize
	BlockSize report.BlockSize
}

type actionResult struct {
	fileSizes  []report.FileSize
	blockSizes map[report.FileSize][]report.BlockSize
	entries    map[Coordinate]Entry
}

// Result is the full comparison output. It is read-only once Run returns.
type Result struct {
	plan             Plan
	actions          []catalog.Action
	byAction         map[catalog.Action]*actionResult
	entries          int
	zeroDenominators int
}

// Plan returns the plan the result was computed with.
func (r *Result) Plan() Plan {
	return Plan{Driver: r.plan.Driver, Compared: slices.Clone(r.plan.Compared)}
}

// RatioNames returns the ratio field names carried by every entry.
func (r *Result) RatioNames() []string {
	return r.plan.RatioNames()
}

// Actions returns the compared actions in catalog order.
func (r *Result) Actions() []catalog.Action {
	return slices.Clone(r.actions)
}

// FileSizes returns the driver's file sizes for an action in parse order.
func (r *Result) FileSizes(action catalog.Action) []report.FileSize {
	ar, ok := r.byAction[action]
	if !ok {
		return nil
	}

	return slices.Clone(ar.fileSizes)
}

// BlockSizes returns the driver's block sizes for a row in column order.
func (r *Result) BlockSizes(action catalog.Action, fs report.FileSize) []report.BlockSize {
	ar, ok := r.byAction[action]
	if !ok {
		return nil
	}

	return slices.Clone(ar.blockSizes[fs])
}

// Entry returns the entry at a coordinate.
func (r *Result) Entry(action catalog.Action, fs report.FileSize, bs report.BlockSize) (Entry, bool) {
	ar, ok := r.byAction[action]
	if !ok {
		return Entry{}, false
	}

	e, ok := ar.entries[Coordinate{FileSize: fs, BlockSize: bs}]
	if !ok {
		return Entry{}, false
	}

	return Entry{Ratios: slices.Clone(e.Ratios), Values: slices.Clone(e.Values)}, true
}

// Len returns the total number of entries across all actions.
func (r *Result) Len() int {
	return r.entries
}

// ZeroDenominators returns how many ratios fell back to 0.0 because their
// denominator was zero.
func (r *Result) ZeroDenominators() int {
	return r.zeroDenominators
}
