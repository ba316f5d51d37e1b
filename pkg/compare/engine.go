// Package compare joins the reports of a driver category against one or more
// compared categories at identical (action, file size, block size)
// coordinates and computes performance ratios.
package compare

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
	"github.com/Sumatoshi-tech/benchratio/pkg/report"
	"github.com/Sumatoshi-tech/benchratio/pkg/store"
)

// ErrJoinKeyMissing indicates a driver coordinate that a compared category
// does not have. The engine never skips or defaults such a coordinate.
var ErrJoinKeyMissing = errors.New("join key missing")

// JoinError locates a missing join key.
type JoinError struct {
	Action    catalog.Action
	Category  catalog.Category
	FileSize  report.FileSize
	BlockSize report.BlockSize
	// NoReport is set when the whole report is absent for the action.
	NoReport bool
}

func (e *JoinError) Error() string {
	if e.NoReport {
		return fmt.Sprintf("%v: %s has no report for %s", ErrJoinKeyMissing, e.Category, e.Action)
	}

	return fmt.Sprintf("%v: %s/%s file size %d block size %d",
		ErrJoinKeyMissing, e.Category, e.Action, e.FileSize, e.BlockSize)
}

func (e *JoinError) Unwrap() error {
	return ErrJoinKeyMissing
}

// Divide returns num/den, or exactly 0.0 when den is zero.
func Divide(num, den report.Measurement) float64 {
	if den == 0 {
		return 0.0
	}

	return float64(num) / float64(den)
}

// Run walks every action of the store using the driver's report as the key
// space and builds a Result. The store is only read.
func Run(ctx context.Context, st *store.Store, plan Plan) (*Result, error) {
	validateErr := plan.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	for _, category := range plan.Categories() {
		if !st.HasCategory(category) {
			return nil, fmt.Errorf("%w: category %s not loaded", ErrInvalidPlan, category)
		}
	}

	res := &Result{
		plan:     Plan{Driver: plan.Driver, Compared: append([]catalog.Category(nil), plan.Compared...)},
		actions:  st.Actions(),
		byAction: make(map[catalog.Action]*actionResult),
	}

	terms := plan.terms()

	for _, action := range res.actions {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			return nil, fmt.Errorf("compare canceled: %w", ctxErr)
		}

		ar, err := res.compareAction(st, action, terms)
		if err != nil {
			return nil, err
		}

		res.byAction[action] = ar
	}

	return res, nil
}

func (r *Result) compareAction(st *store.Store, action catalog.Action, terms []ratioTerm) (*actionResult, error) {
	categories := r.plan.Categories()
	reports := make([]*report.Report, len(categories))

	for i, category := range categories {
		rep, ok := st.Report(category, action)
		if !ok {
			return nil, &JoinError{Action: action, Category: category, NoReport: true}
		}

		reports[i] = rep
	}

	driver := reports[0]
	blockSizes := uniqueBlockSizes(driver.BlockSizes())

	ar := &actionResult{
		fileSizes:  driver.FileSizes(),
		blockSizes: make(map[report.FileSize][]report.BlockSize, driver.Len()),
		entries:    make(map[Coordinate]Entry, driver.Len()*len(blockSizes)),
	}

	values := make([]report.Measurement, len(reports))

	for _, fs := range ar.fileSizes {
		ar.blockSizes[fs] = blockSizes

		for _, bs := range blockSizes {
			for i, rep := range reports {
				m, ok := rep.Measurement(fs, bs)
				if !ok {
					return nil, &JoinError{Action: action, Category: categories[i], FileSize: fs, BlockSize: bs}
				}

				values[i] = m
			}

			ar.entries[Coordinate{FileSize: fs, BlockSize: bs}] = r.buildEntry(categories, values, terms)
		}
	}

	return ar, nil
}

func (r *Result) buildEntry(categories []catalog.Category, values []report.Measurement, terms []ratioTerm) Entry {
	entry := Entry{
		Ratios: make([]Ratio, len(terms)),
		Values: make([]Value, len(values)),
	}

	for i, t := range terms {
		den := values[t.denominator]
		if den == 0 {
			r.zeroDenominators++
		}

		entry.Ratios[i] = Ratio{Name: t.name, Value: Divide(values[t.numerator], den)}
	}

	for i, v := range values {
		entry.Values[i] = Value{Category: categories[i], Measurement: v}
	}

	r.entries++

	return entry
}

// uniqueBlockSizes drops repeated column keys, keeping the first position.
func uniqueBlockSizes(in []report.BlockSize) []report.BlockSize {
	seen := make(map[report.BlockSize]struct{}, len(in))
	out := in[:0]

	for _, bs := range in {
		if _, dup := seen[bs]; dup {
			continue
		}

		seen[bs] = struct{}{}
		out = append(out, bs)
	}

	return out
}
