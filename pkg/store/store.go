// Package store loads every (category, action) report of a catalog into an
// immutable three-level lookup: category -> action -> parsed report.
package store

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
	"github.com/Sumatoshi-tech/benchratio/pkg/report"
)

// Store is the fully populated report corpus of one run.
type Store struct {
	categories []catalog.Category
	actions    []catalog.Action
	reports    map[catalog.Category]map[catalog.Action]*report.Report
}

// Load reads and parses every report the catalog declares. Any missing or
// malformed report aborts the load; no partial store is returned.
func Load(ctx context.Context, cat catalog.Catalog, src Source) (*Store, error) {
	validateErr := cat.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid catalog: %w", validateErr)
	}

	st := &Store{
		categories: cat.CategoryNames(),
		actions:    slices.Clone(cat.Actions),
		reports:    make(map[catalog.Category]map[catalog.Action]*report.Report, len(cat.Categories)),
	}

	for _, category := range st.categories {
		byAction := make(map[catalog.Action]*report.Report, len(st.actions))

		for _, action := range st.actions {
			ctxErr := ctx.Err()
			if ctxErr != nil {
				return nil, fmt.Errorf("load canceled: %w", ctxErr)
			}

			rep, err := loadOne(src, category, action)
			if err != nil {
				return nil, err
			}

			byAction[action] = rep
		}

		st.reports[category] = byAction
	}

	return st, nil
}

func loadOne(src Source, category catalog.Category, action catalog.Action) (*report.Report, error) {
	data, err := src.Read(category, action)
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", category, action, err)
	}

	rep, err := report.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s/%s: %w", category, action, err)
	}

	return rep, nil
}

// Report returns the parsed report for a category and action.
func (s *Store) Report(category catalog.Category, action catalog.Action) (*report.Report, bool) {
	byAction, ok := s.reports[category]
	if !ok {
		return nil, false
	}

	rep, ok := byAction[action]

	return rep, ok
}

// Categories returns the loaded categories in catalog order.
func (s *Store) Categories() []catalog.Category {
	return slices.Clone(s.categories)
}

// Actions returns the loaded actions in catalog order.
func (s *Store) Actions() []catalog.Action {
	return slices.Clone(s.actions)
}

// HasCategory reports whether the store holds reports for the category.
func (s *Store) HasCategory(category catalog.Category) bool {
	_, ok := s.reports[category]

	return ok
}

// Len returns the number of loaded reports.
func (s *Store) Len() int {
	return len(s.categories) * len(s.actions)
}
