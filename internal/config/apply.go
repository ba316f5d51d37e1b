package config

import (
	"fmt"

	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
	"github.com/Sumatoshi-tech/benchratio/pkg/compare"
)

// ToCatalog converts the configured actions and categories into a validated
// catalog.
func (c *Config) ToCatalog() (catalog.Catalog, error) {
	cat := catalog.Catalog{
		Categories: make([]catalog.CategorySpec, 0, len(c.Categories)),
		Actions:    make([]catalog.Action, 0, len(c.Actions)),
	}

	for _, spec := range c.Categories {
		cat.Categories = append(cat.Categories, catalog.CategorySpec{
			Name:   catalog.Category(spec.Name),
			Prefix: spec.Prefix,
		})
	}

	for _, action := range c.Actions {
		cat.Actions = append(cat.Actions, catalog.Action(action))
	}

	err := cat.Validate()
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("catalog: %w", err)
	}

	return cat, nil
}

// ToPlan converts the comparison section into a validated plan.
func (c *Config) ToPlan() (compare.Plan, error) {
	plan := compare.Plan{
		Driver:   catalog.Category(c.Comparison.Driver),
		Compared: make([]catalog.Category, 0, len(c.Comparison.Compared)),
	}

	for _, name := range c.Comparison.Compared {
		plan.Compared = append(plan.Compared, catalog.Category(name))
	}

	err := plan.Validate()
	if err != nil {
		return compare.Plan{}, fmt.Errorf("comparison: %w", err)
	}

	return plan, nil
}
