// Package catalog holds the static tables a comparison run is built from:
// the closed set of benchmark workload actions and the storage backend
// categories together with their report filename prefixes.
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// Category identifies a storage backend whose reports are compared.
type Category string

// Action identifies a benchmark workload pattern.
type Action string

// Workload actions produced by the benchmark suite.
const (
	ActionBackwardRead  Action = "backward-read"
	ActionFRead         Action = "fread"
	ActionFWrite        Action = "fwrite"
	ActionRandomRead    Action = "random-read"
	ActionRandomWrite   Action = "random-write"
	ActionReFRead       Action = "re-fread"
	ActionReFWrite      Action = "re-fwrite"
	ActionReader        Action = "reader"
	ActionRecordRewrite Action = "record-rewrite"
	ActionRereader      Action = "rereader"
	ActionRewriter      Action = "rewriter"
	ActionStrideRead    Action = "stride-read"
	ActionWriter        Action = "writer"
)

// Default backend categories.
const (
	CategoryFilestore Category = "filestore"
	CategoryNetApp    Category = "netapp"
	CategoryNFSv4     Category = "nfsv4"
)

// Sentinel errors for catalog validation.
var (
	// ErrNoActions indicates the catalog declares no actions.
	ErrNoActions = errors.New("catalog declares no actions")
	// ErrNoCategories indicates the catalog declares no categories.
	ErrNoCategories = errors.New("catalog declares no categories")
	// ErrDuplicateAction indicates an action is declared twice.
	ErrDuplicateAction = errors.New("duplicate action")
	// ErrDuplicateCategory indicates a category is declared twice.
	ErrDuplicateCategory = errors.New("duplicate category")
	// ErrEmptyName indicates an action or category with an empty name.
	ErrEmptyName = errors.New("empty name")
	// ErrEmptyPrefix indicates a category without a filename prefix.
	ErrEmptyPrefix = errors.New("empty filename prefix")
	// ErrUnknownCategory indicates a lookup for a category the catalog does not declare.
	ErrUnknownCategory = errors.New("unknown category")
)

// CategorySpec binds a category to the prefix its report files carry.
type CategorySpec struct {
	Name   Category
	Prefix string
}

// Catalog is the full set of categories and actions for one run.
// Order is preserved: it drives load order and output iteration.
type Catalog struct {
	Categories []CategorySpec
	Actions    []Action
}

// DefaultActions returns the 13 workload actions in their canonical order.
func DefaultActions() []Action {
	return []Action{
		ActionBackwardRead,
		ActionFRead,
		ActionFWrite,
		ActionRandomRead,
		ActionRandomWrite,
		ActionReFRead,
		ActionReFWrite,
		ActionReader,
		ActionRecordRewrite,
		ActionRereader,
		ActionRewriter,
		ActionStrideRead,
		ActionWriter,
	}
}

// DefaultCategories returns the backends compared out of the box.
func DefaultCategories() []CategorySpec {
	return []CategorySpec{
		{Name: CategoryFilestore, Prefix: "fs1"},
		{Name: CategoryNetApp, Prefix: "na1"},
		{Name: CategoryNFSv4, Prefix: "nfsv4"},
	}
}

// Default returns a catalog with the default categories and actions.
func Default() Catalog {
	return Catalog{
		Categories: DefaultCategories(),
		Actions:    DefaultActions(),
	}
}

// Validate checks that the catalog is non-empty and free of duplicates.
func (c Catalog) Validate() error {
	if len(c.Actions) == 0 {
		return ErrNoActions
	}

	if len(c.Categories) == 0 {
		return ErrNoCategories
	}

	seenActions := make(map[Action]struct{}, len(c.Actions))

	for _, action := range c.Actions {
		if action == "" {
			return fmt.Errorf("action: %w", ErrEmptyName)
		}

		if _, dup := seenActions[action]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateAction, action)
		}

		seenActions[action] = struct{}{}
	}

	seenCategories := make(map[Category]struct{}, len(c.Categories))

	for _, spec := range c.Categories {
		if spec.Name == "" {
			return fmt.Errorf("category: %w", ErrEmptyName)
		}

		if spec.Prefix == "" {
			return fmt.Errorf("category %s: %w", spec.Name, ErrEmptyPrefix)
		}

		if _, dup := seenCategories[spec.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, spec.Name)
		}

		seenCategories[spec.Name] = struct{}{}
	}

	return nil
}

// Prefix returns the filename prefix for a category.
func (c Catalog) Prefix(category Category) (string, error) {
	for _, spec := range c.Categories {
		if spec.Name == category {
			return spec.Prefix, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownCategory, category)
}

// Has reports whether the catalog declares the category.
func (c Catalog) Has(category Category) bool {
	return slices.ContainsFunc(c.Categories, func(spec CategorySpec) bool {
		return spec.Name == category
	})
}

// CategoryNames returns the declared categories in order.
func (c Catalog) CategoryNames() []Category {
	names := make([]Category, len(c.Categories))
	for i, spec := range c.Categories {
		names[i] = spec.Name
	}

	return names
}

// ReportName returns the base filename (without extension) of the report
// for a category and action, e.g. "na1-fwrite".
func ReportName(prefix string, action Action) string {
	return prefix + "-" + string(action)
}
