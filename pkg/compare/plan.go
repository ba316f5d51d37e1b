package compare

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
)

const (
	// RatioName is the field name used when exactly one category is compared.
	RatioName = "ratio"

	ratioPrefix  = "ratio_"
	labelLetters = 26
	labelOverrun = "x"
)

// ErrInvalidPlan indicates a plan that cannot drive a comparison.
var ErrInvalidPlan = errors.New("invalid comparison plan")

// Plan selects the driver category and the ordered categories compared to it.
type Plan struct {
	Driver   catalog.Category
	Compared []catalog.Category
}

// DefaultPlan compares netapp against nfsv4 and filestore. In that order
// the ratios are netapp/nfsv4, netapp/filestore and nfsv4/filestore.
func DefaultPlan() Plan {
	return Plan{
		Driver:   catalog.CategoryNetApp,
		Compared: []catalog.Category{catalog.CategoryNFSv4, catalog.CategoryFilestore},
	}
}

// Validate checks the plan shape: a driver, at least one compared category,
// no duplicates, and the driver not compared against itself.
func (p Plan) Validate() error {
	if p.Driver == "" {
		return fmt.Errorf("%w: driver category is empty", ErrInvalidPlan)
	}

	if len(p.Compared) == 0 {
		return fmt.Errorf("%w: no compared categories", ErrInvalidPlan)
	}

	seen := make(map[catalog.Category]struct{}, len(p.Compared))

	for _, c := range p.Compared {
		if c == "" {
			return fmt.Errorf("%w: compared category is empty", ErrInvalidPlan)
		}

		if c == p.Driver {
			return fmt.Errorf("%w: driver %s is also compared", ErrInvalidPlan, c)
		}

		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: %s compared twice", ErrInvalidPlan, c)
		}

		seen[c] = struct{}{}
	}

	return nil
}

// Categories returns the driver followed by the compared categories.
func (p Plan) Categories() []catalog.Category {
	out := make([]catalog.Category, 0, len(p.Compared)+1)
	out = append(out, p.Driver)

	return append(out, p.Compared...)
}

// Label returns the short label of the i-th compared category: a, b, c...
func Label(i int) string {
	if i < labelLetters {
		return string(rune('a' + i))
	}

	return labelOverrun + strconv.Itoa(i)
}

// ratioTerm describes how one named ratio is computed. Indices address
// Plan.Categories(), so 0 is the driver.
type ratioTerm struct {
	name        string
	numerator   int
	denominator int
}

// terms lists the ratios of a plan in output order. A single compared
// category yields one "ratio"; more yield driver-vs-each ratios followed by
// pairwise ratios among the compared categories.
func (p Plan) terms() []ratioTerm {
	if len(p.Compared) == 1 {
		return []ratioTerm{{name: RatioName, numerator: 0, denominator: 1}}
	}

	n := len(p.Compared)
	terms := make([]ratioTerm, 0, n+n*(n-1)/2)

	for i := range n {
		terms = append(terms, ratioTerm{name: ratioPrefix + Label(i), numerator: 0, denominator: i + 1})
	}

	for i := range n {
		for j := i + 1; j < n; j++ {
			terms = append(terms, ratioTerm{
				name:        ratioPrefix + Label(i) + Label(j),
				numerator:   i + 1,
				denominator: j + 1,
			})
		}
	}

	return terms
}

// RatioNames returns the ratio field names the plan produces, in order.
func (p Plan) RatioNames() []string {
	terms := p.terms()
	names := make([]string, len(terms))

	for i, t := range terms {
		names[i] = t.name
	}

	return names
}
