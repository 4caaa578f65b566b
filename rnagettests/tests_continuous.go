package rnagettests

import (
	"github.com/ga4gh/rnaget-compliance-suite/registry"
)

// continuousSuite covers the continuous signal resource. Like
// expressions, search depends on the formats endpoint.
func continuousSuite() []*registry.TestDef {
	formats := formatsTest("continuous", "continuous")
	getNotFound := getNotFoundTest("continuous", "continuous")
	search := &registry.TestDef{
		Name:         "continuous_search",
		Description:  "searches the continuous collection with the configured filter parameters",
		Capabilities: []string{"continuous_search"},
		Prereqs:      []*registry.TestDef{formats},
		Run: func(t *registry.T) {
			runArraySearch(t, "continuous_search", "continuous/search", t.Filters, "continuous")
		},
	}
	searchFilters := searchFiltersTest("continuous", "continuous")
	return []*registry.TestDef{formats, getNotFound, search, searchFilters}
}
