package rnagettests

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/ga4gh/rnaget-compliance-suite/client"
	"github.com/ga4gh/rnaget-compliance-suite/registry"
)

// expressionSuite covers the expressions resource. Searching requires a
// matrix format, so the formats endpoint is a prerequisite of search.
func expressionSuite() []*registry.TestDef {
	formats := formatsTest("expressions", "expression")
	get := getByIDTest("expressions", "expression")
	getNotFound := getNotFoundTest("expressions", "expression")
	search := &registry.TestDef{
		Name:         "expression_search",
		Description:  "searches the expressions collection with the configured filter parameters",
		Capabilities: []string{"expression_search"},
		Prereqs:      []*registry.TestDef{formats},
		Run: func(t *registry.T) {
			runArraySearch(t, "expression_search", "expressions/search", t.Filters, "expression")
		},
	}
	searchFilters := searchFiltersTest("expressions", "expression")
	return []*registry.TestDef{formats, get, getNotFound, search, searchFilters}
}

// formatsTest checks the list of supported matrix file formats. A
// server must advertise at least one format for search to be usable.
func formatsTest(root, prefix string) *registry.TestDef {
	name := prefix + "_formats"
	path := root + "/formats"
	return &registry.TestDef{
		Name:         name,
		Description:  "retrieves the matrix file formats supported by the " + root + " endpoint",
		Capabilities: []string{prefix + "_formats"},
		Run: func(t *registry.T) {
			var resp *client.Response

			t.Case(name+":status", "GET "+path+" returns 200 OK", func(c *registry.Case) {
				r, ok := getExpectingStatus(t, c, path, nil, 200)
				if !ok {
					return
				}
				resp = r
				c.Pass("got 200 OK from %s", path)
			})

			t.Case(name+":schema", "response body is a non-empty array of format strings", func(c *registry.Case) {
				if !skipUnlessResponse(c, resp) {
					return
				}
				v, ok := parseValue(c, resp, ldvalue.ArrayType)
				if !ok {
					return
				}
				if v.Count() == 0 {
					c.Fail("server advertises no supported formats")
					return
				}
				for i := 0; i < v.Count(); i++ {
					if v.GetByIndex(i).Type() != ldvalue.StringType {
						c.Fail("format entry %d is %s, expected a string", i, v.GetByIndex(i).Type())
						return
					}
				}
				c.Pass("server advertises %d supported formats", v.Count())
			})
		},
	}
}
