package rnagettests

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/ga4gh/rnaget-compliance-suite/client"
	"github.com/ga4gh/rnaget-compliance-suite/registry"
)

// collectionSuite builds the standard test hierarchy shared by the
// projects and studies resources: get by id, a negative get, search,
// search with URL parameters, and the search filters endpoint.
func collectionSuite(root, prefix string) []*registry.TestDef {
	get := getByIDTest(root, prefix)
	getNotFound := getNotFoundTest(root, prefix)
	search := searchTest(root, prefix)
	searchParams := searchURLParamsTest(root, prefix, search)
	searchFilters := searchFiltersTest(root, prefix)
	return []*registry.TestDef{get, getNotFound, search, searchParams, searchFilters}
}

func getByIDTest(root, prefix string) *registry.TestDef {
	name := prefix + "_get"
	return &registry.TestDef{
		Name:         name,
		Description:  "requests one " + prefix + " by id and validates the response",
		Capabilities: []string{prefix + "_get"},
		Run: func(t *registry.T) {
			path := root + "/" + t.ObjectID
			var resp *client.Response

			t.Case(name+":status", "GET "+path+" returns 200 OK", func(c *registry.Case) {
				r, ok := getExpectingStatus(t, c, path, nil, 200)
				if !ok {
					return
				}
				resp = r
				c.Pass("got 200 OK from %s", path)
			})

			t.Case(name+":schema", "response body is a "+prefix+" object", func(c *registry.Case) {
				if !skipUnlessResponse(c, resp) {
					return
				}
				v, ok := parseValue(c, resp, ldvalue.ObjectType)
				if !ok {
					return
				}
				if !checkStringField(c, v, "id") || !checkStringField(c, v, "name") {
					return
				}
				if got := v.GetByKey("id").StringValue(); got != t.ObjectID {
					c.Fail("returned %s has id %q, requested %q", prefix, got, t.ObjectID)
					return
				}
				c.Pass("response is a %s object with matching id", prefix)
			})
		},
	}
}

// getNotFoundTest is a negative test: requesting an id that cannot
// exist must fail with exactly 404. Any other outcome, including a 200,
// fails the test.
func getNotFoundTest(root, prefix string) *registry.TestDef {
	name := prefix + "_get_not_found"
	return &registry.TestDef{
		Name:         name,
		Description:  "requests a nonexistent " + prefix + " and expects 404 Not Found",
		Capabilities: []string{prefix + "_get"},
		Run: func(t *registry.T) {
			path := root + "/" + nonexistentID
			t.Case(name+":status", "GET "+path+" returns 404 Not Found", func(c *registry.Case) {
				if _, ok := getExpectingStatus(t, c, path, nil, 404); !ok {
					return
				}
				c.Pass("got 404 Not Found for nonexistent %s id", prefix)
			})
		},
	}
}

func searchTest(root, prefix string) *registry.TestDef {
	name := prefix + "_search"
	path := root + "/search"
	return &registry.TestDef{
		Name:         name,
		Description:  "searches the " + root + " collection without parameters",
		Capabilities: []string{prefix + "_search"},
		Run: func(t *registry.T) {
			runArraySearch(t, name, path, nil, prefix)
		},
	}
}

// searchURLParamsTest repeats the search with the instance's configured
// filter parameters. It only makes sense once the unfiltered search
// works, hence the prerequisite.
func searchURLParamsTest(root, prefix string, search *registry.TestDef) *registry.TestDef {
	name := prefix + "_search_url_params"
	path := root + "/search"
	return &registry.TestDef{
		Name:         name,
		Description:  "searches the " + root + " collection with the configured filter parameters",
		Capabilities: []string{prefix + "_search"},
		Prereqs:      []*registry.TestDef{search},
		Run: func(t *registry.T) {
			runArraySearch(t, name, path, t.Filters, prefix)
		},
	}
}

func searchFiltersTest(root, prefix string) *registry.TestDef {
	name := prefix + "_search_filters"
	path := root + "/search/filters"
	return &registry.TestDef{
		Name:         name,
		Description:  "retrieves the supported search filters for the " + root + " collection",
		Capabilities: []string{prefix + "_search_filters"},
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

			t.Case(name+":schema", "response body is an array of filter objects", func(c *registry.Case) {
				if !skipUnlessResponse(c, resp) {
					return
				}
				v, ok := parseValue(c, resp, ldvalue.ArrayType)
				if !ok {
					return
				}
				for i := 0; i < v.Count(); i++ {
					entry := v.GetByIndex(i)
					if entry.Type() != ldvalue.ObjectType {
						c.Fail("filter entry %d is %s, expected a JSON object", i, entry.Type())
						return
					}
					if !checkStringField(c, entry, "filter") {
						return
					}
				}
				c.Pass("all %d filter entries are well formed", v.Count())
			})
		},
	}
}

// runArraySearch issues a search request and checks that the response
// is an array of objects carrying ids.
func runArraySearch(t *registry.T, name, path string, query map[string]string, prefix string) {
	var resp *client.Response

	t.Case(name+":status", "GET "+path+" returns 200 OK", func(c *registry.Case) {
		r, ok := getExpectingStatus(t, c, path, query, 200)
		if !ok {
			return
		}
		resp = r
		c.Pass("got 200 OK from %s", path)
	})

	t.Case(name+":schema", "response body is an array of "+prefix+" objects", func(c *registry.Case) {
		if !skipUnlessResponse(c, resp) {
			return
		}
		v, ok := parseValue(c, resp, ldvalue.ArrayType)
		if !ok {
			return
		}
		for i := 0; i < v.Count(); i++ {
			entry := v.GetByIndex(i)
			if entry.Type() != ldvalue.ObjectType {
				c.Fail("search result %d is %s, expected a JSON object", i, entry.Type())
				return
			}
			if !checkStringField(c, entry, "id") {
				return
			}
		}
		c.Pass("search returned %d well formed %s objects", v.Count(), prefix)
	})
}
