// Package registry defines the compliance test hierarchy: one ordered
// suite of test definitions per object type, with typed prerequisite
// references between tests. A Registry is an explicitly constructed
// value passed to the runner, never process-wide state, so alternate
// hierarchies can coexist in tests.
package registry

import (
	"fmt"

	"github.com/ga4gh/rnaget-compliance-suite/results"
)

// TestDef is one node in a test suite. Prereqs are direct references to
// other definitions in the same suite; if any prerequisite did not
// pass, the runner records this test as skipped instead of running it.
type TestDef struct {
	Name         string
	Description  string
	Capabilities []string
	Prereqs      []*TestDef
	Run          func(t *T)
}

// Registry maps each object type to its ordered test suite.
type Registry struct {
	suites map[results.ObjectType][]*TestDef
}

func New() *Registry {
	return &Registry{suites: make(map[results.ObjectType][]*TestDef)}
}

// Register appends test definitions to an object type's suite, in
// execution order.
func (r *Registry) Register(objectType results.ObjectType, defs ...*TestDef) {
	r.suites[objectType] = append(r.suites[objectType], defs...)
}

// Suite returns the ordered test definitions for one object type.
func (r *Registry) Suite(objectType results.ObjectType) []*TestDef {
	return r.suites[objectType]
}

// Validate checks the structural soundness of every suite: test names
// are unique within a suite, every test has a Run function, and every
// prerequisite is a member of the same suite appearing strictly before
// its dependent. The ordering rule makes prerequisite cycles impossible
// by construction, so a valid registry is always executable front to
// back.
func (r *Registry) Validate() error {
	for _, objectType := range results.ObjectTypes {
		position := make(map[*TestDef]int)
		names := make(map[string]bool)
		for i, def := range r.suites[objectType] {
			if def.Name == "" {
				return fmt.Errorf("%s suite: test at position %d has no name", objectType, i)
			}
			if names[def.Name] {
				return fmt.Errorf("%s suite: duplicate test name %q", objectType, def.Name)
			}
			names[def.Name] = true
			if def.Run == nil {
				return fmt.Errorf("%s suite: test %q has no run function", objectType, def.Name)
			}
			for _, prereq := range def.Prereqs {
				if _, ok := position[prereq]; !ok {
					return fmt.Errorf("%s suite: test %q depends on %q, which does not precede it in the suite",
						objectType, def.Name, prereq.Name)
				}
			}
			position[def] = i
		}
	}
	return nil
}
