package rnagettests

import (
	"github.com/ga4gh/rnaget-compliance-suite/registry"
	"github.com/ga4gh/rnaget-compliance-suite/results"
)

// BuildRegistry constructs the full RNAget compliance hierarchy. The
// result is a plain value: callers can build as many registries as they
// want, and tests can build reduced ones.
func BuildRegistry() *registry.Registry {
	r := registry.New()
	r.Register(results.ObjectTypeProjects, collectionSuite("projects", "project")...)
	r.Register(results.ObjectTypeStudies, collectionSuite("studies", "study")...)
	r.Register(results.ObjectTypeExpressions, expressionSuite()...)
	r.Register(results.ObjectTypeContinuous, continuousSuite()...)
	return r
}
