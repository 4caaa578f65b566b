package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ga4gh/rnaget-compliance-suite/results"
)

func noopRun(t *T) {}

func def(name string, prereqs ...*TestDef) *TestDef {
	return &TestDef{Name: name, Description: name, Prereqs: prereqs, Run: noopRun}
}

func TestValidateAcceptsOrderedSuite(t *testing.T) {
	r := New()
	a := def("a")
	b := def("b", a)
	c := def("c", a, b)
	r.Register(results.ObjectTypeProjects, a, b, c)

	assert.NoError(t, r.Validate())
}

func TestValidateRejectsDuplicateNames(t *testing.T) {
	r := New()
	r.Register(results.ObjectTypeProjects, def("same"), def("same"))
	assert.ErrorContains(t, r.Validate(), "duplicate test name")
}

func TestValidateRejectsMissingRunFunc(t *testing.T) {
	r := New()
	r.Register(results.ObjectTypeProjects, &TestDef{Name: "broken"})
	assert.ErrorContains(t, r.Validate(), "no run function")
}

func TestValidateRejectsUnnamedTest(t *testing.T) {
	r := New()
	r.Register(results.ObjectTypeProjects, &TestDef{Run: noopRun})
	assert.ErrorContains(t, r.Validate(), "has no name")
}

func TestValidateRejectsPrereqAfterDependent(t *testing.T) {
	r := New()
	later := def("later")
	first := def("first", later)
	r.Register(results.ObjectTypeProjects, first, later)
	assert.ErrorContains(t, r.Validate(), "does not precede")
}

func TestValidateRejectsPrereqCycle(t *testing.T) {
	// A cycle cannot satisfy the must-precede rule in any order.
	r := New()
	a := def("a")
	b := def("b", a)
	a.Prereqs = []*TestDef{b}
	r.Register(results.ObjectTypeProjects, a, b)
	assert.Error(t, r.Validate())
}

func TestValidateRejectsPrereqFromOtherSuite(t *testing.T) {
	r := New()
	foreign := def("foreign")
	r.Register(results.ObjectTypeStudies, foreign)
	r.Register(results.ObjectTypeProjects, def("p", foreign))
	assert.Error(t, r.Validate())
}

func TestSuiteKeepsRegistrationOrder(t *testing.T) {
	r := New()
	a, b := def("a"), def("b")
	r.Register(results.ObjectTypeContinuous, a)
	r.Register(results.ObjectTypeContinuous, b)

	suite := r.Suite(results.ObjectTypeContinuous)
	require.Len(t, suite, 2)
	assert.Same(t, a, suite[0])
	assert.Same(t, b, suite[1])
}
