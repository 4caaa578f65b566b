// Package rnagettests contains the compliance test hierarchy for the
// RNAget API: one suite per object type (projects, studies,
// expressions, continuous), each an ordered sequence of test
// definitions with explicit prerequisites.
package rnagettests
