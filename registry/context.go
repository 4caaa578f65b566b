package registry

import (
	"fmt"

	"github.com/ga4gh/rnaget-compliance-suite/client"
	"github.com/ga4gh/rnaget-compliance-suite/logging"
	"github.com/ga4gh/rnaget-compliance-suite/results"
)

// T is the execution context handed to a test's Run function. It
// carries the shared API client and the object instance under test, and
// collects the cases the test emits.
type T struct {
	Client   *client.APIClient
	ObjectID string
	Filters  map[string]string

	cases []results.CaseRecord
}

// NewT creates an execution context for one test against one object
// instance.
func NewT(apiClient *client.APIClient, objectID string, filters map[string]string) *T {
	return &T{Client: apiClient, ObjectID: objectID, Filters: filters}
}

// Case runs one fine-grained assertion. The case passes unless the run
// function marks it otherwise; everything logged through the case's
// logger becomes part of its audit trail.
func (t *T) Case(name, description string, run func(c *Case)) {
	c := &Case{
		name:        name,
		description: description,
		status:      results.StatusPass,
	}
	run(c)
	t.cases = append(t.cases, c.record())
}

// Cases returns the cases emitted so far, in order.
func (t *T) Cases() []results.CaseRecord {
	return append([]results.CaseRecord(nil), t.cases...)
}

// Status rolls the case statuses up into the test's own status. A test
// with no cases passes.
func (t *T) Status() results.Status {
	status := results.StatusPass
	for _, c := range t.cases {
		status = results.Worst(status, c.Status)
	}
	return status
}

// Case is one in-flight assertion. Its status starts as pass and can
// only be downgraded.
type Case struct {
	name        string
	description string
	summary     string
	status      results.Status
	audit       logging.CapturingLogger
}

// Logger exposes the audit trail as a logging.Logger, suitable for
// passing to client requests.
func (c *Case) Logger() logging.Logger { return &c.audit }

// Logf appends a line to the case's audit trail.
func (c *Case) Logf(message string, args ...interface{}) {
	c.audit.Printf(message, args...)
}

// Pass records a passing summary without changing the status.
func (c *Case) Pass(summary string, args ...interface{}) {
	c.summary = fmt.Sprintf(summary, args...)
}

// Fail marks the case failed. The summary is also appended to the audit
// trail so the report's log messages explain the failure.
func (c *Case) Fail(summary string, args ...interface{}) {
	c.status = results.StatusFail
	c.summary = fmt.Sprintf(summary, args...)
	c.audit.Printf("assertion failed: %s", c.summary)
}

// Skip marks the case as not evaluated, typically because an earlier
// case in the same test already failed.
func (c *Case) Skip(summary string, args ...interface{}) {
	c.status = results.StatusSkip
	c.summary = fmt.Sprintf(summary, args...)
	c.audit.Printf("skipped: %s", c.summary)
}

// Unknown marks the case as errored in a way that is neither a pass nor
// a checked failure, such as a transport error or timeout.
func (c *Case) Unknown(summary string, args ...interface{}) {
	c.status = results.StatusUnknown
	c.summary = fmt.Sprintf(summary, args...)
	c.audit.Printf("error: %s", c.summary)
}

func (c *Case) record() results.CaseRecord {
	summary := c.summary
	if summary == "" {
		summary = c.name + " passed"
	}
	return results.CaseRecord{
		Name:        c.name,
		Description: c.description,
		Summary:     summary,
		Status:      c.status,
		Audit:       c.audit.Messages(),
	}
}
