package runner

import (
	"fmt"

	"github.com/ga4gh/rnaget-compliance-suite/results"
)

// TestID identifies one test execution: object type, object id, test
// name.
type TestID struct {
	ObjectType results.ObjectType
	ObjectID   string
	Name       string
}

func (id TestID) String() string {
	return fmt.Sprintf("%s/%s/%s", id.ObjectType, id.ObjectID, id.Name)
}

// TestLogger receives progress callbacks while the runner executes the
// hierarchy. Implementations must be safe for concurrent use, since
// object instances may run in parallel.
type TestLogger interface {
	TestStarted(id TestID)
	TestFinished(id TestID, status results.Status)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                  {}
func (n nullTestLogger) TestFinished(TestID, results.Status) {}
func (n nullTestLogger) TestSkipped(TestID, string)          {}
