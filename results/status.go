package results

import "fmt"

// Status is the outcome code attached to every executed test and case.
// The set of values is closed; anything else is a data-integrity defect
// and is rejected when the report is converted.
type Status int

const (
	StatusFail    Status = -1
	StatusSkip    Status = 0
	StatusPass    Status = 1
	StatusUnknown Status = 2
)

func (s Status) Valid() bool {
	switch s {
	case StatusFail, StatusSkip, StatusPass, StatusUnknown:
		return true
	}
	return false
}

func (s Status) String() string {
	switch s {
	case StatusFail:
		return "FAIL"
	case StatusSkip:
		return "SKIP"
	case StatusPass:
		return "PASS"
	case StatusUnknown:
		return "UNKNOWN"
	}
	return fmt.Sprintf("INVALID(%d)", int(s))
}

// severity orders statuses for the worst-of rollup:
// fail > unknown > skip > pass.
func (s Status) severity() int {
	switch s {
	case StatusFail:
		return 3
	case StatusUnknown:
		return 2
	case StatusSkip:
		return 1
	default:
		return 0
	}
}

// Worst returns whichever of the two statuses ranks higher in the
// fail > unknown > skip > pass precedence.
func Worst(a, b Status) Status {
	if b.severity() > a.severity() {
		return b
	}
	return a
}
