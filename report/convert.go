package report

import (
	"fmt"

	"github.com/ga4gh/rnaget-compliance-suite/results"
)

// TestbedName identifies this compliance suite in converted reports.
const TestbedName = "rnaget-compliance-suite"

const (
	statusPass    = "PASS"
	statusSkip    = "SKIP"
	statusFail    = "FAIL"
	statusUnknown = "UNKNOWN"
)

// statusString maps an internal status code to its report string. The
// mapping is closed: a code outside the known set means the result tree
// itself is corrupt, which must abort conversion rather than be guessed
// around.
func statusString(s results.Status) (string, error) {
	switch s {
	case results.StatusPass:
		return statusPass, nil
	case results.StatusSkip:
		return statusSkip, nil
	case results.StatusFail:
		return statusFail, nil
	case results.StatusUnknown:
		return statusUnknown, nil
	}
	return "", fmt.Errorf("status code %d is outside the closed set {-1, 0, 1, 2}", int(s))
}

// Convert re-shapes an aggregated raw result tree into a finalized
// standardized report. Phases follow the fixed object type order,
// object ids follow configuration order, and tests and cases keep their
// execution order, so two runs over identical results diff cleanly.
func Convert(resultSet *results.ResultSet) (*Report, error) {
	r := New()
	r.SetStartTimeNow()
	r.SetTestbedName(TestbedName)
	r.SetPlatformName(resultSet.ServerName)
	r.AddInputParameter("base_url", resultSet.BaseURL)

	for _, objectType := range results.ObjectTypes {
		phase := r.AddPhase()
		phase.SetStartTimeNow()
		phase.SetName(string(objectType))

		phaseStatus := results.StatusPass
		sawTest := false

		for _, objectID := range resultSet.ObjectIDs(objectType) {
			for _, test := range resultSet.Records(objectType, objectID) {
				if err := convertTest(phase, test); err != nil {
					return nil, fmt.Errorf("converting %s/%s test %q: %w",
						objectType, objectID, test.Name, err)
				}
				phaseStatus = results.Worst(phaseStatus, test.Result)
				sawTest = true
			}
		}

		if sawTest {
			s, err := statusString(phaseStatus)
			if err != nil {
				return nil, err
			}
			phase.SetStatus(s)
		}
		phase.SetEndTimeNow()
	}

	r.SetEndTimeNow()
	r.Finalize()
	return r, nil
}

func convertTest(phase *Phase, test results.TestRecord) error {
	testStatus, err := statusString(test.Result)
	if err != nil {
		return err
	}

	reportTest := phase.AddTest()
	reportTest.SetStartTimeNow()
	reportTest.SetName(test.Name)
	reportTest.SetDescription(test.Description)
	reportTest.SetMessage(test.Text)
	reportTest.SetStatus(testStatus)

	if test.Result != results.StatusPass {
		for _, c := range test.Message.APIComponent.Cases {
			caseStatus, err := statusString(c.Status)
			if err != nil {
				return fmt.Errorf("case %q: %w", c.Name, err)
			}
			reportCase := reportTest.AddCase()
			reportCase.SetStartTimeNow()
			reportCase.SetName(c.Name)
			reportCase.SetDescription(c.Description)
			reportCase.SetMessage(c.Summary)
			for _, logMessage := range c.Audit {
				reportCase.AddLogMessage(logMessage)
			}
			reportCase.SetStatus(caseStatus)
			reportCase.SetEndTimeNow()
		}
	}

	reportTest.SetEndTimeNow()
	return nil
}
