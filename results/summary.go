package results

// Summarize computes the high-level capability rollups and attaches
// them to the result set. For each object type, every capability named
// in any executed test's parent list gets one entry whose status is the
// worst status among the member tests of that capability, across all
// object instances of that type.
//
// The rollup starts from pass only when at least one member exists, and
// every member's status is folded in with Worst. A capability can never
// report pass while one of its members failed.
func (r *ResultSet) Summarize() {
	summary := make(map[string]SummaryEntry)

	for _, objectType := range ObjectTypes {
		rollup := make(map[string]Status)
		for _, objectID := range r.objectOrder[objectType] {
			for _, test := range r.TestResults[objectType][objectID] {
				for _, capability := range test.Parents {
					if current, ok := rollup[capability]; ok {
						rollup[capability] = Worst(current, test.Result)
					} else {
						rollup[capability] = test.Result
					}
				}
			}
		}
		for capability, status := range rollup {
			summary[capability] = SummaryEntry{Result: status, Name: capability}
		}
	}

	r.HighLevelSummary = summary
}
