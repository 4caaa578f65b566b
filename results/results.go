// Package results defines the raw result tree produced by a compliance
// run: one TestRecord per executed test per object instance, with nested
// CaseRecords for individual assertions, plus the high-level capability
// summaries computed after the run.
package results

// ObjectType is one of the four resource categories exposed by an
// RNAget server.
type ObjectType string

const (
	ObjectTypeProjects    ObjectType = "projects"
	ObjectTypeStudies     ObjectType = "studies"
	ObjectTypeExpressions ObjectType = "expressions"
	ObjectTypeContinuous  ObjectType = "continuous"
)

// ObjectTypes lists every object type in the fixed order used for
// report phases. Converted reports depend on this order being stable
// between runs.
var ObjectTypes = []ObjectType{
	ObjectTypeProjects,
	ObjectTypeStudies,
	ObjectTypeExpressions,
	ObjectTypeContinuous,
}

// CaseRecord is a single fine-grained assertion within a test. The
// audit trail holds ordered diagnostic strings: the request that was
// made, the response that came back, and the assertion outcome.
type CaseRecord struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Summary     string   `json:"summary"`
	Status      Status   `json:"status"`
	Audit       []string `json:"audit"`
}

// TestMessage nests the case list under the API component, matching the
// established report exchange shape.
type TestMessage struct {
	APIComponent APIComponent `json:"api_component"`
}

type APIComponent struct {
	Cases []CaseRecord `json:"cases"`
}

// TestRecord is one executed test against one object instance. Cases
// are populated only when the test did not pass cleanly.
type TestRecord struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Text        string      `json:"text"`
	Result      Status      `json:"result"`
	Parents     []string    `json:"parents"`
	Message     TestMessage `json:"message"`
}

// SummaryEntry is the rollup status for one high-level capability.
type SummaryEntry struct {
	Result Status `json:"result"`
	Name   string `json:"name"`
}

// ResultSet is the raw result tree for one run: object type → object id
// → executed tests in order. Object ids are tracked separately per type
// in configuration order, since report conversion must preserve it.
type ResultSet struct {
	ServerName  string                                `json:"server_name"`
	BaseURL     string                                `json:"base_url"`
	TestResults map[ObjectType]map[string][]TestRecord `json:"test_results"`

	// HighLevelSummary is filled in by Summarize after the run.
	HighLevelSummary map[string]SummaryEntry `json:"high_level_summary"`

	objectOrder map[ObjectType][]string
}

// NewResultSet creates an empty tree with a slot for every object type.
func NewResultSet(serverName, baseURL string) *ResultSet {
	r := &ResultSet{
		ServerName:  serverName,
		BaseURL:     baseURL,
		TestResults: make(map[ObjectType]map[string][]TestRecord),
		objectOrder: make(map[ObjectType][]string),
	}
	for _, ot := range ObjectTypes {
		r.TestResults[ot] = make(map[string][]TestRecord)
	}
	return r
}

// SetRecords stores the executed tests for one object instance. The
// first call for a given id fixes its position in the per-type order.
func (r *ResultSet) SetRecords(objectType ObjectType, objectID string, records []TestRecord) {
	if _, seen := r.TestResults[objectType][objectID]; !seen {
		r.objectOrder[objectType] = append(r.objectOrder[objectType], objectID)
	}
	r.TestResults[objectType][objectID] = records
}

// ObjectIDs returns the object ids of one type in the order they were
// recorded (which the runner makes equal to configuration order).
func (r *ResultSet) ObjectIDs(objectType ObjectType) []string {
	return append([]string(nil), r.objectOrder[objectType]...)
}

// Records returns the executed tests for one object instance.
func (r *ResultSet) Records(objectType ObjectType, objectID string) []TestRecord {
	return r.TestResults[objectType][objectID]
}
