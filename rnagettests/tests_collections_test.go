package rnagettests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ga4gh/rnaget-compliance-suite/client"
	"github.com/ga4gh/rnaget-compliance-suite/config"
	"github.com/ga4gh/rnaget-compliance-suite/registry"
	"github.com/ga4gh/rnaget-compliance-suite/report"
	"github.com/ga4gh/rnaget-compliance-suite/results"
	"github.com/ga4gh/rnaget-compliance-suite/runner"
)

const goodProjectID = "43378a5d48364f9d8cf3c3d5104df560"

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// newMockRNAgetServer serves a minimal conformant projects resource:
// one real project, working search endpoints, 404 for everything else.
func newMockRNAgetServer() *httptest.Server {
	project := map[string]string{"id": goodProjectID, "name": "PCAWG", "version": "1.0"}

	mux := http.NewServeMux()
	mux.HandleFunc("/projects/"+goodProjectID, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, project)
	})
	mux.HandleFunc("/projects/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []interface{}{project})
	})
	mux.HandleFunc("/projects/search/filters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []interface{}{
			map[string]string{"filter": "version", "description": "project version"},
			map[string]string{"filter": "name", "description": "project name"},
		})
	})
	mux.HandleFunc("/projects/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]string{"message": "not found"})
	})
	return httptest.NewServer(mux)
}

func runProjectsSuite(t *testing.T, server *httptest.Server, instances ...config.ObjectInstance) *results.ResultSet {
	t.Helper()
	cfg := &config.ServerConfig{
		ServerName: "mock rnaget",
		BaseURL:    server.URL,
		Projects:   instances,
	}
	require.NoError(t, cfg.Validate())

	reg := registry.New()
	reg.Register(results.ObjectTypeProjects, collectionSuite("projects", "project")...)

	rs, err := runner.New(cfg, client.New(server.URL, ""), reg).Run()
	require.NoError(t, err)
	return rs
}

func recordByName(t *testing.T, records []results.TestRecord, name string) results.TestRecord {
	t.Helper()
	for _, r := range records {
		if r.Name == name {
			return r
		}
	}
	require.Failf(t, "record not found", "no test record named %q", name)
	return results.TestRecord{}
}

func TestProjectsSuiteAgainstConformantServer(t *testing.T) {
	server := newMockRNAgetServer()
	defer server.Close()

	rs := runProjectsSuite(t, server, config.ObjectInstance{
		ID:      goodProjectID,
		Filters: map[string]string{"version": "1.0", "name": "PCAWG"},
	})

	records := rs.Records(results.ObjectTypeProjects, goodProjectID)
	require.Len(t, records, 5)
	for _, record := range records {
		assert.Equal(t, results.StatusPass, record.Result, "test %s should pass: %s", record.Name, record.Text)
	}
	assert.Equal(t, results.StatusPass, rs.HighLevelSummary["project_get"].Result)
	assert.Equal(t, results.StatusPass, rs.HighLevelSummary["project_search"].Result)
}

func TestProjectGetFailsWith404Audit(t *testing.T) {
	// A configured project id the server does not know. The get test
	// must fail with an audit trail referencing the 404, while the
	// negative test still passes.
	server := newMockRNAgetServer()
	defer server.Close()

	badID := "123456789"
	rs := runProjectsSuite(t, server, config.ObjectInstance{ID: badID})

	records := rs.Records(results.ObjectTypeProjects, badID)
	get := recordByName(t, records, "project_get")
	assert.Equal(t, results.StatusFail, get.Result)
	require.NotEmpty(t, get.Message.APIComponent.Cases)
	audit := strings.Join(get.Message.APIComponent.Cases[0].Audit, "\n")
	assert.Contains(t, audit, "404")
	assert.Contains(t, audit, "curl")

	notFound := recordByName(t, records, "project_get_not_found")
	assert.Equal(t, results.StatusPass, notFound.Result)
}

func TestNegativeTestFailsWhenServerReturns200ForAnyID(t *testing.T) {
	// A server that answers 200 for every id fails the negative test:
	// the expected failure mode is specifically a 404.
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"id": "whatever", "name": "x"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := registry.NewT(client.New(server.URL, ""), "some-id", nil)
	getNotFoundTest("projects", "project").Run(ctx)

	assert.Equal(t, results.StatusFail, ctx.Status())
}

func TestSchemaCaseSkippedWhenStatusCaseFails(t *testing.T) {
	server := newMockRNAgetServer()
	defer server.Close()

	ctx := registry.NewT(client.New(server.URL, ""), "unknown-id", nil)
	getByIDTest("projects", "project").Run(ctx)

	cases := ctx.Cases()
	require.Len(t, cases, 2)
	assert.Equal(t, results.StatusFail, cases[0].Status)
	assert.Equal(t, results.StatusSkip, cases[1].Status)
}

func TestGetFailsOnSchemaViolation(t *testing.T) {
	// id mismatch between the requested and returned object
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"id": "different-id", "name": "x"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := registry.NewT(client.New(server.URL, ""), "requested-id", nil)
	getByIDTest("projects", "project").Run(ctx)

	cases := ctx.Cases()
	require.Len(t, cases, 2)
	assert.Equal(t, results.StatusPass, cases[0].Status)
	assert.Equal(t, results.StatusFail, cases[1].Status)
	assert.Contains(t, cases[1].Summary, "different-id")
}

func TestFullPipelineProducesExpectedReport(t *testing.T) {
	// The end-to-end scenario: one failing and one passing project
	// instance, run, aggregate, convert. The projects phase carries one
	// failing get test whose case audit references the 404, one passing
	// get test, and the per-type project_get rollup is fail.
	server := newMockRNAgetServer()
	defer server.Close()

	badID := "123456789"
	rs := runProjectsSuite(t, server,
		config.ObjectInstance{ID: badID},
		config.ObjectInstance{ID: goodProjectID, Filters: map[string]string{"version": "1.0"}},
	)

	assert.Equal(t, results.StatusFail, rs.HighLevelSummary["project_get"].Result)

	rep, err := report.Convert(rs)
	require.NoError(t, err)

	projects := rep.Phases[0]
	require.Equal(t, "projects", projects.Name)
	require.Len(t, projects.Tests, 10)

	// instance order is configuration order: bad instance first
	failingGet := projects.Tests[0]
	assert.Equal(t, "project_get", failingGet.Name)
	assert.Equal(t, "FAIL", failingGet.Status)
	require.NotEmpty(t, failingGet.Cases)
	assert.Contains(t, strings.Join(failingGet.Cases[0].LogMessages, "\n"), "404")

	passingGet := projects.Tests[5]
	assert.Equal(t, "project_get", passingGet.Name)
	assert.Equal(t, "PASS", passingGet.Status)
	assert.Empty(t, passingGet.Cases)

	assert.Equal(t, "FAIL", projects.Status)
	assert.True(t, rep.Finalized())
}
