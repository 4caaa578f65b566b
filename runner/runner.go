// Package runner walks the registered test hierarchy for every
// configured object instance and produces the raw result tree. Object
// instances run concurrently under a courtesy cap; within one instance
// the hierarchy is strictly ordered so prerequisite outcomes are known
// before dependents are considered.
package runner

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/ga4gh/rnaget-compliance-suite/client"
	"github.com/ga4gh/rnaget-compliance-suite/config"
	"github.com/ga4gh/rnaget-compliance-suite/registry"
	"github.com/ga4gh/rnaget-compliance-suite/results"
)

const defaultMaxConcurrency = 4

// Runner executes the compliance hierarchy for one server
// configuration.
type Runner struct {
	cfg            *config.ServerConfig
	apiClient      *client.APIClient
	reg            *registry.Registry
	testLogger     TestLogger
	maxConcurrency int
}

type Option func(*Runner)

// WithTestLogger reports per-test progress, typically to the console.
func WithTestLogger(logger TestLogger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.testLogger = logger
		}
	}
}

// WithMaxConcurrency caps how many object instances are tested at once
// against the target server.
func WithMaxConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxConcurrency = n
		}
	}
}

// New creates a Runner. The configuration must already be validated;
// the registry is checked before execution starts.
func New(cfg *config.ServerConfig, apiClient *client.APIClient, reg *registry.Registry, opts ...Option) *Runner {
	r := &Runner{
		cfg:            cfg,
		apiClient:      apiClient,
		reg:            reg,
		testLogger:     nullTestLogger{},
		maxConcurrency: defaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every configured object instance's test hierarchy and
// returns the raw result tree with high-level summaries attached.
// Individual test failures never produce an error here; only a
// structurally invalid registry does.
func (r *Runner) Run() (*results.ResultSet, error) {
	if err := r.reg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid test registry: %w", err)
	}

	resultSet := results.NewResultSet(r.cfg.ServerName, r.cfg.BaseURL)

	for _, objectType := range results.ObjectTypes {
		instances := r.cfg.Instances(objectType)
		if len(instances) == 0 {
			continue
		}
		suite := r.reg.Suite(objectType)

		// Each worker writes only its own slot; the tree itself is
		// assembled afterwards by this single goroutine.
		records := make([][]results.TestRecord, len(instances))
		sem := make(chan struct{}, r.maxConcurrency)
		var wg sync.WaitGroup
		for i, instance := range instances {
			wg.Add(1)
			sem <- struct{}{}
			go func(slot int, instance config.ObjectInstance) {
				defer wg.Done()
				defer func() { <-sem }()
				records[slot] = r.runInstance(objectType, instance, suite)
			}(i, instance)
		}
		wg.Wait()

		for i, instance := range instances {
			resultSet.SetRecords(objectType, instance.ID, records[i])
		}
	}

	resultSet.Summarize()
	return resultSet, nil
}

// runInstance executes one object instance's suite front to back,
// skipping any test whose prerequisites did not all pass.
func (r *Runner) runInstance(objectType results.ObjectType, instance config.ObjectInstance, suite []*registry.TestDef) []results.TestRecord {
	statuses := make(map[*registry.TestDef]results.Status, len(suite))
	records := make([]results.TestRecord, 0, len(suite))

	for _, def := range suite {
		id := TestID{ObjectType: objectType, ObjectID: instance.ID, Name: def.Name}

		if blocker := unmetPrereq(def, statuses); blocker != nil {
			reason := fmt.Sprintf("prerequisite %q did not pass (%s)", blocker.Name, statuses[blocker])
			r.testLogger.TestSkipped(id, reason)
			record := skippedRecord(def, reason)
			statuses[def] = record.Result
			records = append(records, record)
			continue
		}

		r.testLogger.TestStarted(id)
		record := r.executeTest(def, instance)
		statuses[def] = record.Result
		records = append(records, record)
		r.testLogger.TestFinished(id, record.Result)
	}
	return records
}

// unmetPrereq returns the first prerequisite whose status is anything
// but pass. A skipped prerequisite blocks its dependents too, so a skip
// propagates through the whole chain.
func unmetPrereq(def *registry.TestDef, statuses map[*registry.TestDef]results.Status) *registry.TestDef {
	for _, prereq := range def.Prereqs {
		if statuses[prereq] != results.StatusPass {
			return prereq
		}
	}
	return nil
}

// executeTest runs one test, translating a panic inside the test body
// into an unknown outcome rather than aborting the run.
func (r *Runner) executeTest(def *registry.TestDef, instance config.ObjectInstance) (record results.TestRecord) {
	t := registry.NewT(r.apiClient, instance.ID, instance.Filters)

	defer func() {
		if p := recover(); p != nil {
			cases := append(t.Cases(), results.CaseRecord{
				Name:        def.Name + ":panic",
				Description: "unexpected error while running test",
				Summary:     fmt.Sprintf("unexpected panic: %v", p),
				Status:      results.StatusUnknown,
				Audit: []string{
					fmt.Sprintf("unexpected panic in test: %v", p),
					string(debug.Stack()),
				},
			})
			record = buildRecord(def, results.StatusUnknown, cases)
		}
	}()

	def.Run(t)
	return buildRecord(def, t.Status(), t.Cases())
}

func buildRecord(def *registry.TestDef, status results.Status, cases []results.CaseRecord) results.TestRecord {
	record := results.TestRecord{
		Name:        def.Name,
		Description: def.Description,
		Result:      status,
		Parents:     append([]string(nil), def.Capabilities...),
	}
	if status == results.StatusPass {
		// A clean pass carries no cases, just a summary line.
		record.Text = fmt.Sprintf("all %d cases passed", len(cases))
		return record
	}
	record.Text = worstCaseSummary(status, cases)
	record.Message.APIComponent.Cases = cases
	return record
}

func skippedRecord(def *registry.TestDef, reason string) results.TestRecord {
	record := results.TestRecord{
		Name:        def.Name,
		Description: def.Description,
		Text:        "skipped: " + reason,
		Result:      results.StatusSkip,
		Parents:     append([]string(nil), def.Capabilities...),
	}
	record.Message.APIComponent.Cases = []results.CaseRecord{{
		Name:        def.Name + ":skipped",
		Description: def.Description,
		Summary:     "skipped: " + reason,
		Status:      results.StatusSkip,
		Audit:       []string{reason},
	}}
	return record
}

func worstCaseSummary(status results.Status, cases []results.CaseRecord) string {
	for _, c := range cases {
		if c.Status == status {
			return c.Summary
		}
	}
	return status.String()
}
