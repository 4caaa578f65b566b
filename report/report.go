// Package report defines the standardized report hierarchy (report →
// phases → tests → cases → log messages) consumed by external tooling,
// and the converter that builds it from a raw result tree.
package report

import (
	"encoding/json"
	"time"
)

// Timestamps are RFC 3339 in UTC, matching the established report
// exchange format.
const timeFormat = time.RFC3339

var now = time.Now

func timestampNow() string {
	return now().UTC().Format(timeFormat)
}

// Report is the top level of the standardized hierarchy. Once
// finalized, any further mutation is a programming error and panics.
type Report struct {
	TestbedName     string            `json:"testbed_name"`
	PlatformName    string            `json:"platform_name"`
	InputParameters map[string]string `json:"input_parameters"`
	StartTime       string            `json:"start_time"`
	EndTime         string            `json:"end_time"`
	Phases          []*Phase          `json:"phases"`

	finalized bool
}

type Phase struct {
	Name      string  `json:"phase_name"`
	Status    string  `json:"status"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Tests     []*Test `json:"tests"`

	report *Report
}

type Test struct {
	Name        string  `json:"test_name"`
	Description string  `json:"test_description"`
	Message     string  `json:"message"`
	Status      string  `json:"status"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Cases       []*Case `json:"cases"`

	report *Report
}

type Case struct {
	Name        string   `json:"case_name"`
	Description string   `json:"case_description"`
	Message     string   `json:"message"`
	Status      string   `json:"status"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	LogMessages []string `json:"log_messages"`

	report *Report
}

func New() *Report {
	return &Report{
		InputParameters: make(map[string]string),
		Phases:          []*Phase{},
	}
}

func (r *Report) mustBeMutable() {
	if r.finalized {
		panic("report: mutation after finalize")
	}
}

func (r *Report) SetTestbedName(name string) {
	r.mustBeMutable()
	r.TestbedName = name
}

func (r *Report) SetPlatformName(name string) {
	r.mustBeMutable()
	r.PlatformName = name
}

func (r *Report) AddInputParameter(key, value string) {
	r.mustBeMutable()
	r.InputParameters[key] = value
}

func (r *Report) SetStartTimeNow() {
	r.mustBeMutable()
	r.StartTime = timestampNow()
}

func (r *Report) SetEndTimeNow() {
	r.mustBeMutable()
	r.EndTime = timestampNow()
}

func (r *Report) AddPhase() *Phase {
	r.mustBeMutable()
	p := &Phase{Tests: []*Test{}, report: r}
	r.Phases = append(r.Phases, p)
	return p
}

// Finalize forbids all further mutation. Serialization is the only
// operation permitted afterwards.
func (r *Report) Finalize() {
	r.finalized = true
}

func (r *Report) Finalized() bool { return r.finalized }

// ToJSON serializes the report, optionally pretty-printed.
func (r *Report) ToJSON(pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}

func (p *Phase) SetName(name string) {
	p.report.mustBeMutable()
	p.Name = name
}

func (p *Phase) SetStatus(status string) {
	p.report.mustBeMutable()
	p.Status = status
}

func (p *Phase) SetStartTimeNow() {
	p.report.mustBeMutable()
	p.StartTime = timestampNow()
}

func (p *Phase) SetEndTimeNow() {
	p.report.mustBeMutable()
	p.EndTime = timestampNow()
}

func (p *Phase) AddTest() *Test {
	p.report.mustBeMutable()
	t := &Test{Cases: []*Case{}, report: p.report}
	p.Tests = append(p.Tests, t)
	return t
}

func (t *Test) SetName(name string) {
	t.report.mustBeMutable()
	t.Name = name
}

func (t *Test) SetDescription(description string) {
	t.report.mustBeMutable()
	t.Description = description
}

func (t *Test) SetMessage(message string) {
	t.report.mustBeMutable()
	t.Message = message
}

func (t *Test) SetStatus(status string) {
	t.report.mustBeMutable()
	t.Status = status
}

func (t *Test) SetStartTimeNow() {
	t.report.mustBeMutable()
	t.StartTime = timestampNow()
}

func (t *Test) SetEndTimeNow() {
	t.report.mustBeMutable()
	t.EndTime = timestampNow()
}

func (t *Test) AddCase() *Case {
	t.report.mustBeMutable()
	c := &Case{LogMessages: []string{}, report: t.report}
	t.Cases = append(t.Cases, c)
	return c
}

func (c *Case) SetName(name string) {
	c.report.mustBeMutable()
	c.Name = name
}

func (c *Case) SetDescription(description string) {
	c.report.mustBeMutable()
	c.Description = description
}

func (c *Case) SetMessage(message string) {
	c.report.mustBeMutable()
	c.Message = message
}

func (c *Case) SetStatus(status string) {
	c.report.mustBeMutable()
	c.Status = status
}

func (c *Case) SetStartTimeNow() {
	c.report.mustBeMutable()
	c.StartTime = timestampNow()
}

func (c *Case) SetEndTimeNow() {
	c.report.mustBeMutable()
	c.EndTime = timestampNow()
}

func (c *Case) AddLogMessage(message string) {
	c.report.mustBeMutable()
	c.LogMessages = append(c.LogMessages, message)
}
