package main

import (
	"fmt"
	"sync"

	"github.com/fatih/color"

	"github.com/ga4gh/rnaget-compliance-suite/results"
	"github.com/ga4gh/rnaget-compliance-suite/runner"
)

var (
	passColor    = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed)
	skipColor    = color.New(color.FgYellow)
	unknownColor = color.New(color.FgMagenta)
)

// consoleTestLogger prints per-test progress. Object instances can run
// concurrently, so output is serialized with a mutex.
type consoleTestLogger struct {
	lock sync.Mutex
}

func newConsoleTestLogger() *consoleTestLogger {
	return &consoleTestLogger{}
}

func (c *consoleTestLogger) TestStarted(id runner.TestID) {
	c.lock.Lock()
	fmt.Printf("[%s]\n", id)
	c.lock.Unlock()
}

func (c *consoleTestLogger) TestFinished(id runner.TestID, status results.Status) {
	c.lock.Lock()
	fmt.Printf("  %s: %s\n", coloredStatus(status), id)
	c.lock.Unlock()
}

func (c *consoleTestLogger) TestSkipped(id runner.TestID, reason string) {
	c.lock.Lock()
	if reason == "" {
		fmt.Printf("  %s: %s\n", skipColor.Sprint("SKIPPED"), id)
	} else {
		fmt.Printf("  %s: %s (%s)\n", skipColor.Sprint("SKIPPED"), id, reason)
	}
	c.lock.Unlock()
}

func coloredStatus(status results.Status) string {
	switch status {
	case results.StatusPass:
		return passColor.Sprint("PASSED")
	case results.StatusFail:
		return failColor.Sprint("FAILED")
	case results.StatusSkip:
		return skipColor.Sprint("SKIPPED")
	default:
		return unknownColor.Sprint("UNKNOWN")
	}
}
