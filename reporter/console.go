package reporter

import (
	"fmt"
	"io"

	"admincheck/toolkit"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"

	rule = "============================================================"
)

// Console renders step lines and the summary for a human reader.
type Console struct {
	out   io.Writer
	color bool
}

func NewConsole(out io.Writer, color bool) *Console {
	return &Console{out: out, color: color}
}

func (c *Console) Banner(baseURL, runID string) {
	fmt.Fprintln(c.out, "🚀 Starting Product Management System Backend Tests")
	fmt.Fprintf(c.out, "Target: %s (run %s)\n", baseURL, runID)
	fmt.Fprintln(c.out, rule)
}

func (c *Console) Result(r toolkit.TestResult) {
	status := c.paint(colorGreen, "✅ PASS")
	if !r.Passed {
		status = c.paint(colorRed, "❌ FAIL")
	}
	fmt.Fprintf(c.out, "%s: %s - %s\n", status, r.Name, r.Message)
	if !r.Passed && r.Details != "" {
		fmt.Fprintf(c.out, "   Details: %s\n", r.Details)
	}
}

func (c *Console) Aborted() {
	fmt.Fprintln(c.out, c.paint(colorRed, "❌ Cannot proceed without authentication"))
}

func (c *Console) Summary(rep toolkit.CheckReport) {
	s := rep.Summary
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, rule)
	fmt.Fprintln(c.out, "📊 TEST SUMMARY")
	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "Total Tests: %d\n", s.Total)
	fmt.Fprintf(c.out, "Passed: %d\n", s.Passed)
	if s.Failed > 0 {
		fmt.Fprintln(c.out, c.paint(colorRed, fmt.Sprintf("Failed: %d", s.Failed)))
	} else {
		fmt.Fprintf(c.out, "Failed: %d\n", s.Failed)
	}
	fmt.Fprintf(c.out, "Success Rate: %.1f%%\n", s.SuccessRate)
	fmt.Fprintf(c.out, "Duration: %.3fs\n", rep.Duration.Seconds())

	if s.Failed == 0 {
		return
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.paint(colorRed, "❌ FAILED TESTS:"))
	for _, r := range rep.Results {
		if !r.Passed {
			fmt.Fprintf(c.out, "  - %s: %s\n", r.Name, r.Message)
		}
	}
}

func (c *Console) paint(color, s string) string {
	if !c.color {
		return s
	}
	return color + s + colorReset
}
