package reporter

import (
	"log/slog"

	"admincheck/toolkit"
)

// Session is the run-scoped state: the client (which holds the token once
// login succeeds) and the results in the order they were recorded.
type Session struct {
	client  *toolkit.AdminClient
	console *Console
	results []toolkit.TestResult
}

func NewSession(client *toolkit.AdminClient, console *Console) *Session {
	return &Session{client: client, console: console}
}

// Results returns a copy of the recorded results.
func (s *Session) Results() []toolkit.TestResult {
	return append([]toolkit.TestResult(nil), s.results...)
}

func (s *Session) record(r toolkit.TestResult) {
	s.results = append(s.results, r)
	if s.console != nil {
		s.console.Result(r)
	}
	slog.Info("session.record: result", "test", r.Name, "passed", r.Passed, "status", r.Status,
		"failure", r.Failure, "latency_ms", r.LatencyMS)
}

func (s *Session) pass(r toolkit.TestResult, message string) {
	r.Passed = true
	r.Message = message
	s.record(r)
}

func (s *Session) fail(r toolkit.TestResult, kind, message, details string) {
	r.Passed = false
	r.Failure = kind
	r.Message = message
	r.Details = details
	s.record(r)
}
