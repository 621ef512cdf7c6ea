// Package status fetches a rail line's status page and classifies it.
//
// A fetch never fails: every path, including malformed URLs, transport
// errors and unparseable bodies, produces a Result the dashboard can show.
package status

import "fmt"

// Outcome is the classification of one status fetch.
type Outcome string

const (
	OutcomeNormal       Outcome = "normal"
	OutcomeDelayed      Outcome = "delayed"
	OutcomeUnreachable  Outcome = "unreachable"
	OutcomeUnconfigured Outcome = "unconfigured"
)

// Result is the user-facing outcome of a fetch. Detail is empty when there
// is nothing to add to Message.
type Result struct {
	Outcome Outcome
	Message string
	Detail  string
}

// HasDetail reports whether the result carries a detail string.
func (r Result) HasDetail() bool {
	return r.Detail != ""
}

func normal(line string) Result {
	return Result{
		Outcome: OutcomeNormal,
		Message: fmt.Sprintf("%s is operating normally", line),
	}
}

func delayed(line, detail string) Result {
	return Result{
		Outcome: OutcomeDelayed,
		Message: fmt.Sprintf("%s is delayed", line),
		Detail:  detail,
	}
}

func unconfigured(line string) Result {
	return Result{
		Outcome: OutcomeUnconfigured,
		Message: fmt.Sprintf("%s has no status source configured", line),
	}
}

func networkFailure(line string, err error) Result {
	return Result{
		Outcome: OutcomeUnreachable,
		Message: fmt.Sprintf("%s could not be retrieved", line),
		Detail:  fmt.Sprintf("network error: %v", err),
	}
}

func unexpectedFailure(line string, err error) Result {
	return Result{
		Outcome: OutcomeUnreachable,
		Message: fmt.Sprintf("%s could not be retrieved", line),
		Detail:  fmt.Sprintf("unexpected error: %v", err),
	}
}
