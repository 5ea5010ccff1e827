// Package audit checks the project's configuration files and repairs what it can.
package audit

import (
	"context"

	"github.com/nightconcept/pages-deploy/internal/core/report"
)

// Status is the outcome of a single check.
type Status int

const (
	StatusPassed Status = iota
	StatusFixed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFixed:
		return "fixed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Check pairs a predicate over the working directory with an optional fix.
// A nil Fix means a failing check cannot be repaired automatically.
type Check struct {
	Name   string
	Passes func(dir string) bool
	Fix    func(ctx context.Context) error
}

// Result records what happened to one check. Err holds the error of a fix
// that ran but did not succeed cleanly.
type Result struct {
	Name   string
	Status Status
	Err    error
}

// Report is the outcome of a full audit.
type Report struct {
	Results []Result
}

// Passed is false only when a check without a fix failed.
func (r Report) Passed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return false
		}
	}
	return true
}

// Failed returns the checks that could not be satisfied.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Auditor evaluates checks in order against Dir.
type Auditor struct {
	Dir    string
	Checks []Check
	Report *report.Reporter
}

// Run evaluates every check, even after a failure, so all problems are
// surfaced in a single pass. Fixed checks are not re-verified, and a fix
// that returns an error still counts as applied.
func (a *Auditor) Run(ctx context.Context) Report {
	var rep Report
	for _, c := range a.Checks {
		res := Result{Name: c.Name}

		switch {
		case c.Passes(a.Dir):
			res.Status = StatusPassed
			a.Report.Success("%s: ok", c.Name)
		case c.Fix == nil:
			res.Status = StatusFailed
			a.Report.Error("%s: failed, no automatic fix available", c.Name)
		default:
			a.Report.Warning("%s: failed, applying fix", c.Name)
			res.Status = StatusFixed
			if err := c.Fix(ctx); err != nil {
				// The fix ran; its error is surfaced but does not block the run.
				res.Err = err
				a.Report.Warning("%s: fix applied with errors: %v", c.Name, err)
			} else {
				a.Report.Success("%s: fixed", c.Name)
			}
		}
		rep.Results = append(rep.Results, res)
	}
	return rep
}
