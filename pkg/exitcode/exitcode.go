// Package exitcode maps categorization results to process exit codes
// for CI/CD gating. The surface is deliberately small: 0 means the
// gate passed, 1 means it failed (or a CLI-level error occurred) —
// pipelines key off the code, humans read the reason.
package exitcode

import (
	"fmt"

	"github.com/scheck/scheck/pkg/finding"
	"github.com/scheck/scheck/pkg/triage"
)

// Code is a process exit code.
type Code int

const (
	// Success indicates every finding is suppressed below the
	// configured severity floor.
	Success Code = 0

	// Failure indicates unsuppressed findings at or above the floor,
	// or a CLI-level error.
	Failure Code = 1
)

// Verdict pairs an exit code with a human-readable reason for logs and
// CI annotations.
type Verdict struct {
	Code   Code   `json:"code"`
	Reason string `json:"reason"`
}

// FromResult computes the gate verdict for a categorization result.
// An invalid failOn floor means any severity fails (the default).
func FromResult(r *triage.Result, failOn finding.Severity) Verdict {
	if r.ExitCode(failOn) == 0 {
		s := r.Summary()
		if s.Total == 0 {
			return Verdict{Success, "no findings"}
		}
		return Verdict{Success, fmt.Sprintf(
			"all %d finding(s) suppressed (%d baselined, %d waived)",
			s.Total, s.ByCategory[triage.CategoryBaselined], s.ByCategory[triage.CategoryWaived])}
	}

	s := r.Summary()
	reason := fmt.Sprintf("%d new and %d waiver-expired finding(s)",
		s.ByCategory[triage.CategoryNew], s.ByCategory[triage.CategoryWaiverExpired])
	if failOn.IsValid() {
		reason += fmt.Sprintf(" at or above %s", failOn)
	}
	return Verdict{Failure, reason}
}
