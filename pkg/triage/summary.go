package triage

import "github.com/scheck/scheck/pkg/finding"

// Summary aggregates a result for human and machine reporting:
// per-category counts crossed with severity, plus the failing total
// that drives the CI verdict.
type Summary struct {
	Total      int                                   `json:"total"`
	ByCategory map[Category]int                      `json:"by_category"`
	BySeverity map[finding.Severity]int              `json:"by_severity"`
	Matrix     map[Category]map[finding.Severity]int `json:"matrix"`
	Failing    int                                   `json:"failing"`
	Collisions int                                   `json:"collisions"`
}

// Summary computes aggregate counts over the result.
func (r *Result) Summary() Summary {
	s := Summary{
		Total:      len(r.Findings),
		ByCategory: map[Category]int{},
		BySeverity: map[finding.Severity]int{},
		Matrix:     map[Category]map[finding.Severity]int{},
		Collisions: r.Collisions,
	}

	for _, cf := range r.Findings {
		s.ByCategory[cf.Category]++
		s.BySeverity[cf.Severity]++
		if s.Matrix[cf.Category] == nil {
			s.Matrix[cf.Category] = map[finding.Severity]int{}
		}
		s.Matrix[cf.Category][cf.Severity]++
		if cf.Category.FailsCI() {
			s.Failing++
		}
	}

	return s
}

// ExitCode returns the CI verdict: 1 when any new or waiver_expired
// finding has severity at or above failOn, otherwise 0. Passing an
// invalid (or empty) floor means any severity fails, which is the
// default gate behavior.
func (r *Result) ExitCode(failOn finding.Severity) int {
	for _, cf := range r.Findings {
		if !cf.Category.FailsCI() {
			continue
		}
		if !failOn.IsValid() || cf.Severity.AtLeast(failOn) {
			return 1
		}
	}
	return 0
}
