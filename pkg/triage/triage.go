// Package triage reconciles a fresh finding set against the baseline
// and waiver stores, assigning each finding a category and producing
// the CI-facing summary and verdict.
//
// Category precedence is deterministic and total: a waiver entry,
// active or lapsed, takes precedence over a baseline entry for the
// same id. An active waiver categorizes as waived, a lapsed one as
// waiver_expired, never new.
package triage

import (
	"time"

	"github.com/google/uuid"

	"github.com/scheck/scheck/pkg/baseline"
	"github.com/scheck/scheck/pkg/finding"
	"github.com/scheck/scheck/pkg/identity"
	"github.com/scheck/scheck/pkg/waiver"
)

// Category is the triage outcome for a single finding.
type Category string

const (
	// CategoryNew is a finding suppressed by neither store.
	CategoryNew Category = "new"

	// CategoryBaselined is a finding permanently suppressed for
	// incremental adoption.
	CategoryBaselined Category = "baselined"

	// CategoryWaived is a finding covered by an active waiver.
	CategoryWaived Category = "waived"

	// CategoryWaiverExpired is a finding whose waiver has lapsed; it
	// fails CI like a new finding but is reported distinctly.
	CategoryWaiverExpired Category = "waiver_expired"
)

// IsValid reports whether c is a recognized category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryNew, CategoryBaselined, CategoryWaived, CategoryWaiverExpired:
		return true
	}
	return false
}

// FailsCI reports whether findings in this category are eligible to
// fail the CI gate.
func (c Category) FailsCI() bool {
	return c == CategoryNew || c == CategoryWaiverExpired
}

// Categories lists all categories in reporting order.
func Categories() []Category {
	return []Category{CategoryNew, CategoryWaiverExpired, CategoryBaselined, CategoryWaived}
}

// CategorizedFinding is a finding plus its stable id, category, and
// the suppression entry that matched, when one did. The original
// finding is embedded unmodified; categorization never mutates its
// input.
type CategorizedFinding struct {
	finding.Finding
	FindingID string          `json:"finding_id"`
	Category  Category        `json:"category"`
	Baseline  *baseline.Entry `json:"baseline,omitempty"`
	Waiver    *waiver.Entry   `json:"waiver,omitempty"`
}

// Result is an ordered categorization of one scan's findings.
type Result struct {
	// RunID identifies this categorization run to downstream sync and
	// reporting collaborators.
	RunID string `json:"run_id"`

	// GeneratedAt is the instant categorization ran (the "now" used
	// for waiver expiry).
	GeneratedAt time.Time `json:"generated_at"`

	// Findings preserves the detection engine's ordering, except where
	// ResolveCollisions has merged duplicates.
	Findings []CategorizedFinding `json:"findings"`

	// Collisions is the number of merges performed by
	// ResolveCollisions: distinct raw findings that hashed to the same
	// finding id. A diagnostic signal, not a correctness failure.
	Collisions int `json:"collisions"`
}

// Categorize assigns a category to every identified finding by looking
// up its attached id in both stores. Callers attach ids with
// identity.Attach; Categorize never re-derives them. Either store may
// be nil (treated as empty).
func Categorize(findings []identity.Identified, bl *baseline.File, wv *waiver.File, now time.Time) *Result {
	r := &Result{
		RunID:       uuid.NewString(),
		GeneratedAt: now.UTC(),
		Findings:    make([]CategorizedFinding, 0, len(findings)),
	}

	for _, f := range findings {
		id := f.FindingID
		cf := CategorizedFinding{Finding: f.Finding, FindingID: id}

		// Waiver entries, active or lapsed, take precedence over
		// baseline entries for the same id.
		switch {
		case wv != nil && hasValidWaiver(wv, id, now):
			e, _ := wv.GetValid(id, now)
			cf.Category = CategoryWaived
			cf.Waiver = &e
		case wv != nil && hasExpiredWaiver(wv, id, now):
			e, _ := wv.Get(id)
			cf.Category = CategoryWaiverExpired
			cf.Waiver = &e
		case bl != nil && bl.Has(id):
			e, _ := bl.Get(id)
			cf.Category = CategoryBaselined
			cf.Baseline = &e
		default:
			cf.Category = CategoryNew
		}

		r.Findings = append(r.Findings, cf)
	}

	return r
}

func hasValidWaiver(wv *waiver.File, id string, now time.Time) bool {
	_, ok := wv.GetValid(id, now)
	return ok
}

func hasExpiredWaiver(wv *waiver.File, id string, now time.Time) bool {
	e, ok := wv.Get(id)
	return ok && e.Expired(now)
}

// ResolveCollisions returns a result with findings sharing a finding
// id merged into one CategorizedFinding carrying all evidence
// locations. The first occurrence keeps its position, severity, and
// message; Collisions counts the merges. The receiver is not modified.
func (r *Result) ResolveCollisions() *Result {
	out := &Result{
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt,
		Findings:    make([]CategorizedFinding, 0, len(r.Findings)),
	}

	byID := make(map[string]int, len(r.Findings))
	for _, cf := range r.Findings {
		i, seen := byID[cf.FindingID]
		if !seen {
			byID[cf.FindingID] = len(out.Findings)
			// Copy the evidence slice so merging never aliases the input.
			cf.Evidence = append([]finding.Evidence(nil), cf.Evidence...)
			out.Findings = append(out.Findings, cf)
			continue
		}
		out.Findings[i].Evidence = append(out.Findings[i].Evidence, cf.Evidence...)
		out.Collisions++
	}

	return out
}

// HasCollisions reports whether ResolveCollisions merged anything.
func (r *Result) HasCollisions() bool {
	return r.Collisions > 0
}
