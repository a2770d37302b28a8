// Package baseline persists the permanent suppression list used for
// incremental adoption: findings recorded here are known violations
// that do not fail CI. Entries live in <project>/.scheck/baseline.json
// and are keyed by finding id.
package baseline

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/scheck/scheck/pkg/finding"
	"github.com/scheck/scheck/pkg/identity"
	"github.com/scheck/scheck/pkg/storefile"
)

// SchemaVersion is the current baseline file format version. The
// waiver format versions independently.
const SchemaVersion = "1.0"

// FileName is the baseline file name under the project's .scheck dir.
const FileName = "baseline.json"

// PathFor returns the baseline file path for a project directory.
func PathFor(projectDir string) string {
	return filepath.Join(projectDir, ".scheck", FileName)
}

// Entry is a single permanently suppressed finding. Created on first
// add, touched (LastSeenAt) on rescans that still observe it, removed
// only by prune.
type Entry struct {
	FindingID   string    `json:"finding_id"`
	InvariantID string    `json:"invariant_id"`
	File        string    `json:"file"`
	Symbol      string    `json:"symbol,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	Notes       string    `json:"notes,omitempty"`
}

// File is the persisted baseline store. Lifecycle is load-mutate-save
// per command invocation; Save is atomic (see storefile).
type File struct {
	storefile.Meta
	Entries map[string]Entry `json:"entries"`
}

// New returns an empty, schema-stamped baseline file.
func New() *File {
	return &File{
		Meta:    storefile.NewMeta(SchemaVersion),
		Entries: map[string]Entry{},
	}
}

// Load reads the baseline at path. A missing file yields an empty,
// schema-stamped store. A file that exists but fails to parse or has
// an incompatible schema version returns finding.ErrCorruptStore;
// callers decide whether to abort or reset.
func Load(path string) (*File, error) {
	var f File
	found, err := storefile.Load(path, &f)
	if err != nil {
		return nil, err
	}
	if !found {
		return New(), nil
	}
	if !storefile.SchemaCompatible(f.SchemaVersion, SchemaVersion) {
		return nil, fmt.Errorf("%w: %s: schema version %q unsupported (want %s-compatible)",
			finding.ErrCorruptStore, path, f.SchemaVersion, SchemaVersion)
	}
	if f.Entries == nil {
		f.Entries = map[string]Entry{}
	}
	return &f, nil
}

// LoadOrEmpty loads the baseline for the scan path, degrading a
// corrupt store to an empty one with a warning instead of failing.
// Suppressions are an optimization, not correctness-critical; a single
// bad file must not block CI entirely.
func LoadOrEmpty(path string, logger *slog.Logger) *File {
	f, err := Load(path)
	if err != nil {
		orDefault(logger).Warn("baseline store unreadable, treating as empty",
			"path", path, "error", err)
		return New()
	}
	return f
}

// Save stamps provenance and atomically writes the baseline to path.
func (f *File) Save(path string) error {
	f.Touch()
	if err := storefile.Save(path, f); err != nil {
		return fmt.Errorf("saving baseline: %w", err)
	}
	return nil
}

// Add records the given findings in the baseline. Findings already
// present are touched (LastSeenAt = now) without creating duplicates;
// non-empty notes overwrite existing notes, empty notes preserve them.
// Returns the count of newly inserted entries, so calling twice with
// the same findings returns 0 the second time.
func (f *File) Add(findings []finding.Finding, notes string, now time.Time) int {
	now = now.UTC()
	inserted := 0

	for _, fnd := range findings {
		id := identity.GenerateFindingID(fnd)

		if existing, ok := f.Entries[id]; ok {
			existing.LastSeenAt = now
			if notes != "" {
				existing.Notes = notes
			}
			f.Entries[id] = existing
			continue
		}

		primary := fnd.PrimaryEvidence()
		f.Entries[id] = Entry{
			FindingID:   id,
			InvariantID: fnd.InvariantID,
			File:        primary.File,
			Symbol:      primary.Symbol,
			CreatedAt:   now,
			LastSeenAt:  now,
			Notes:       notes,
		}
		inserted++
	}

	return inserted
}

// Has reports whether a finding id is baselined.
func (f *File) Has(id string) bool {
	_, ok := f.Entries[id]
	return ok
}

// Get returns the entry for a finding id.
func (f *File) Get(id string) (Entry, bool) {
	e, ok := f.Entries[id]
	return e, ok
}

// Len returns the number of baselined findings.
func (f *File) Len() int {
	return len(f.Entries)
}

// Prune removes entries whose LastSeenAt is strictly older than
// staleDays days before now and returns the removed count. An entry
// exactly staleDays old is retained (exclusive threshold).
func (f *File) Prune(staleDays int, now time.Time) int {
	cutoff := now.UTC().AddDate(0, 0, -staleDays)
	removed := 0
	for id, e := range f.Entries {
		if e.LastSeenAt.Before(cutoff) {
			delete(f.Entries, id)
			removed++
		}
	}
	return removed
}

// orDefault returns l if non-nil, otherwise slog.Default().
func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
