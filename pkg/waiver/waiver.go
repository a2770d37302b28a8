// Package waiver persists time-boxed, justified suppressions. Unlike a
// baseline entry, every waiver names an owner, carries a free-text
// reason, and expires at a hard deadline; an expired waiver is inert
// (it no longer suppresses) but stays in the file until an explicit
// prune so operators see it surfaced instead of silently dropped.
// Entries live in <project>/.scheck/waivers.json, keyed by finding id.
package waiver

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/scheck/scheck/pkg/finding"
	"github.com/scheck/scheck/pkg/storefile"
)

// SchemaVersion is the current waiver file format version. The
// baseline format versions independently.
const SchemaVersion = "1.0"

// FileName is the waiver file name under the project's .scheck dir.
const FileName = "waivers.json"

// PathFor returns the waiver file path for a project directory.
func PathFor(projectDir string) string {
	return filepath.Join(projectDir, ".scheck", FileName)
}

// ReasonKey classifies why a finding was waived.
type ReasonKey string

const (
	FalsePositive  ReasonKey = "false_positive"
	AcceptableRisk ReasonKey = "acceptable_risk"
	WillFixLater   ReasonKey = "will_fix_later"
	NotApplicable  ReasonKey = "not_applicable"
	Other          ReasonKey = "other"
)

// IsValid reports whether k is a recognized reason key.
func (k ReasonKey) IsValid() bool {
	switch k {
	case FalsePositive, AcceptableRisk, WillFixLater, NotApplicable, Other:
		return true
	}
	return false
}

// Entry is a single waived finding.
type Entry struct {
	FindingID   string    `json:"finding_id"`
	InvariantID string    `json:"invariant_id"`
	File        string    `json:"file"`
	Symbol      string    `json:"symbol,omitempty"`
	ReasonKey   ReasonKey `json:"reason_key,omitempty"`
	Reason      string    `json:"reason"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the waiver is inert at the given instant.
// A waiver expiring exactly now is already expired.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// File is the persisted waiver store. Same load-mutate-save lifecycle
// and atomic write discipline as the baseline store.
type File struct {
	storefile.Meta
	Entries map[string]Entry `json:"entries"`
}

// New returns an empty, schema-stamped waiver file.
func New() *File {
	return &File{
		Meta:    storefile.NewMeta(SchemaVersion),
		Entries: map[string]Entry{},
	}
}

// Load reads the waiver store at path. Missing file yields an empty
// store; unparseable or schema-incompatible files return
// finding.ErrCorruptStore.
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

// LoadOrEmpty loads the waiver store for the scan path, degrading a
// corrupt store to an empty one with a warning instead of failing.
func LoadOrEmpty(path string, logger *slog.Logger) *File {
	f, err := Load(path)
	if err != nil {
		orDefault(logger).Warn("waiver store unreadable, treating as empty",
			"path", path, "error", err)
		return New()
	}
	return f
}

// Save stamps provenance and atomically writes the store to path.
func (f *File) Save(path string) error {
	f.Touch()
	if err := storefile.Save(path, f); err != nil {
		return fmt.Errorf("saving waivers: %w", err)
	}
	return nil
}

// Add validates and inserts a waiver, replacing any existing waiver
// for the same finding id. Rejected with finding.ErrInvalidWaiver when
// the reason or owner is empty, the reason key is unrecognized, or the
// expiry is not strictly in the future. Never silently coerced.
func (f *File) Add(e Entry, now time.Time) error {
	if e.FindingID == "" {
		return fmt.Errorf("%w: finding id is required", finding.ErrInvalidWaiver)
	}
	if e.Reason == "" {
		return fmt.Errorf("%w: reason is required", finding.ErrInvalidWaiver)
	}
	if e.Owner == "" {
		return fmt.Errorf("%w: owner is required", finding.ErrInvalidWaiver)
	}
	if e.ReasonKey != "" && !e.ReasonKey.IsValid() {
		return fmt.Errorf("%w: unknown reason key %q", finding.ErrInvalidWaiver, e.ReasonKey)
	}
	if !e.ExpiresAt.After(now) {
		return fmt.Errorf("%w: expiry %s is not in the future", finding.ErrInvalidWaiver,
			e.ExpiresAt.Format(time.RFC3339))
	}

	if e.CreatedAt.IsZero() {
		e.CreatedAt = now.UTC()
	}
	f.Entries[e.FindingID] = e
	return nil
}

// GetValid returns the waiver for id only while it is active
// (now < ExpiresAt). An existing-but-expired waiver returns ok=false
// and is not deleted by this call.
func (f *File) GetValid(id string, now time.Time) (Entry, bool) {
	e, ok := f.Entries[id]
	if !ok || e.Expired(now) {
		return Entry{}, false
	}
	return e, true
}

// Get returns the waiver for id regardless of expiry.
func (f *File) Get(id string) (Entry, bool) {
	e, ok := f.Entries[id]
	return e, ok
}

// Len returns the number of stored waivers, expired ones included.
func (f *File) Len() int {
	return len(f.Entries)
}

// PruneExpired deletes waivers with ExpiresAt <= now and returns the
// removed count.
func (f *File) PruneExpired(now time.Time) int {
	removed := 0
	for id, e := range f.Entries {
		if e.Expired(now) {
			delete(f.Entries, id)
			removed++
		}
	}
	return removed
}

// Expiring returns active waivers due to expire within the next
// withinDays days (now < ExpiresAt <= now + withinDays), soonest
// first, for advance-warning reporting.
func (f *File) Expiring(now time.Time, withinDays int) []Entry {
	horizon := now.AddDate(0, 0, withinDays)

	var out []Entry
	for _, e := range f.Entries {
		if now.Before(e.ExpiresAt) && !e.ExpiresAt.After(horizon) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiresAt.Before(out[j].ExpiresAt)
	})
	return out
}

// orDefault returns l if non-nil, otherwise slog.Default().
func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
