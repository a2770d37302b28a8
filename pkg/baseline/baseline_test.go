package baseline

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheck/scheck/pkg/finding"
	"github.com/scheck/scheck/pkg/identity"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func sampleFindings() []finding.Finding {
	return []finding.Finding{
		{
			InvariantID: "WEBHOOK.IDEMPOTENT",
			Severity:    finding.P0,
			Message:     "handler not idempotent",
			Evidence:    []finding.Evidence{{File: "src/webhook.ts", Line: 10, Symbol: "handlePost", Context: "stripe"}},
		},
		{
			InvariantID: "TXN.NO_SIDE_EFFECTS",
			Severity:    finding.P1,
			Message:     "HTTP call inside transaction",
			Evidence:    []finding.Evidence{{File: "src/billing.ts", Line: 42, Symbol: "charge"}},
		},
	}
}

func TestNew(t *testing.T) {
	f := New()
	assert.Equal(t, SchemaVersion, f.SchemaVersion)
	assert.NotNil(t, f.Entries)
	assert.False(t, f.UpdatedAt.IsZero())
}

func TestLoad_MissingFileYieldsEmptyStore(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "baseline.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
	assert.Equal(t, SchemaVersion, f.SchemaVersion)
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, finding.ErrCorruptStore)
}

func TestLoad_IncompatibleSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version":"9.0","entries":{}}`), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, finding.ErrCorruptStore)
}

func TestLoadOrEmpty_DegradesCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	f := LoadOrEmpty(path, discard)
	assert.Equal(t, 0, f.Len())
}

func TestAdd_InsertAndTouch(t *testing.T) {
	f := New()
	findings := sampleFindings()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	inserted := f.Add(findings, "adopted during rollout", now)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 2, f.Len())

	// Idempotent on the inserted count: second call inserts nothing
	// and does not grow the store.
	later := now.Add(24 * time.Hour)
	assert.Equal(t, 0, f.Add(findings, "", later))
	assert.Equal(t, 2, f.Len())

	id := identity.GenerateFindingID(findings[0])
	entry, ok := f.Get(id)
	require.True(t, ok)
	assert.Equal(t, now, entry.CreatedAt)
	assert.Equal(t, later, entry.LastSeenAt)
	assert.Equal(t, "adopted during rollout", entry.Notes)
}

func TestAdd_NotesPolicy(t *testing.T) {
	f := New()
	findings := sampleFindings()[:1]
	now := time.Now().UTC()

	f.Add(findings, "first", now)

	// Empty notes preserve, non-empty notes overwrite.
	f.Add(findings, "", now)
	id := identity.GenerateFindingID(findings[0])
	entry, _ := f.Get(id)
	assert.Equal(t, "first", entry.Notes)

	f.Add(findings, "second", now)
	entry, _ = f.Get(id)
	assert.Equal(t, "second", entry.Notes)
}

func TestAdd_RecordsPrimaryEvidence(t *testing.T) {
	f := New()
	f.Add(sampleFindings()[:1], "", time.Now())

	for _, e := range f.Entries {
		assert.Equal(t, "WEBHOOK.IDEMPOTENT", e.InvariantID)
		assert.Equal(t, "src/webhook.ts", e.File)
		assert.Equal(t, "handlePost", e.Symbol)
	}
}

func TestHas(t *testing.T) {
	f := New()
	f.Add(sampleFindings(), "", time.Now())

	id := identity.GenerateFindingID(sampleFindings()[0])
	assert.True(t, f.Has(id))
	assert.False(t, f.Has("NOPE:000000000000"))
}

func TestPrune_ExclusiveBoundary(t *testing.T) {
	now := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	f := New()
	f.Entries["a:1"] = Entry{FindingID: "a:1", LastSeenAt: now.AddDate(0, 0, -91)}
	f.Entries["b:2"] = Entry{FindingID: "b:2", LastSeenAt: now.AddDate(0, 0, -90)}
	f.Entries["c:3"] = Entry{FindingID: "c:3", LastSeenAt: now.AddDate(0, 0, -1)}

	removed := f.Prune(90, now)

	assert.Equal(t, 1, removed)
	assert.False(t, f.Has("a:1"), "91 days stale must be pruned")
	assert.True(t, f.Has("b:2"), "exactly 90 days stale must be retained")
	assert.True(t, f.Has("c:3"))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := PathFor(dir)

	f := New()
	f.Add(sampleFindings(), "roundtrip", time.Now())
	require.NoError(t, f.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, f.Len(), loaded.Len())
	assert.Equal(t, SchemaVersion, loaded.SchemaVersion)
	assert.NotEmpty(t, loaded.GeneratedBy)

	for id, want := range f.Entries {
		got, ok := loaded.Get(id)
		require.True(t, ok, "entry %s missing after reload", id)
		assert.Equal(t, want.InvariantID, got.InvariantID)
		assert.Equal(t, want.Notes, got.Notes)
	}
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, filepath.Join("proj", ".scheck", "baseline.json"), PathFor("proj"))
}
