package waiver

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
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func validEntry(now time.Time) Entry {
	return Entry{
		FindingID:   "WEBHOOK.IDEMPOTENT:abc123def456",
		InvariantID: "WEBHOOK.IDEMPOTENT",
		File:        "src/webhook.ts",
		Symbol:      "handlePost",
		ReasonKey:   WillFixLater,
		Reason:      "fix scheduled for next sprint",
		Owner:       "payments-team",
		ExpiresAt:   now.AddDate(0, 0, 14),
	}
}

func TestReasonKeyIsValid(t *testing.T) {
	for _, k := range []ReasonKey{FalsePositive, AcceptableRisk, WillFixLater, NotApplicable, Other} {
		assert.True(t, k.IsValid(), "%s", k)
	}
	assert.False(t, ReasonKey("because").IsValid())
}

func TestAdd_Valid(t *testing.T) {
	now := time.Now().UTC()
	f := New()

	require.NoError(t, f.Add(validEntry(now), now))
	assert.Equal(t, 1, f.Len())

	e, ok := f.Get("WEBHOOK.IDEMPOTENT:abc123def456")
	require.True(t, ok)
	assert.False(t, e.CreatedAt.IsZero(), "CreatedAt must be stamped")
}

func TestAdd_Validation(t *testing.T) {
	now := time.Now().UTC()

	cases := map[string]func(*Entry){
		"missing reason":     func(e *Entry) { e.Reason = "" },
		"missing owner":      func(e *Entry) { e.Owner = "" },
		"missing finding id": func(e *Entry) { e.FindingID = "" },
		"unknown reason key": func(e *Entry) { e.ReasonKey = "vibes" },
		"expiry in the past": func(e *Entry) { e.ExpiresAt = now.Add(-time.Hour) },
		"expiry exactly now": func(e *Entry) { e.ExpiresAt = now },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := New()
			e := validEntry(now)
			mutate(&e)
			err := f.Add(e, now)
			assert.ErrorIs(t, err, finding.ErrInvalidWaiver)
			assert.Equal(t, 0, f.Len(), "rejected waiver must not be stored")
		})
	}
}

func TestGetValid_ExpiryBoundary(t *testing.T) {
	now := time.Now().UTC()
	f := New()

	e := validEntry(now)
	e.ExpiresAt = now.Add(time.Second)
	require.NoError(t, f.Add(e, now))

	// One second before expiry: active.
	_, ok := f.GetValid(e.FindingID, now)
	assert.True(t, ok)

	// Exactly at expiry and after: inert but not deleted.
	_, ok = f.GetValid(e.FindingID, e.ExpiresAt)
	assert.False(t, ok)
	_, ok = f.GetValid(e.FindingID, e.ExpiresAt.Add(time.Minute))
	assert.False(t, ok)
	assert.Equal(t, 1, f.Len())
}

func TestPruneExpired(t *testing.T) {
	now := time.Now().UTC()
	f := New()

	active := validEntry(now)
	require.NoError(t, f.Add(active, now))

	expired := validEntry(now)
	expired.FindingID = "TXN.NO_SIDE_EFFECTS:000011112222"
	expired.ExpiresAt = now.Add(time.Minute)
	require.NoError(t, f.Add(expired, now))

	removed := f.PruneExpired(now.Add(time.Hour))

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, f.Len())
	_, ok := f.Get(active.FindingID)
	assert.True(t, ok)
}

func TestExpiring_WindowAndOrder(t *testing.T) {
	now := time.Now().UTC()
	f := New()

	in3 := validEntry(now)
	in3.FindingID = "A.B:aaaaaaaaaaaa"
	in3.ExpiresAt = now.AddDate(0, 0, 3)
	require.NoError(t, f.Add(in3, now))

	in7 := validEntry(now)
	in7.FindingID = "A.B:bbbbbbbbbbbb"
	in7.ExpiresAt = now.AddDate(0, 0, 7)
	require.NoError(t, f.Add(in7, now))

	in30 := validEntry(now)
	in30.FindingID = "A.B:cccccccccccc"
	in30.ExpiresAt = now.AddDate(0, 0, 30)
	require.NoError(t, f.Add(in30, now))

	got := f.Expiring(now, 7)
	require.Len(t, got, 2)
	assert.Equal(t, "A.B:aaaaaaaaaaaa", got[0].FindingID, "soonest first")
	assert.Equal(t, "A.B:bbbbbbbbbbbb", got[1].FindingID)

	// An already-expired waiver never appears in the warning window.
	assert.Empty(t, f.Expiring(now.AddDate(0, 1, 0), 7))
}

func TestLoad_MissingAndCorrupt(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "waivers.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())

	path := filepath.Join(t.TempDir(), "waivers.json")
	require.NoError(t, os.WriteFile(path, []byte("][ nope"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, finding.ErrCorruptStore)

	degraded := LoadOrEmpty(path, discard)
	assert.Equal(t, 0, degraded.Len())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	now := time.Now().UTC()
	dir := t.TempDir()
	path := PathFor(dir)

	f := New()
	require.NoError(t, f.Add(validEntry(now), now))
	require.NoError(t, f.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())

	e, ok := loaded.Get("WEBHOOK.IDEMPOTENT:abc123def456")
	require.True(t, ok)
	assert.Equal(t, WillFixLater, e.ReasonKey)
	assert.Equal(t, "payments-team", e.Owner)
}
