package policy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheck/scheck/pkg/finding"
	"github.com/scheck/scheck/pkg/identity"
	"github.com/scheck/scheck/pkg/triage"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ".scheck", FileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return dir
}

func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, finding.Severity(""), p.FailOnSeverity())
	assert.Equal(t, 7, p.Waivers.WarnWithinDays)
}

func TestLoad_Full(t *testing.T) {
	dir := writePolicy(t, `
version: "1"
name: payments gate
fail_on:
  severity: P1
ignore:
  invariants:
    - LEGACY.RULE
  finding_ids:
    - A.B:aaaaaaaaaaaa
waivers:
  warn_within_days: 14
`)

	p, err := LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, finding.P1, p.FailOnSeverity())
	assert.Equal(t, []string{"LEGACY.RULE"}, p.Ignore.Invariants)
	assert.Equal(t, 14, p.Waivers.WarnWithinDays)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "policy.yaml"))
	assert.ErrorIs(t, err, ErrPolicyNotFound)

	p, err := LoadOrDefault(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoad_Invalid(t *testing.T) {
	dir := writePolicy(t, "fail_on:\n  severity: CRITICAL\n")
	_, err := LoadOrDefault(dir)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	dir = writePolicy(t, "waivers:\n  warn_within_days: -1\n")
	_, err = LoadOrDefault(dir)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	dir = writePolicy(t, "[ not yaml")
	_, err = LoadOrDefault(dir)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestApply_IgnoreLists(t *testing.T) {
	findings := []finding.Finding{
		{InvariantID: "LEGACY.RULE", Severity: finding.P2, Evidence: []finding.Evidence{{File: "a.ts"}}},
		{InvariantID: "WEBHOOK.IDEMPOTENT", Severity: finding.P0, Evidence: []finding.Evidence{{File: "b.ts"}}},
	}
	r := triage.Categorize(identity.Attach(findings), nil, nil, time.Now())

	p := Default()
	p.Ignore.Invariants = []string{"LEGACY.RULE"}

	filtered := p.Apply(r)
	require.Len(t, filtered.Findings, 1)
	assert.Equal(t, "WEBHOOK.IDEMPOTENT", filtered.Findings[0].InvariantID)

	// Input result untouched.
	assert.Len(t, r.Findings, 2)

	// Ignoring by finding id.
	p = Default()
	p.Ignore.FindingIDs = []string{r.Findings[1].FindingID}
	filtered = p.Apply(r)
	require.Len(t, filtered.Findings, 1)
	assert.Equal(t, "LEGACY.RULE", filtered.Findings[0].InvariantID)
}

func TestApply_NoIgnoreReturnsSameResult(t *testing.T) {
	r := triage.Categorize(nil, nil, nil, time.Now())
	assert.Same(t, r, Default().Apply(r))
}
