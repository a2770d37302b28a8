// Package policy loads the optional .scheck/policy.yaml gate policy:
// the severity floor for CI failure, invariants and finding ids to
// drop before reporting, and the advance-warning window for expiring
// waivers. Absent file means default policy; a malformed file is an
// operator error and never silently ignored.
package policy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/scheck/scheck/pkg/finding"
	"github.com/scheck/scheck/pkg/triage"
)

// ErrPolicyNotFound is returned when a policy file does not exist.
var ErrPolicyNotFound = errors.New("policy file not found")

// ErrInvalidPolicy is returned when a policy file is malformed.
var ErrInvalidPolicy = errors.New("invalid policy file")

// FileName is the policy file name under the project's .scheck dir.
const FileName = "policy.yaml"

// PathFor returns the policy file path for a project directory.
func PathFor(projectDir string) string {
	return filepath.Join(projectDir, ".scheck", FileName)
}

// Policy is a parsed gate policy.
type Policy struct {
	Version string     `yaml:"version"`
	Name    string     `yaml:"name"`
	FailOn  FailOn     `yaml:"fail_on"`
	Ignore  IgnoreSpec `yaml:"ignore"`
	Waivers WaiverSpec `yaml:"waivers"`
}

// FailOn defines what makes the gate fail.
type FailOn struct {
	// Severity is the minimum severity that fails CI (P0, P1, P2).
	// Empty means any severity fails.
	Severity string `yaml:"severity"`
}

// IgnoreSpec drops findings from the result before reporting.
type IgnoreSpec struct {
	Invariants []string `yaml:"invariants"`
	FindingIDs []string `yaml:"finding_ids"`
}

// WaiverSpec tunes waiver reporting.
type WaiverSpec struct {
	// WarnWithinDays is the expiring-waiver advance-warning window.
	WarnWithinDays int `yaml:"warn_within_days"`
}

// Default returns the policy used when no file is present: any
// severity fails, nothing ignored, 7-day expiry warning.
func Default() *Policy {
	return &Policy{
		Version: "1",
		Waivers: WaiverSpec{WarnWithinDays: 7},
	}
}

// Load reads and validates a policy file.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPolicyNotFound
		}
		return nil, fmt.Errorf("reading policy file: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadOrDefault loads the project's policy, falling back to defaults
// when the file is absent. Malformed files still fail.
func LoadOrDefault(projectDir string) (*Policy, error) {
	p, err := Load(PathFor(projectDir))
	if errors.Is(err, ErrPolicyNotFound) {
		return Default(), nil
	}
	return p, err
}

func (p *Policy) validate() error {
	if p.FailOn.Severity != "" && !finding.Severity(p.FailOn.Severity).IsValid() {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidPolicy, p.FailOn.Severity)
	}
	if p.Waivers.WarnWithinDays < 0 {
		return fmt.Errorf("%w: warn_within_days must not be negative", ErrInvalidPolicy)
	}
	return nil
}

// FailOnSeverity returns the configured severity floor; an invalid
// zero value means any severity fails.
func (p *Policy) FailOnSeverity() finding.Severity {
	return finding.Severity(p.FailOn.Severity)
}

// Ignored reports whether a categorized finding is dropped by the
// ignore lists.
func (p *Policy) Ignored(cf triage.CategorizedFinding) bool {
	for _, inv := range p.Ignore.Invariants {
		if inv == cf.InvariantID {
			return true
		}
	}
	for _, id := range p.Ignore.FindingIDs {
		if id == cf.FindingID {
			return true
		}
	}
	return false
}

// Apply returns a result without the ignored findings. The input
// result is not modified.
func (p *Policy) Apply(r *triage.Result) *triage.Result {
	if len(p.Ignore.Invariants) == 0 && len(p.Ignore.FindingIDs) == 0 {
		return r
	}

	out := &triage.Result{
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt,
		Collisions:  r.Collisions,
	}
	for _, cf := range r.Findings {
		if !p.Ignored(cf) {
			out.Findings = append(out.Findings, cf)
		}
	}
	return out
}
