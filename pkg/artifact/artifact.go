// Package artifact loads the detection engine's findings output. The
// engine re-derives findings on every scan and writes them as JSON:
// either a bare array of findings or an envelope with a "findings"
// field. scheck only consumes this artifact; producing it is the
// engine's job.
package artifact

import (
	"fmt"
	"os"

	"github.com/scheck/scheck/pkg/finding"
	"github.com/scheck/scheck/pkg/jsonutil"
)

// report is the enveloped artifact shape.
type report struct {
	Findings []finding.Finding `json:"findings"`
}

// LoadFindings reads the findings artifact at path. A missing file is
// finding.ErrArtifactNotFound; an unparseable one is
// finding.ErrArtifactInvalid. Neither is retried.
func LoadFindings(path string) ([]finding.Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", finding.ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("reading findings artifact %s: %w", path, err)
	}

	// Bare array form first, envelope form second.
	var findings []finding.Finding
	if err := jsonutil.Unmarshal(data, &findings); err == nil {
		return validate(findings, path)
	}

	var r report
	if err := jsonutil.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", finding.ErrArtifactInvalid, path, err)
	}
	if r.Findings == nil {
		return nil, fmt.Errorf("%w: %s: no findings field", finding.ErrArtifactInvalid, path)
	}
	return validate(r.Findings, path)
}

func validate(findings []finding.Finding, path string) ([]finding.Finding, error) {
	for i, f := range findings {
		if f.InvariantID == "" {
			return nil, fmt.Errorf("%w: %s: finding %d has no invariant id",
				finding.ErrArtifactInvalid, path, i)
		}
		// An unrecognized severity would slip past every -fail-on
		// floor while still failing the default gate; reject it here
		// where the operator can see which finding is malformed.
		if !f.Severity.IsValid() {
			return nil, fmt.Errorf("%w: %s: finding %d (%s) has unknown severity %q",
				finding.ErrArtifactInvalid, path, i, f.InvariantID, f.Severity)
		}
	}
	return findings, nil
}
