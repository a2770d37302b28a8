package identity

import "github.com/scheck/scheck/pkg/finding"

// Identified couples a finding with its stable fingerprint. Attaching
// an id is an immutable transform: the input findings are never
// mutated, so callers holding the raw slice see no aliasing effects.
type Identified struct {
	finding.Finding
	FindingID string `json:"finding_id"`
}

// Attach returns the findings paired with their ids, preserving order.
func Attach(findings []finding.Finding) []Identified {
	out := make([]Identified, 0, len(findings))
	for _, f := range findings {
		out = append(out, Identified{Finding: f, FindingID: GenerateFindingID(f)})
	}
	return out
}
