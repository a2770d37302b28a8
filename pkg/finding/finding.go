package finding

// Evidence is a single code location supporting a finding. The first
// evidence entry in a finding is the primary location and the only one
// that participates in identity.
type Evidence struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Symbol  string `json:"symbol,omitempty"`
	Context string `json:"context,omitempty"`
}

// Finding is a single reported violation of a named invariant, as
// produced by the detection engine.
type Finding struct {
	InvariantID string     `json:"invariant_id"`
	Severity    Severity   `json:"severity"`
	Message     string     `json:"message"`
	Evidence    []Evidence `json:"evidence"`
}

// PrimaryEvidence returns the first evidence entry, or a zero Evidence
// when the finding carries none. Identity derivation tolerates missing
// evidence, so this never fails.
func (f Finding) PrimaryEvidence() Evidence {
	if len(f.Evidence) == 0 {
		return Evidence{}
	}
	return f.Evidence[0]
}
