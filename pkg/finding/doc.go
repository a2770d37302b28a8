// Package finding provides the shared finding types consumed by the
// identity, suppression, and triage packages.
//
// Findings are re-derived fresh on every scan by the detection engine;
// nothing in this package assumes continuity of evidence ordering or
// count across runs. The identity package attaches stable fingerprints,
// so Finding itself carries no id field.
//
// Usage:
//
//	f := finding.Finding{
//	    InvariantID: "WEBHOOK.IDEMPOTENT",
//	    Severity:    finding.P1,
//	    Evidence:    []finding.Evidence{{File: "src/webhook.ts", Line: 10}},
//	}
package finding
