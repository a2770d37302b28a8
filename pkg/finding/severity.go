package finding

// Severity represents the severity level of a security finding.
// Values are ordered: P0 is the most severe, P2 the least.
type Severity string

const (
	// P0 represents an invariant violation requiring immediate action
	// (data loss, double-charging, auth bypass class).
	P0 Severity = "P0"

	// P1 represents a significant violation requiring a prompt fix.
	P1 Severity = "P1"

	// P2 represents a lower-impact violation to fix opportunistically.
	P2 Severity = "P2"
)

// IsValid reports whether s is a recognized severity level.
func (s Severity) IsValid() bool {
	switch s {
	case P0, P1, P2:
		return true
	}
	return false
}

// Score returns a numeric score for sorting and threshold comparison.
// P0=3, P1=2, P2=1, unknown=0.
func (s Severity) Score() int {
	switch s {
	case P0:
		return 3
	case P1:
		return 2
	case P2:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is at or above the given severity floor.
// Unknown severities never satisfy a valid floor.
func (s Severity) AtLeast(floor Severity) bool {
	return s.Score() >= floor.Score() && s.Score() > 0
}

// String returns the severity as a string.
func (s Severity) String() string {
	return string(s)
}

// Severities lists all valid severities from most to least severe.
func Severities() []Severity {
	return []Severity{P0, P1, P2}
}
