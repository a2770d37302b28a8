package finding

import "errors"

// Sentinel errors for the identity/suppression pipeline.
// Callers should use errors.Is() to check for these.
var (
	// ErrInvalidArgument indicates malformed command input. Fails fast,
	// never retried.
	ErrInvalidArgument = errors.New("finding: invalid argument")

	// ErrArtifactNotFound indicates a required input artifact (e.g. the
	// detection engine's findings file) does not exist.
	ErrArtifactNotFound = errors.New("finding: artifact not found")

	// ErrArtifactInvalid indicates an input artifact exists but could
	// not be parsed.
	ErrArtifactInvalid = errors.New("finding: artifact invalid")

	// ErrCorruptStore indicates a baseline or waiver file exists but
	// fails to parse or has an incompatible schema version. The scan
	// path degrades by treating the store as empty; mutating commands
	// surface it to the operator.
	ErrCorruptStore = errors.New("finding: corrupt suppression store")

	// ErrInvalidWaiver indicates a waiver missing its reason or owner,
	// or carrying a non-future expiry, at creation time.
	ErrInvalidWaiver = errors.New("finding: invalid waiver")
)
