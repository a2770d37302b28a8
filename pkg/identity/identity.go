// Package identity derives stable fingerprints for findings.
//
// A finding id has the form "INVARIANT.ID:hash12" where hash12 is the
// first 12 hex characters of a SHA-256 over a canonical identity
// payload. Only identity-relevant fields participate: the invariant id,
// the normalized primary-evidence file path, the primary symbol, and
// any invariant-specific anchor fields. Message text, line numbers, and
// evidence ordering are deliberately excluded so the id survives
// remediation-text edits, finding reordering, and code shifting within
// a function.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/scheck/scheck/pkg/finding"
)

// hashLen is the number of hex characters kept from the SHA-256 digest.
const hashLen = 12

// GenerateFindingID returns the stable fingerprint for f.
// Pure and deterministic: the same logical finding yields the same id
// across runs, machines, and evidence orderings. A finding with no
// evidence still gets an id (file and symbol hash as empty strings).
func GenerateFindingID(f finding.Finding) string {
	primary := f.PrimaryEvidence()

	payload := map[string]string{
		"invariant": strings.ToLower(f.InvariantID),
		"file":      NormalizePath(primary.File),
		"symbol":    strings.ToLower(primary.Symbol),
	}

	if extract, ok := anchorFor(f.InvariantID); ok {
		for k, v := range extract(f) {
			payload[k] = v
		}
	}

	sum := sha256.Sum256([]byte(canonicalize(payload)))
	hash12 := hex.EncodeToString(sum[:])[:hashLen]

	return f.InvariantID + ":" + hash12
}

// NormalizePath canonicalizes a source path for identity purposes:
// backslashes become forward slashes, a single leading "./" or "/" is
// stripped, and the result is trimmed and lowercased. "src/Webhook.ts"
// and "./src/webhook.ts" normalize to the same string.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(p, "./") {
		p = p[2:]
	} else if strings.HasPrefix(p, "/") {
		p = p[1:]
	}
	return strings.ToLower(p)
}

// canonicalize renders the payload as "k:v" pairs joined by "|" with
// keys sorted lexicographically, so map construction order never leaks
// into the hash.
func canonicalize(payload map[string]string) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+payload[k])
	}
	return strings.Join(parts, "|")
}
