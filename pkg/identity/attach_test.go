package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheck/scheck/pkg/finding"
)

func TestAttach(t *testing.T) {
	findings := []finding.Finding{
		{
			InvariantID: "WEBHOOK.IDEMPOTENT",
			Severity:    finding.P0,
			Evidence:    []finding.Evidence{{File: "src/webhook.ts", Symbol: "handlePost"}},
		},
		{
			InvariantID: "TXN.NO_SIDE_EFFECTS",
			Severity:    finding.P2,
			Evidence:    []finding.Evidence{{File: "src/billing.ts", Symbol: "charge"}},
		},
	}

	identified := Attach(findings)
	require.Len(t, identified, 2)

	// Order preserved, each id matches the direct derivation.
	for i, id := range identified {
		assert.Equal(t, findings[i].InvariantID, id.InvariantID)
		assert.Equal(t, GenerateFindingID(findings[i]), id.FindingID)
	}
}

func TestAttach_DoesNotMutateInput(t *testing.T) {
	f := finding.Finding{
		InvariantID: "WEBHOOK.IDEMPOTENT",
		Severity:    finding.P1,
		Evidence:    []finding.Evidence{{File: "src/webhook.ts"}},
	}
	in := []finding.Finding{f}

	_ = Attach(in)
	assert.Equal(t, f, in[0])
}

func TestAttach_Empty(t *testing.T) {
	assert.Empty(t, Attach(nil))
	assert.Empty(t, Attach([]finding.Finding{}))
}
