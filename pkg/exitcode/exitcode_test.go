package exitcode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scheck/scheck/pkg/baseline"
	"github.com/scheck/scheck/pkg/finding"
	"github.com/scheck/scheck/pkg/identity"
	"github.com/scheck/scheck/pkg/triage"
	"github.com/scheck/scheck/pkg/waiver"
)

func p2Finding() finding.Finding {
	return finding.Finding{
		InvariantID: "ORDER.TOTAL_CONSISTENT",
		Severity:    finding.P2,
		Message:     "total drift",
		Evidence:    []finding.Evidence{{File: "src/order.ts", Symbol: "recalc"}},
	}
}

func TestFromResult_NoFindings(t *testing.T) {
	r := triage.Categorize(nil, baseline.New(), waiver.New(), time.Now())
	v := FromResult(r, "")
	assert.Equal(t, Success, v.Code)
	assert.Equal(t, "no findings", v.Reason)
}

func TestFromResult_NewFindingFails(t *testing.T) {
	r := triage.Categorize(identity.Attach([]finding.Finding{p2Finding()}), baseline.New(), waiver.New(), time.Now())

	v := FromResult(r, "")
	assert.Equal(t, Failure, v.Code)
	assert.Contains(t, v.Reason, "1 new")
}

func TestFromResult_FloorFilters(t *testing.T) {
	r := triage.Categorize(identity.Attach([]finding.Finding{p2Finding()}), baseline.New(), waiver.New(), time.Now())

	v := FromResult(r, finding.P0)
	assert.Equal(t, Success, v.Code)
}

func TestFromResult_SuppressedPasses(t *testing.T) {
	now := time.Now().UTC()
	bl := baseline.New()
	bl.Add([]finding.Finding{p2Finding()}, "", now)

	r := triage.Categorize(identity.Attach([]finding.Finding{p2Finding()}), bl, waiver.New(), now)
	v := FromResult(r, "")
	assert.Equal(t, Success, v.Code)
	assert.Contains(t, v.Reason, "1 baselined")
}
