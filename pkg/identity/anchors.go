package identity

import (
	"regexp"
	"strings"
	"sync"

	"github.com/scheck/scheck/pkg/finding"
)

// AnchorExtractor inspects a finding's message or primary evidence and
// returns zero or more extra identity fields. Extractors must be pure.
//
// Anchor keys must not reuse the base payload keys ("invariant",
// "file", "symbol"); registering an extractor that does would fold two
// distinct identity dimensions into one.
type AnchorExtractor func(f finding.Finding) map[string]string

var (
	anchorMu sync.RWMutex
	anchors  = map[string]AnchorExtractor{}
)

// RegisterAnchor installs an extractor for the given invariant id,
// replacing any previous registration. Invariant ids are matched
// case-insensitively.
func RegisterAnchor(invariantID string, extract AnchorExtractor) {
	anchorMu.Lock()
	defer anchorMu.Unlock()
	anchors[strings.ToUpper(invariantID)] = extract
}

// anchorFor looks up the extractor registered for invariantID.
func anchorFor(invariantID string) (AnchorExtractor, bool) {
	anchorMu.RLock()
	defer anchorMu.RUnlock()
	e, ok := anchors[strings.ToUpper(invariantID)]
	return e, ok
}

// webhookProviders are the provider names recognized in webhook
// evidence context. Matched case-insensitively as whole words.
var webhookProviders = []string{
	"stripe", "paypal", "square", "github", "gitlab",
	"shopify", "twilio", "sendgrid", "slack",
}

var wordRe = regexp.MustCompile(`[a-z0-9_]+`)

// extractWebhookProvider anchors webhook-idempotency findings to the
// webhook provider named in the primary evidence context, so the same
// handler violating the invariant for two providers yields two ids.
func extractWebhookProvider(f finding.Finding) map[string]string {
	ctx := strings.ToLower(f.PrimaryEvidence().Context)
	for _, word := range wordRe.FindAllString(ctx, -1) {
		for _, p := range webhookProviders {
			if word == p {
				return map[string]string{"provider": p}
			}
		}
	}
	return nil
}

// sideEffectKinds maps message substrings to the canonical side-effect
// kind for transaction-side-effect findings.
var sideEffectKinds = []struct {
	pattern *regexp.Regexp
	kind    string
}{
	{regexp.MustCompile(`(?i)\bhttp\b|\bfetch\b|external (api|call|service)`), "http_call"},
	{regexp.MustCompile(`(?i)\be-?mail\b|\bsmtp\b`), "email"},
	{regexp.MustCompile(`(?i)\bqueue\b|\bpublish\b|\bkafka\b|\bsqs\b`), "queue_publish"},
	{regexp.MustCompile(`(?i)file (write|system)|\bfs\.\w+`), "file_write"},
	{regexp.MustCompile(`(?i)\bwebhook\b`), "webhook"},
}

// extractSideEffectKind anchors transaction-side-effect findings to the
// kind of side effect named in the message text.
func extractSideEffectKind(f finding.Finding) map[string]string {
	for _, s := range sideEffectKinds {
		if s.pattern.MatchString(f.Message) {
			return map[string]string{"effect": s.kind}
		}
	}
	return nil
}

func init() {
	RegisterAnchor("WEBHOOK.IDEMPOTENT", extractWebhookProvider)
	RegisterAnchor("TXN.NO_SIDE_EFFECTS", extractSideEffectKind)
}
