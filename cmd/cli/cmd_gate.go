package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/scheck/scheck/pkg/artifact"
	"github.com/scheck/scheck/pkg/baseline"
	"github.com/scheck/scheck/pkg/exitcode"
	"github.com/scheck/scheck/pkg/finding"
	"github.com/scheck/scheck/pkg/identity"
	"github.com/scheck/scheck/pkg/jsonutil"
	"github.com/scheck/scheck/pkg/policy"
	"github.com/scheck/scheck/pkg/triage"
	"github.com/scheck/scheck/pkg/ui"
	"github.com/scheck/scheck/pkg/waiver"
)

// runGate executes the gate command: loads the detection engine's
// findings artifact, categorizes every finding against the baseline
// and waiver stores, reports the summary, and exits 0/1 for CI.
//
// Store corruption degrades to an empty store with a warning here —
// suppressions are an optimization, and a single bad file must not
// block CI. Mutating commands are stricter.
func runGate() {
	fs := flag.NewFlagSet("gate", flag.ExitOnError)
	findingsPath := fs.String("findings", "", "Findings artifact JSON from the detection engine")
	project := fs.String("project", ".", "Project directory containing .scheck/")
	failOnFlag := fs.String("fail-on", "", "Minimum severity that fails CI: P0, P1, P2 (default: any)")
	policyPath := fs.String("policy", "", "Gate policy file (default: <project>/.scheck/policy.yaml)")
	format := fs.String("format", "console", "Output format: console, json")
	output := fs.String("o", "", "Write the JSON result to a file")
	silent := fs.Bool("silent", false, "Suppress decorated output")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	verbose := fs.Bool("verbose", false, "Verbose logging")

	fs.Parse(os.Args[2:])

	ui.SetSilent(*silent)
	ui.SetNoColor(*noColor)
	logger := newLogger(*verbose)

	if *findingsPath == "" {
		exitWithUsage("The -findings artifact is required.",
			"scheck gate -findings results.json [-project dir] [-fail-on P1]")
	}
	switch *format {
	case "console", "json":
	default:
		exitWithError("Unknown format %q. Supported: console, json", *format)
	}

	pol := loadPolicy(*project, *policyPath)

	failOn := pol.FailOnSeverity()
	if *failOnFlag != "" {
		failOn = finding.Severity(*failOnFlag)
		if !failOn.IsValid() {
			exitWithError("Unknown severity %q for -fail-on. Supported: P0, P1, P2", *failOnFlag)
		}
	}

	findings, err := artifact.LoadFindings(*findingsPath)
	if err != nil {
		exitWithError("Loading findings: %v", err)
	}

	now := time.Now().UTC()
	bl := baseline.LoadOrEmpty(baseline.PathFor(*project), logger)
	wv := waiver.LoadOrEmpty(waiver.PathFor(*project), logger)

	result := triage.Categorize(identity.Attach(findings), bl, wv, now).ResolveCollisions()
	result = pol.Apply(result)

	if result.HasCollisions() {
		ui.PrintWarning(fmt.Sprintf("%d finding id collision(s) merged; consider tightening anchors", result.Collisions))
	}

	verdict := exitcode.FromResult(result, failOn)

	switch *format {
	case "json":
		writeJSONResult(result, verdict, *output)
	default:
		printGateConsole(result, wv, pol, now)
		if *output != "" {
			writeJSONResult(result, verdict, *output)
		}
	}

	if verdict.Code == exitcode.Success {
		ui.PrintSuccess(verdict.Reason)
	} else {
		ui.PrintError(verdict.Reason)
	}
	os.Exit(int(verdict.Code))
}

// loadPolicy resolves the gate policy: an explicit -policy path must
// exist, the project default may be absent.
func loadPolicy(project, explicit string) *policy.Policy {
	if explicit != "" {
		p, err := policy.Load(explicit)
		if err != nil {
			exitWithError("Loading policy: %v", err)
		}
		return p
	}
	p, err := policy.LoadOrDefault(project)
	if err != nil {
		exitWithError("Loading policy: %v", err)
	}
	return p
}

// gateOutput is the machine-readable gate result written by -format
// json / -o.
type gateOutput struct {
	Result  *triage.Result   `json:"result"`
	Summary triage.Summary   `json:"summary"`
	Verdict exitcode.Verdict `json:"verdict"`
}

func writeJSONResult(result *triage.Result, verdict exitcode.Verdict, path string) {
	out := gateOutput{Result: result, Summary: result.Summary(), Verdict: verdict}

	if path == "" {
		if err := jsonutil.MarshalWrite(os.Stdout, out); err != nil {
			exitWithError("Writing result: %v", err)
		}
		fmt.Println()
		return
	}

	data, err := jsonutil.MarshalIndent(out, "  ")
	if err != nil {
		exitWithError("Marshaling result: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		exitWithError("Writing result: %v", err)
	}
	ui.PrintSuccess(fmt.Sprintf("JSON result written to %s", path))
}

// printGateConsole renders the categorized findings and summary to
// stderr in a readable format.
func printGateConsole(result *triage.Result, wv *waiver.File, pol *policy.Policy, now time.Time) {
	ui.PrintSection("Findings")

	for _, cf := range result.Findings {
		primary := cf.PrimaryEvidence()
		loc := primary.File
		if primary.Symbol != "" {
			loc += ":" + primary.Symbol
		}
		fmt.Fprintf(os.Stderr, "  %s %s %s %s\n",
			ui.CategoryStyle(string(cf.Category)).Render(fmt.Sprintf("[%s]", cf.Category)),
			ui.SeverityStyle(string(cf.Severity)).Render(string(cf.Severity)),
			cf.FindingID,
			ui.MutedStyle.Render(loc))
	}
	if len(result.Findings) == 0 {
		ui.PrintInfo("no findings reported")
	}

	s := result.Summary()
	ui.PrintSection("Summary")
	for _, cat := range triage.Categories() {
		if s.ByCategory[cat] == 0 {
			continue
		}
		detail := fmt.Sprintf("%d", s.ByCategory[cat])
		for _, sev := range finding.Severities() {
			if n := s.Matrix[cat][sev]; n > 0 {
				detail += fmt.Sprintf("  %s=%d", sev, n)
			}
		}
		ui.PrintKeyValue(string(cat), detail)
	}

	// Advance warning for waivers about to lapse.
	for _, e := range wv.Expiring(now, pol.Waivers.WarnWithinDays) {
		ui.PrintWarning(fmt.Sprintf("waiver %s (%s) expires %s",
			e.FindingID, e.Owner, e.ExpiresAt.Format("2006-01-02")))
	}
}
