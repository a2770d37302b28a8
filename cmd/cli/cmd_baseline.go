package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/scheck/scheck/pkg/artifact"
	"github.com/scheck/scheck/pkg/baseline"
	"github.com/scheck/scheck/pkg/cicd"
	"github.com/scheck/scheck/pkg/ui"
)

// runBaseline executes the baseline command. Exactly one mode is
// required: -show, -update or -prune. Unlike the gate, mutating modes
// load the store strictly and abort on corruption rather than silently
// resetting suppressions.
func runBaseline() {
	fs := flag.NewFlagSet("baseline", flag.ExitOnError)
	show := fs.Bool("show", false, "List the baselined findings")
	update := fs.Bool("update", false, "Record the findings from -findings in the baseline")
	prune := fs.Bool("prune", false, "Remove entries not seen within -prune-days")
	findingsPath := fs.String("findings", "", "Findings artifact JSON (required with -update)")
	notes := fs.String("notes", "", "Notes to attach to updated entries")
	pruneDays := fs.Int("prune-days", 90, "Staleness threshold in days for -prune")
	project := fs.String("project", ".", "Project directory containing .scheck/")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	silent := fs.Bool("silent", false, "Suppress decorated output")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	verbose := fs.Bool("verbose", false, "Verbose logging")

	fs.Parse(os.Args[2:])

	ui.SetSilent(*silent)
	ui.SetNoColor(*noColor)
	logger := newLogger(*verbose)

	modes := 0
	for _, m := range []bool{*show, *update, *prune} {
		if m {
			modes++
		}
	}
	if modes != 1 {
		exitWithUsage("Exactly one of -show, -update or -prune is required.",
			"scheck baseline -update -findings results.json [-notes text] [-yes]")
	}

	path := baseline.PathFor(*project)

	if *show {
		bl := baseline.LoadOrEmpty(path, logger)
		printBaseline(bl)
		return
	}

	// Mutating modes refuse to overwrite a store they cannot parse.
	bl, err := baseline.Load(path)
	if err != nil {
		exitWithError("Loading baseline: %v\nFix or remove %s before updating it.", err, path)
	}

	now := time.Now().UTC()

	switch {
	case *update:
		if *findingsPath == "" {
			exitWithUsage("The -findings artifact is required with -update.",
				"scheck baseline -update -findings results.json")
		}
		findings, err := artifact.LoadFindings(*findingsPath)
		if err != nil {
			exitWithError("Loading findings: %v", err)
		}

		if !confirmMutation(*yes, fmt.Sprintf(
			"Record %d finding(s) in the baseline at %s?", len(findings), path)) {
			ui.PrintInfo("baseline update cancelled")
			os.Exit(1)
		}

		inserted := bl.Add(findings, *notes, now)
		if err := bl.Save(path); err != nil {
			exitWithError("%v", err)
		}
		ui.PrintSuccess(fmt.Sprintf("baseline updated: %d new, %d total (%d touched)",
			inserted, bl.Len(), len(findings)-inserted))

	case *prune:
		if *pruneDays < 0 {
			exitWithError("-prune-days must be >= 0, got %d", *pruneDays)
		}
		removed := bl.Prune(*pruneDays, now)
		if removed == 0 {
			ui.PrintInfo(fmt.Sprintf("no entries older than %d day(s), nothing to prune", *pruneDays))
			return
		}
		if err := bl.Save(path); err != nil {
			exitWithError("%v", err)
		}
		ui.PrintSuccess(fmt.Sprintf("pruned %d stale entries, %d remain", removed, bl.Len()))
	}
}

// confirmMutation decides whether a store mutation proceeds. The
// prompt is skipped with -yes, on CI, or when stdin is not a terminal,
// so pipelines never hang waiting for input.
func confirmMutation(yes bool, question string) bool {
	if bypassPrompt(yes, cicd.IsCI(), ui.Interactive()) {
		return true
	}
	return ui.Confirm(question)
}

// bypassPrompt is confirmMutation's decision with injectable CI and
// terminal state. Prompting only happens when none of the bypass
// signals is present and an operator is actually attached.
func bypassPrompt(yes, ci, interactive bool) bool {
	return yes || ci || !interactive
}

// printBaseline lists the store's entries sorted by finding id.
func printBaseline(bl *baseline.File) {
	ui.PrintSection(fmt.Sprintf("Baseline (%d entries)", bl.Len()))

	ids := make([]string, 0, len(bl.Entries))
	for id := range bl.Entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		e := bl.Entries[id]
		loc := e.File
		if e.Symbol != "" {
			loc += ":" + e.Symbol
		}
		fmt.Fprintf(os.Stderr, "  %s %s %s\n",
			id, ui.MutedStyle.Render(loc),
			ui.MutedStyle.Render("last seen "+e.LastSeenAt.Format("2006-01-02")))
		if e.Notes != "" {
			fmt.Fprintf(os.Stderr, "      %s\n", ui.MutedStyle.Render(e.Notes))
		}
	}
	if bl.Len() == 0 {
		ui.PrintInfo("baseline is empty")
	}
}
