package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/scheck/scheck/pkg/ui"
	"github.com/scheck/scheck/pkg/waiver"
)

// runWaiver executes the waiver command. Exactly one mode is required:
// -list, -add, -prune or -expiring. Waivers are time-boxed and expire
// on their own; -prune only tidies the file, it never changes gate
// behavior.
func runWaiver() {
	fs := flag.NewFlagSet("waiver", flag.ExitOnError)
	list := fs.Bool("list", false, "List all waivers, including expired ones")
	add := fs.Bool("add", false, "Add or replace a waiver for -id")
	prune := fs.Bool("prune", false, "Remove expired waivers from the store")
	expiring := fs.Bool("expiring", false, "List active waivers expiring within -within days")
	id := fs.String("id", "", "Finding id to waive, e.g. WEBHOOK.IDEMPOTENT:a1b2c3d4e5f6")
	reason := fs.String("reason", "", "Human-readable justification (required with -add)")
	owner := fs.String("owner", "", "Person or team accountable for the waiver (required with -add)")
	reasonKey := fs.String("reason-key", "", "Structured reason: false_positive, acceptable_risk, will_fix_later, not_applicable, other")
	expiresIn := fs.Int("expires-in", 30, "Waiver lifetime in days from now")
	file := fs.String("file", "", "Evidence file recorded on the waiver")
	symbol := fs.String("symbol", "", "Evidence symbol recorded on the waiver")
	within := fs.Int("within", 7, "Lookahead window in days for -expiring")
	project := fs.String("project", ".", "Project directory containing .scheck/")
	silent := fs.Bool("silent", false, "Suppress decorated output")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	verbose := fs.Bool("verbose", false, "Verbose logging")

	fs.Parse(os.Args[2:])

	ui.SetSilent(*silent)
	ui.SetNoColor(*noColor)
	logger := newLogger(*verbose)

	modes := 0
	for _, m := range []bool{*list, *add, *prune, *expiring} {
		if m {
			modes++
		}
	}
	if modes != 1 {
		exitWithUsage("Exactly one of -list, -add, -prune or -expiring is required.",
			"scheck waiver -add -id <findingId> -reason .. -owner .. [-expires-in 30]")
	}

	path := waiver.PathFor(*project)
	now := time.Now().UTC()

	switch {
	case *list:
		wv := waiver.LoadOrEmpty(path, logger)
		printWaivers(wv, now)

	case *expiring:
		if *within < 0 {
			exitWithError("-within must be >= 0, got %d", *within)
		}
		wv := waiver.LoadOrEmpty(path, logger)
		soon := wv.Expiring(now, *within)
		ui.PrintSection(fmt.Sprintf("Waivers expiring within %d day(s)", *within))
		for _, e := range soon {
			fmt.Fprintf(os.Stderr, "  %s %s %s\n",
				e.FindingID, e.Owner,
				ui.WarnStyle.Render("expires "+e.ExpiresAt.Format("2006-01-02")))
		}
		if len(soon) == 0 {
			ui.PrintInfo("no waivers expiring in the window")
		}

	case *add:
		if *id == "" {
			exitWithUsage("The -id finding id is required with -add.",
				"scheck waiver -add -id <findingId> -reason .. -owner ..")
		}
		if *expiresIn <= 0 {
			exitWithError("-expires-in must be a positive number of days, got %d", *expiresIn)
		}
		// Mutations must not clobber a store they cannot parse.
		wv, err := waiver.Load(path)
		if err != nil {
			exitWithError("Loading waivers: %v\nFix or remove %s before updating it.", err, path)
		}

		entry := waiver.Entry{
			FindingID:   *id,
			InvariantID: invariantOf(*id),
			File:        *file,
			Symbol:      *symbol,
			ReasonKey:   waiver.ReasonKey(*reasonKey),
			Reason:      *reason,
			Owner:       *owner,
			ExpiresAt:   now.AddDate(0, 0, *expiresIn),
		}
		if err := wv.Add(entry, now); err != nil {
			exitWithError("%v", err)
		}
		if err := wv.Save(path); err != nil {
			exitWithError("%v", err)
		}
		ui.PrintSuccess(fmt.Sprintf("waiver recorded for %s, expires %s",
			*id, entry.ExpiresAt.Format("2006-01-02")))

	case *prune:
		wv, err := waiver.Load(path)
		if err != nil {
			exitWithError("Loading waivers: %v\nFix or remove %s before updating it.", err, path)
		}
		removed := wv.PruneExpired(now)
		if removed == 0 {
			ui.PrintInfo("no expired waivers, nothing to prune")
			return
		}
		if err := wv.Save(path); err != nil {
			exitWithError("%v", err)
		}
		ui.PrintSuccess(fmt.Sprintf("pruned %d expired waiver(s), %d remain", removed, wv.Len()))
	}
}

// invariantOf extracts the invariant identifier from a finding id of
// the form <invariantId>:<hash>. Ids without a separator are returned
// unchanged.
func invariantOf(findingID string) string {
	if i := strings.LastIndex(findingID, ":"); i > 0 {
		return findingID[:i]
	}
	return findingID
}

// printWaivers lists every waiver sorted by finding id, marking the
// expired ones. Expired waivers stay in the file until pruned so the
// justification trail survives the expiry.
func printWaivers(wv *waiver.File, now time.Time) {
	ui.PrintSection(fmt.Sprintf("Waivers (%d entries)", wv.Len()))

	ids := make([]string, 0, len(wv.Entries))
	for id := range wv.Entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		e := wv.Entries[id]
		status := ui.PassStyle.Render("active ")
		if e.Expired(now) {
			status = ui.FailStyle.Render("expired")
		}
		fmt.Fprintf(os.Stderr, "  %s %s %s %s\n",
			status, id, e.Owner,
			ui.MutedStyle.Render(fmt.Sprintf("until %s: %s",
				e.ExpiresAt.Format("2006-01-02"), e.Reason)))
	}
	if wv.Len() == 0 {
		ui.PrintInfo("no waivers recorded")
	}
}
