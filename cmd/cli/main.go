// Command scheck manages the identity and suppression lifecycle of
// findings produced by a security-invariant checker: stable finding
// fingerprints, a permanent baseline for incremental adoption,
// time-boxed justified waivers, and the CI gate that reconciles them.
package main

import (
	"fmt"
	"os"

	"github.com/scheck/scheck/pkg/ui"
	"github.com/scheck/scheck/pkg/version"
)

func printUsage() {
	ui.PrintBanner()

	fmt.Fprintln(os.Stderr, ui.SectionStyle.Render("USAGE"))
	fmt.Fprintln(os.Stderr, `
  scheck gate     -findings results.json [-project dir] [-fail-on P1]
                  Categorize fresh findings against the baseline and
                  waiver stores and exit 0/1 for CI gating.

  scheck baseline -show | -update -findings results.json | -prune
                  Inspect or mutate the permanent suppression list.

  scheck waiver   -list | -add -id <findingId> -reason .. -owner .. |
                  -prune | -expiring
                  Manage time-boxed, justified suppressions.

  scheck version  Print version information.

Run any subcommand with -h for its full flag reference.`)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "gate", "check", "categorize":
		runGate()
	case "baseline":
		runBaseline()
	case "waiver", "waivers":
		runWaiver()
	case "-h", "--help", "help":
		printUsage()
		os.Exit(0)
	case "-v", "--version", "version":
		fmt.Printf("scheck %s (built %s, commit %s)\n", version.Version, version.BuildDate, version.Commit)
		os.Exit(0)
	default:
		ui.PrintError(fmt.Sprintf("Unknown command %q", os.Args[1]))
		printUsage()
		os.Exit(1)
	}
}
