// Package ui renders scheck's CLI output: the banner, section
// headers, status lines, and the confirmation prompt. All decorated
// output goes to stderr so stdout stays clean for machine-readable
// results.
package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/scheck/scheck/pkg/version"
)

var (
	silentMode  bool
	noColorMode bool
	uiMu        sync.RWMutex
)

// SetSilent suppresses all decorated output.
func SetSilent(silent bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	silentMode = silent
}

// IsSilent reports whether silent mode is enabled.
func IsSilent() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return silentMode
}

// SetNoColor disables colored output.
func SetNoColor(noColor bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	noColorMode = noColor
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Minimalist banner
const miniBanner = `
________________________________________________

 scheck v%s
________________________________________________`

// PrintBanner prints the compact application banner to stderr.
func PrintBanner() {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, BannerStyle.Render(fmt.Sprintf(miniBanner, version.Version)))
	fmt.Fprintln(os.Stderr)
}

// PrintSection prints a section header.
func PrintSection(title string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, SectionStyle.Render(title))
}

// PrintSuccess prints a success message.
func PrintSuccess(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, PassStyle.Render("  [+] "+message))
}

// PrintError prints an error message. Errors print even in silent mode.
func PrintError(message string) {
	fmt.Fprintln(os.Stderr, FailStyle.Render("  [X] "+message))
}

// PrintWarning prints a warning message.
func PrintWarning(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, WarnStyle.Render("  [!] "+message))
}

// PrintInfo prints an informational message.
func PrintInfo(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, "  [i] "+message)
}

// PrintKeyValue prints an aligned label/value line.
func PrintKeyValue(key, value string) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "  %s %s\n", LabelStyle.Render(key), ValueStyle.Render(value))
}
