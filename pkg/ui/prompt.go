package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Interactive reports whether stdin is attached to a terminal, i.e.
// whether a confirmation prompt can actually be answered. Piped or
// redirected input is non-interactive.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm prompts the operator on stderr with a y/N question and reads
// the answer from stdin. Only "y" and "yes" (case-insensitive) accept.
// Callers must gate on Interactive() and their own bypass flags first;
// Confirm itself always blocks for input.
func Confirm(question string) bool {
	return confirm(question, os.Stdin)
}

func confirm(question string, in io.Reader) bool {
	fmt.Fprintf(os.Stderr, "  %s [y/N]: ", question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
