package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
)

// isNotTerminal defines if the output is going into terminal or not.
// It's dynamically set to false or true based on the stdout's file
// descriptor referring to a terminal or not. Non-terminal output forces
// non-interactive mode instead of failing, so the tool stays usable in
// scripts and pipes.
var isNotTerminal = os.Getenv("TERM") == "dumb" ||
	(!isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()))
