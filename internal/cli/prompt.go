package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/kballard/go-shellquote"
	"github.com/mattn/go-isatty"
)

// errNotInteractive is returned when --confirm is used without a terminal.
var errNotInteractive = errors.New("--confirm requires an interactive terminal on stdin")

// stdinIsTerminal reports whether confirmation prompts can be shown.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// confirmInstaller asks the operator whether command may run. The answer
// defaults to no.
func confirmInstaller(command []string) (bool, error) {
	if !stdinIsTerminal() {
		return false, errNotInteractive
	}

	proceed := false
	prompt := &survey.Confirm{
		Message: "Run " + shellquote.Join(command...) + "?",
		Default: false,
		Help:    "The script has been downloaded and its digest verified.",
	}
	if err := survey.AskOne(prompt, &proceed); err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return proceed, nil
}
