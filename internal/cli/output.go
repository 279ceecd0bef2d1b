package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/tacogips/kickstart-salt/internal/jsondoc"
)

// ANSI color codes
const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
)

// console writes operator-facing messages. It implements
// bootstrap.Reporter.
type console struct {
	out   io.Writer
	err   io.Writer
	color bool
	quiet bool
}

func newConsole(out, errOut io.Writer, noColor, quiet bool) *console {
	return &console{
		out:   out,
		err:   errOut,
		color: !noColor && isTerminal(out),
		quiet: quiet,
	}
}

// isTerminal reports whether w is a terminal that understands color.
func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// symbol renders a status symbol, colored when enabled.
func (c *console) symbol(sym, color string) string {
	if !c.color {
		return sym
	}
	return color + sym + colorReset
}

// printInfo prints an informational message
func (c *console) printInfo(msg string) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out, msg)
}

// printSuccess prints a success message
func (c *console) printSuccess(msg string) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.symbol("✓", colorGreen), msg)
}

// printWarning prints a warning message
func (c *console) printWarning(msg string) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.symbol("⚠", colorYellow), msg)
}

// printErrorMsg prints an error message. Errors are printed even in
// quiet mode.
func (c *console) printErrorMsg(msg string) {
	fmt.Fprintf(c.err, "%s %s\n", c.symbol("✗", colorRed), msg)
}

// printProgress prints a progress indicator
func (c *console) printProgress(msg string) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.symbol("→", colorBlue), msg)
}

// printHeader prints a section header
func (c *console) printHeader(title string) {
	if c.quiet {
		return
	}
	if c.color {
		fmt.Fprintf(c.out, "\n%s=== %s ===%s\n", colorMagenta, title, colorReset)
	} else {
		fmt.Fprintf(c.out, "\n=== %s ===\n", title)
	}
}

// printError prints err to the error stream. A JSON syntax error is
// shown with the offending document.
func (c *console) printError(err error) {
	var parseErr *jsondoc.ParseError
	if errors.As(err, &parseErr) {
		parseErr.Render(c.err, c.color)
	}
	c.printErrorMsg(err.Error())
}

// Progress implements bootstrap.Reporter.
func (c *console) Progress(msg string) { c.printProgress(msg) }

// Success implements bootstrap.Reporter.
func (c *console) Success(msg string) { c.printSuccess(msg) }

// Warning implements bootstrap.Reporter.
func (c *console) Warning(msg string) { c.printWarning(msg) }

// Info implements bootstrap.Reporter.
func (c *console) Info(msg string) { c.printInfo(msg) }
