// Package runner executes external commands while streaming their
// combined output to the console line by line.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/tacogips/kickstart-salt/internal/debug"
)

// ErrEmptyCommand is returned for an argument vector with no program.
var ErrEmptyCommand = errors.New("command must contain at least the program to run")

// Runner spawns processes. The zero value writes to os.Stdout.
type Runner struct {
	// Out receives the merged stdout/stderr of the child.
	Out io.Writer
	// Wrapper is prepended to every command, for example the platform
	// command interpreter. Empty means the program is executed directly.
	Wrapper []string
}

// New creates a Runner writing to out.
func New(out io.Writer) *Runner {
	return &Runner{Out: out}
}

// Run executes command and returns its exit status verbatim. Output is
// forwarded as each line arrives. The error is non-nil only when the
// process could not be started or waited for; a non-zero exit status is
// not an error. There is no timeout: Run blocks until the child exits.
// Cancelling ctx terminates the child together with everything it spawned.
func (r *Runner) Run(ctx context.Context, command []string) (int, error) {
	if len(command) == 0 || command[0] == "" {
		return -1, ErrEmptyCommand
	}

	argv := append(append([]string{}, r.Wrapper...), command...)
	debug.Debug("[runner] Executing: %s", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	setProcessGroup(cmd)

	// One pipe for both streams keeps their relative order.
	pr, pw, err := os.Pipe()
	if err != nil {
		return -1, fmt.Errorf("failed to create output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return -1, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	// The child holds its own copy of the write end.
	pw.Close()

	copyErr := r.stream(pr)
	pr.Close()

	waitErr := cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case errors.As(waitErr, &exitErr):
	case ctx.Err() != nil:
		debug.Debug("[runner] %s stopped: %v", argv[0], ctx.Err())
	default:
		return -1, fmt.Errorf("failed waiting for %s: %w", argv[0], waitErr)
	}
	if copyErr != nil {
		debug.Debug("[runner] Output stream error: %v", copyErr)
	}

	code := cmd.ProcessState.ExitCode()
	debug.Debug("[runner] %s exited with %d", argv[0], code)
	return code, nil
}

// stream forwards src to the output one line at a time until EOF. A final
// line without a newline is flushed as is.
func (r *Runner) stream(src io.Reader) error {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	br := bufio.NewReader(src)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if _, werr := io.WriteString(out, line); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
