//go:build !unix

package runner

import "os/exec"

// setProcessGroup keeps the default cancellation, which kills the child.
func setProcessGroup(cmd *exec.Cmd) {}
