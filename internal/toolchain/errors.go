package toolchain

import (
	"fmt"
	"strings"

	"bilistage/internal/services"
)

// ExecError reports a command that could not be started or exited non-zero.
// ExitStatus is -1 when the process never produced an exit code.
type ExecError struct {
	Command    string
	Args       []string
	ExitStatus int
	Output     string
	Err        error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.ExitStatus)
	if e.ExitStatus < 0 && e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	if out := lastLines(e.Output, 5); out != "" {
		msg += ": " + out
	}
	return msg
}

// Unwrap exposes both the external-tool marker and the underlying exec error.
func (e *ExecError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrExternalTool}
	}
	return []error{services.ErrExternalTool, e.Err}
}

// CommandLine renders the invocation for logs.
func (e *ExecError) CommandLine() string {
	return strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
}

func lastLines(output string, n int) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return ""
	}
	lines := strings.Split(output, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
