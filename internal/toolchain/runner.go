package toolchain

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Runner executes a command and returns its stdout split into lines.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]string, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, name string, args ...string) ([]string, error)

// Run calls f(ctx, name, args...).
func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) ([]string, error) {
	return f(ctx, name, args...)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Dir is the working directory for spawned commands; empty means the
	// current directory.
	Dir string
}

// Run executes name with args and blocks until it exits.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]string, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	lines := splitLines(stdout.Bytes())
	if err == nil {
		return lines, nil
	}

	execErr := &ExecError{
		Command:    name,
		Args:       append([]string(nil), args...),
		ExitStatus: -1,
		Output:     strings.TrimSpace(stderr.String()),
		Err:        err,
	}
	if execErr.Output == "" {
		execErr.Output = strings.TrimSpace(stdout.String())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		execErr.ExitStatus = exitErr.ExitCode()
	}
	return lines, execErr
}

func splitLines(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}
