package toolchain_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bilistage/internal/services"
	"bilistage/internal/toolchain"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestExecRunnerReturnsStdoutLines(t *testing.T) {
	script := writeScript(t, `echo first; echo "$1"`)

	lines, err := toolchain.ExecRunner{}.Run(context.Background(), script, "second")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "first" || lines[1] != "second" {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestExecRunnerWrapsNonZeroExit(t *testing.T) {
	script := writeScript(t, `echo "Invalid data found" >&2; exit 3`)

	_, err := toolchain.ExecRunner{}.Run(context.Background(), script, "-i", "in.mp4")
	if err == nil {
		t.Fatal("expected error")
	}
	var execErr *toolchain.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected *ExecError, got %T", err)
	}
	if execErr.ExitStatus != 3 {
		t.Fatalf("exit status = %d, want 3", execErr.ExitStatus)
	}
	if execErr.Output != "Invalid data found" {
		t.Fatalf("output = %q", execErr.Output)
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatal("expected ErrExternalTool marker")
	}
	if !strings.HasSuffix(execErr.CommandLine(), "-i in.mp4") {
		t.Fatalf("command line = %q", execErr.CommandLine())
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := toolchain.ExecRunner{}.Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	var execErr *toolchain.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected *ExecError, got %v", err)
	}
	if execErr.ExitStatus != -1 {
		t.Fatalf("exit status = %d, want -1", execErr.ExitStatus)
	}
}

func TestExecRunnerHonoursDir(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, `pwd`)
	lines, err := toolchain.ExecRunner{Dir: dir}.Run(context.Background(), script)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	resolved, _ := filepath.EvalSymlinks(dir)
	if len(lines) != 1 || (lines[0] != dir && lines[0] != resolved) {
		t.Fatalf("pwd = %q, want %q", lines, dir)
	}
}

func TestRunnerFunc(t *testing.T) {
	var got []string
	runner := toolchain.RunnerFunc(func(_ context.Context, name string, args ...string) ([]string, error) {
		got = append([]string{name}, args...)
		return []string{"ok"}, nil
	})
	lines, err := runner.Run(context.Background(), "ffmpeg", "-version")
	if err != nil || len(lines) != 1 {
		t.Fatalf("unexpected result %q %v", lines, err)
	}
	if strings.Join(got, " ") != "ffmpeg -version" {
		t.Fatalf("recorded %q", got)
	}
}
