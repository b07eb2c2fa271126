package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bilistage/internal/toolchain"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := writeStub(t, binDir, "present")
	runner := toolchain.RunnerFunc(func(_ context.Context, name string, args ...string) ([]string, error) {
		if name != present || len(args) != 1 || args[0] != "-version" {
			t.Fatalf("unexpected call %s %v", name, args)
		}
		return []string{"", "present version 6.1", "built with gcc"}, nil
	})
	reqs := []Requirement{
		{Name: "Present", Command: present, VersionArgs: []string{"-version"}},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank"},
	}

	results := CheckBinaries(context.Background(), runner, reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Version != "present version 6.1" || results[0].Detail != "" {
		t.Fatalf("unexpected status for present binary: %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" || results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected status for missing binary: %#v", results[1])
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for blank command: %#v", results[2])
	}
	if missing := Missing(results); len(missing) != 2 {
		t.Fatalf("Missing = %#v", missing)
	}
}

func TestCheckBinariesVersionFailure(t *testing.T) {
	present := writeStub(t, t.TempDir(), "broken")
	runner := toolchain.RunnerFunc(func(context.Context, string, ...string) ([]string, error) {
		return nil, errors.New("exit status 1")
	})
	results := CheckBinaries(context.Background(), runner, []Requirement{
		{Name: "Broken", Command: present, VersionArgs: []string{"--version"}, Optional: true},
	})
	if results[0].Available || results[0].Detail == "" {
		t.Fatalf("expected failed version probe to mark unavailable: %#v", results[0])
	}
	if missing := Missing(results); len(missing) != 0 {
		t.Fatalf("optional dependency must not count as missing: %#v", missing)
	}
}
