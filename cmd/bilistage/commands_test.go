package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bilistage/internal/services"
	"bilistage/internal/testsupport"
)

const showSettings = `
name = "show"
title = "Show"

[[spliters]]
count = 2
suffix_parts = ["longmen"]

[[spliters]]
season = 1
episode = 2
count = 3
exclude_segments = [[0, 10]]

[[episodes]]
season = 1
episode = 2
title = "Storm"

[[uploaders]]
tag = "show,drama"
tid = 17
`

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.library)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, _, err := runCLI(t, env, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateReportsBadConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[logging]\nlevel = \"loud\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := runCLI(t, env, "config", "validate")
	if err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected logging.level error, got %v", err)
	}
}

func TestSettingsListAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeSettings(t, "show", showSettings)

	out, _, err := runCLI(t, env, "settings", "list")
	if err != nil {
		t.Fatalf("settings list: %v", err)
	}
	requireContains(t, out, "show")
	requireContains(t, out, "Show")

	out, _, err = runCLI(t, env, "settings", "show", "show", "-s", "1", "-e", "2")
	if err != nil {
		t.Fatalf("settings show: %v", err)
	}
	requireContains(t, out, "ShowS01E02")
	requireContains(t, out, "0,10")
	requireContains(t, out, "Storm")
	requireContains(t, out, "show,drama")

	// No file is named "SHOW", so the argument is matched against titles.
	out, _, err = runCLI(t, env, "settings", "show", "SHOW", "-e", "1")
	if err != nil {
		t.Fatalf("settings show by title: %v", err)
	}
	requireContains(t, out, "ShowS01E01")
}

func TestSettingsShowUnknownTitle(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "settings", "show", "Nothing", "-e", "1")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPlanPrintsKeepRanges(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.home, "in.mp4")
	if err := os.WriteFile(source, []byte("media"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	out, _, err := runCLI(t, env, "plan", source, "10,20")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "00:00:10")
	requireContains(t, out, "00:01:40")
	requireContains(t, out, "Keeping 00:01:30 of 00:01:40")

	out, _, err = runCLI(t, env, "plan", source, "10,20", "--json")
	if err != nil {
		t.Fatalf("plan --json: %v", err)
	}
	var plan struct {
		Keep []struct{ Start, End uint64 }
	}
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if len(plan.Keep) != 2 || plan.Keep[0].End != 10 || plan.Keep[1].Start != 20 || plan.Keep[1].End != 100 {
		t.Fatalf("unexpected keep ranges: %+v", plan.Keep)
	}
}

func TestRemoveRejectsMalformedPairs(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "remove", "in.mp4", "10-20")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(env.calls) != 0 {
		t.Fatalf("expected no tool calls, got %v", env.calls)
	}
}

func TestQuickFlagDescribesKeyframeCuts(t *testing.T) {
	env := setupCLITestEnv(t)
	for _, name := range []string{"remove", "split"} {
		out, _, err := runCLI(t, env, name, "--help")
		if err != nil {
			t.Fatalf("%s --help: %v", name, err)
		}
		requireContains(t, out, "stream-copy from the nearest keyframe")
		if strings.Contains(out, "Seek before the input") {
			t.Fatalf("%s help describes precise seeking for --quick:\n%s", name, out)
		}
	}
}

func TestRemoveWritesDefaultDestination(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.home, "in.mp4")
	if err := os.WriteFile(source, []byte("media"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	out, _, err := runCLI(t, env, "remove", source, "10,20")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := filepath.Join(env.home, "in-remove.mp4")
	requireContains(t, out, want)
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected output at %s: %v", want, err)
	}
}

func TestTransRejectsUnknownAction(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "trans", "in.mkv", "--action", "gif")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCacheListAndClean(t *testing.T) {
	env := setupCLITestEnv(t)
	run := filepath.Join(env.home, "cache", "ShowS01E01-1700000000")
	if err := os.MkdirAll(run, 0o755); err != nil {
		t.Fatalf("mkdir run: %v", err)
	}
	if err := os.WriteFile(filepath.Join(run, "a.mp4"), make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("write part: %v", err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(run, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	out, _, err := runCLI(t, env, "cache", "list")
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	requireContains(t, out, "ShowS01E01-1700000000")
	requireContains(t, out, "2.0 KiB")

	out, _, err = runCLI(t, env, "cache", "clean", "--max-age", "1h")
	if err != nil {
		t.Fatalf("cache clean: %v", err)
	}
	requireContains(t, out, "Removed 1 run directory")
	if _, err := os.Stat(run); !os.IsNotExist(err) {
		t.Fatalf("expected run dir removed, stat err=%v", err)
	}
}

func TestStatusJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.StubBinaries(t, "ffmpeg", "ffprobe")

	out, _, err := runCLI(t, env, "status", "--json")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var report statusReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if report.Config != env.home {
		t.Fatalf("config home = %q, want %q", report.Config, env.home)
	}
	available := map[string]bool{}
	for _, tool := range report.Tools {
		available[tool.Name] = tool.Available
	}
	if !available["FFmpeg"] || !available["FFprobe"] || available["Uploader"] {
		t.Fatalf("unexpected tool availability: %+v", report.Tools)
	}
	if len(report.Uploads) != 0 {
		t.Fatalf("expected empty upload history, got %+v", report.Uploads)
	}
}

func TestStatusFailsWithoutFFmpeg(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.StubBinaries(t, "ffprobe")

	out, _, err := runCLI(t, env, "status")
	if err == nil || !strings.Contains(err.Error(), "required tool") {
		t.Fatalf("expected missing tool error, got %v", err)
	}
	requireContains(t, out, "[FAIL]")
}

func TestFormatError(t *testing.T) {
	err := services.Wrap(services.ErrNotFound, "catalog", "load", "no settings", nil)
	if got := formatError(err); !strings.HasPrefix(got, "Error (not_found): ") {
		t.Fatalf("formatError = %q", got)
	}
	if got := formatError(errors.New("plain")); got != "Error: plain" {
		t.Fatalf("formatError = %q", got)
	}
}
