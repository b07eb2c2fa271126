package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bilistage/internal/config"
	"bilistage/internal/toolchain"
)

type cliTestEnv struct {
	home       string
	configPath string
	library    string
	calls      []string
}

// setupCLITestEnv points the configuration home at a temp directory and
// writes a config whose library lives there too.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.HomeEnv, home)
	library := filepath.Join(home, "library")
	if err := os.MkdirAll(library, 0o755); err != nil {
		t.Fatalf("mkdir library: %v", err)
	}
	configPath := filepath.Join(home, "config.toml")
	body := fmt.Sprintf("[paths]\nlibrary_dir = %q\n\n[filler]\nnames = [\"longmen\"]\n\n[logging]\nlevel = \"error\"\n", library)
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{home: home, configPath: configPath, library: library}
}

// runner answers ffprobe with a 100 second h264 stream and makes ffmpeg
// create its output file.
func (e *cliTestEnv) runner() toolchain.Runner {
	return toolchain.RunnerFunc(func(_ context.Context, name string, args ...string) ([]string, error) {
		e.calls = append(e.calls, name+" "+strings.Join(args, " "))
		switch name {
		case "ffprobe":
			return []string{`{"streams":[{"codec_type":"video","codec_name":"h264","width":1920,"height":1080}],"format":{"duration":"100.0"}}`}, nil
		case "ffmpeg":
			if err := os.WriteFile(args[len(args)-1], []byte("media"), 0o644); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
}

func (e *cliTestEnv) writeSettings(t *testing.T, name, body string) {
	t.Helper()
	dir := filepath.Join(e.home, "media")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir media: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := buildRootCommand(env.runner())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
