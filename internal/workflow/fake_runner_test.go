package workflow_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"bilistage/internal/config"
	"bilistage/internal/logging"
	"bilistage/internal/testsupport"
	"bilistage/internal/toolchain"
	"bilistage/internal/workflow"
)

// fakeRunner stands in for ffmpeg, ffprobe and the uploader. ffmpeg creates
// its output file and records concat manifests; the uploader answers uploads
// with a fixed video id.
type fakeRunner struct {
	t         *testing.T
	calls     []string
	durations map[string]float64
	manifests [][]string
	failOn    string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]string, error) {
	line := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, line)
	if f.failOn != "" && strings.Contains(line, f.failOn) {
		return nil, &toolchain.ExecError{Command: name, Args: args, ExitStatus: 1, Output: "boom"}
	}
	switch name {
	case "ffprobe":
		path := args[len(args)-1]
		duration, ok := f.durations[filepath.Base(path)]
		if !ok {
			duration = 100
		}
		return []string{fmt.Sprintf(`{"streams":[{"codec_type":"video","codec_name":"h264","width":1920,"height":1080}],"format":{"duration":"%f"}}`, duration)}, nil
	case "ffmpeg":
		for i, arg := range args {
			if arg == "concat" && i+4 < len(args) {
				f.manifests = append(f.manifests, readManifest(f.t, args[i+4]))
			}
		}
		out := args[len(args)-1]
		if err := os.WriteFile(out, []byte("media"), 0o644); err != nil {
			f.t.Fatalf("write output %s: %v", out, err)
		}
	case "biliup":
		if len(args) > 2 && args[2] == "upload" {
			return []string{`upload done {"code":0,"data":{"aid":1,"bvid":"BV1xx"}}`}, nil
		}
	}
	return nil, nil
}

func (f *fakeRunner) count(fragment string) int {
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c, fragment) {
			n++
		}
	}
	return n
}

func readManifest(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var entries []string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		entries = append(entries, filepath.Base(strings.TrimSuffix(strings.TrimPrefix(line, "file '"), "'")))
	}
	return entries
}

func newService(t *testing.T, cfg *config.Config) (*workflow.Service, *fakeRunner) {
	t.Helper()
	runner := &fakeRunner{t: t, durations: map[string]float64{}}
	svc, err := workflow.New(cfg, runner, logging.NewNop())
	if err != nil {
		t.Fatalf("workflow.New returned error: %v", err)
	}
	return svc, runner
}

func newConfig(t *testing.T) *config.Config {
	return testsupport.NewConfig(t, testsupport.WithFillerNames("longmen"))
}

func touch(t *testing.T, path string) string {
	t.Helper()
	testsupport.WriteFile(t, path, 16)
	return path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// seedFiller creates one filler clip and builds the index.
func seedFiller(t *testing.T, cfg *config.Config, svc *workflow.Service) string {
	t.Helper()
	clip := touch(t, filepath.Join(cfg.Paths.FillerDir, "longmen", "a.ts"))
	if _, err := svc.InitFiller(context.Background()); err != nil {
		t.Fatalf("InitFiller returned error: %v", err)
	}
	return clip
}
