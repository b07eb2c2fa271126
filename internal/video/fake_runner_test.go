package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bilistage/internal/toolchain"
)

type call struct {
	name string
	args []string
}

// fakeRunner answers ffprobe with canned metadata and makes ffmpeg create its
// output file, so pipeline code can run against real temp files.
type fakeRunner struct {
	t         *testing.T
	calls     []call
	durations map[string]float64
	codec     string
	manifests []string
	failOn    string
}

func newFakeRunner(t *testing.T) *fakeRunner {
	return &fakeRunner{t: t, durations: map[string]float64{}, codec: "h264"}
}

func (f *fakeRunner) tools() Tools {
	return Tools{Runner: f, FFmpeg: "ffmpeg", FFprobe: "ffprobe"}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]string, error) {
	f.calls = append(f.calls, call{name: name, args: append([]string(nil), args...)})
	if f.failOn != "" && strings.Contains(strings.Join(args, " "), f.failOn) {
		return nil, &toolchain.ExecError{Command: name, Args: args, ExitStatus: 1, Output: "boom"}
	}
	switch name {
	case "ffprobe":
		path := args[len(args)-1]
		duration, ok := f.durations[path]
		if !ok {
			duration = 10
		}
		return []string{fmt.Sprintf(`{"streams":[{"codec_type":"video","codec_name":%q,"width":1920,"height":1080}],"format":{"duration":"%f"}}`, f.codec, duration)}, nil
	case "ffmpeg":
		for i, arg := range args {
			if arg == "concat" && i+4 < len(args) {
				data, err := os.ReadFile(args[i+4])
				if err != nil {
					f.t.Fatalf("read manifest: %v", err)
				}
				f.manifests = append(f.manifests, string(data))
			}
		}
		out := args[len(args)-1]
		if err := os.WriteFile(out, []byte("media"), 0o644); err != nil {
			f.t.Fatalf("write output %s: %v", out, err)
		}
		return nil, nil
	}
	return nil, nil
}

func (f *fakeRunner) ffmpegCalls() []call {
	var out []call
	for _, c := range f.calls {
		if c.name == "ffmpeg" {
			out = append(out, c)
		}
	}
	return out
}

func touch(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("source"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
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
	return names
}
