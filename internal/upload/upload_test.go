package upload

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"bilistage/internal/services"
	"bilistage/internal/toolchain"
)

func TestFlagsArgs(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	args, err := Flags{Limit: 4, TID: 183, Cover: "c.png", Tag: "longmen", Desc: "desc", Dtime: "2024-05-01 20:00:00"}.Args(loc)
	if err != nil {
		t.Fatalf("Args returned error: %v", err)
	}
	want := []string{"--limit", "4", "--tid", "183", "--cover", "c.png", "--tag", "longmen", "--desc", "desc", "--dtime", "1714564800"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("Args = %v", args)
	}

	minimal, err := Flags{Limit: 1, TID: 2, Tag: "x"}.Args(loc)
	if err != nil || len(minimal) != 6 {
		t.Fatalf("minimal Args = %v, %v", minimal, err)
	}
	if _, err := (Flags{}).Args(loc); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for missing tag, got %v", err)
	}
	if _, err := (Flags{Tag: "x", Dtime: "tomorrow"}).Args(loc); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for bad dtime, got %v", err)
	}
}

func TestScrapeVideoID(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"bvid", []string{"INFO upload done", `result: {"code":0,"data":{"aid":170001,"bvid":"BV1xx411c7mD"}}`}, "BV1xx411c7mD"},
		{"aid only", []string{`{"aid": 42}`}, "42"},
		{"second object", []string{`progress {broken {"bvid":"BV2"}`}, "BV2"},
		{"none", []string{"no json here", `{"code":0}`}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ScrapeVideoID(tt.lines)
			if got != tt.want || ok != (tt.want != "") {
				t.Fatalf("ScrapeVideoID = %q, %v", got, ok)
			}
		})
	}
}

type recorder struct {
	calls []string
	out   map[string][]string
	fail  string
}

func (r *recorder) Run(_ context.Context, name string, args ...string) ([]string, error) {
	line := name + " " + strings.Join(args, " ")
	r.calls = append(r.calls, line)
	if r.fail != "" && strings.Contains(line, r.fail) {
		return nil, &toolchain.ExecError{Command: name, ExitStatus: 2}
	}
	for key, lines := range r.out {
		if strings.Contains(line, key) {
			return lines, nil
		}
	}
	return nil, nil
}

func TestBatchUploadsThenAppends(t *testing.T) {
	rec := &recorder{out: map[string][]string{" upload ": {`{"data":{"bvid":"BV9"}}`}}}
	client := &Client{Runner: rec, Binary: "biliup", Credential: "/cookie.json"}
	history, err := OpenHistory(filepath.Join(t.TempDir(), "uploads.db"))
	if err != nil {
		t.Fatalf("OpenHistory returned error: %v", err)
	}
	defer history.Close()

	items := []Item{
		{Path: "/c/a.P1.mp4", Flags: []string{"--tag", "x"}},
		{Path: "/c/a.P2.mp4", Flags: []string{"--tag", "x"}},
	}
	id, err := client.Batch(context.Background(), history, "run-1", items, 4)
	if err != nil || id != "BV9" {
		t.Fatalf("Batch = %q, %v", id, err)
	}
	want := []string{
		"biliup -u /cookie.json upload /c/a.P1.mp4 --tag x",
		"biliup -u /cookie.json append --vid BV9 /c/a.P2.mp4 --limit 4",
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("calls = %v", rec.calls)
	}

	entries, err := history.Batch(context.Background(), "run-1")
	if err != nil || len(entries) != 2 || entries[0].Kind != KindUpload || entries[1].Kind != KindAppend {
		t.Fatalf("history = %+v, %v", entries, err)
	}
	recent, err := history.Recent(context.Background(), 1)
	if err != nil || len(recent) != 1 || recent[0].Path != "/c/a.P2.mp4" {
		t.Fatalf("recent = %+v, %v", recent, err)
	}
}

func TestBatchResumesFromHistory(t *testing.T) {
	history, err := OpenHistory(filepath.Join(t.TempDir(), "uploads.db"))
	if err != nil {
		t.Fatalf("OpenHistory returned error: %v", err)
	}
	defer history.Close()
	ctx := context.Background()
	if err := history.Record(ctx, Entry{Batch: "run-1", Path: "/c/a.P1.mp4", VideoID: "BV7", Kind: KindUpload}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	rec := &recorder{}
	client := &Client{Runner: rec, Credential: "cookie.json"}
	items := []Item{{Path: "/c/a.P1.mp4"}, {Path: "/c/a.P2.mp4"}}
	id, err := client.Batch(ctx, history, "run-1", items, 2)
	if err != nil || id != "BV7" {
		t.Fatalf("Batch = %q, %v", id, err)
	}
	if len(rec.calls) != 1 || !strings.HasPrefix(rec.calls[0], "biliup -u cookie.json append --vid BV7 /c/a.P2.mp4") {
		t.Fatalf("calls = %v", rec.calls)
	}
}

func TestUploadWithoutVideoID(t *testing.T) {
	client := &Client{Runner: &recorder{}, Credential: "c"}
	if _, err := client.Upload(context.Background(), "a.mp4", nil); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestBatchStopsOnFailure(t *testing.T) {
	rec := &recorder{out: map[string][]string{" upload ": {`{"bvid":"BV1"}`}}, fail: "append"}
	client := &Client{Runner: rec, Credential: "c"}
	_, err := client.Batch(context.Background(), nil, "b", []Item{{Path: "1"}, {Path: "2"}, {Path: "3"}}, 1)
	var execErr *toolchain.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected exec error, got %v", err)
	}
	if len(rec.calls) != 2 {
		t.Fatalf("expected to stop after first failure, calls = %v", rec.calls)
	}
	if _, err := client.Batch(context.Background(), nil, "b", nil, 1); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
