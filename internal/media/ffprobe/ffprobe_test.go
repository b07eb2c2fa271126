package ffprobe

import (
	"context"
	"errors"
	"slices"
	"testing"

	"bilistage/internal/toolchain"
)

func TestLongestDuration(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   float64
	}{
		{
			name:   "container only",
			result: Result{Format: Format{Duration: "123.45"}},
			want:   123.45,
		},
		{
			name: "stream longer than container",
			result: Result{
				Format:  Format{Duration: "10"},
				Streams: []Stream{{CodecType: "audio", Duration: "1000.5"}, {CodecType: "video", Duration: "999"}},
			},
			want: 1000.5,
		},
		{
			name:   "transport stream without container duration",
			result: Result{Format: Format{Duration: "N/A"}, Streams: []Stream{{CodecType: "video", Duration: "42"}}},
			want:   42,
		},
		{
			name:   "nothing usable",
			result: Result{Format: Format{Duration: "bad"}, Streams: []Stream{{Duration: "-3"}}},
			want:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.LongestDuration(); got != tt.want {
				t.Fatalf("LongestDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStreamHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{Index: 0, CodecType: "audio", CodecName: "aac"},
			{Index: 1, CodecType: "video", CodecName: "hevc", Width: 3840, Height: 2160},
			{Index: 2, CodecType: "video", CodecName: "mjpeg"},
		},
		Format: Format{Size: "2048"},
	}
	stream, ok := result.VideoStream()
	if !ok || stream.Index != 1 || stream.CodecName != "hevc" {
		t.Fatalf("VideoStream() = %+v, %v", stream, ok)
	}
	if result.SizeBytes() != 2048 {
		t.Fatalf("SizeBytes() = %d", result.SizeBytes())
	}

	empty := Result{Format: Format{Size: "huge"}}
	if _, ok := empty.VideoStream(); ok {
		t.Fatal("expected no video stream")
	}
	if empty.SizeBytes() != 0 {
		t.Fatal("expected empty result helpers to report nothing")
	}
}

func TestInspectUsesRunner(t *testing.T) {
	payload := []string{
		`{"streams":[{"index":0,"codec_name":"h264","codec_type":"video","width":1280,"height":720}],`,
		`"format":{"filename":"in.mp4","format_name":"mov,mp4","duration":"42.0","size":"1024"}}`,
	}
	var gotName string
	var gotArgs []string
	runner := toolchain.RunnerFunc(func(_ context.Context, name string, args ...string) ([]string, error) {
		gotName, gotArgs = name, args
		return payload, nil
	})

	result, err := Inspect(context.Background(), runner, "", "in.mp4")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if gotName != "ffprobe" {
		t.Fatalf("binary = %q, want ffprobe", gotName)
	}
	if !slices.Equal(gotArgs, Args("in.mp4")) {
		t.Fatalf("args = %v", gotArgs)
	}
	if result.LongestDuration() != 42 || result.Format.FormatName != "mov,mp4" {
		t.Fatalf("unexpected result %+v", result)
	}
	if stream, _ := result.VideoStream(); stream.Width != 1280 {
		t.Fatalf("unexpected stream %+v", stream)
	}
}

func TestInspectErrors(t *testing.T) {
	failing := toolchain.RunnerFunc(func(context.Context, string, ...string) ([]string, error) {
		return nil, errors.New("boom")
	})
	if _, err := Inspect(context.Background(), failing, "ffprobe", "in.mp4"); err == nil {
		t.Fatal("expected runner error")
	}

	garbage := toolchain.RunnerFunc(func(context.Context, string, ...string) ([]string, error) {
		return []string{"not json"}, nil
	})
	if _, err := Inspect(context.Background(), garbage, "ffprobe", "in.mp4"); err == nil {
		t.Fatal("expected decode error")
	}

	if _, err := Inspect(context.Background(), garbage, "ffprobe", "  "); err == nil {
		t.Fatal("expected empty path error")
	}
}
