package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"bilistage/internal/services"
)

func TestTranscode1080Args(t *testing.T) {
	args := strings.Join(Transcode1080Args("in.mp4", "out.mp4"), " ")
	want := "-i in.mp4 -c:v libx264 -preset veryfast -maxrate 17185k -bufsize 34370k -crf 23 -r 25 -s 1920x1080 -c:a aac -b:a 319k -ar 48000 -ac 2 out.mp4"
	if args != want {
		t.Fatalf("args = %s", args)
	}
}

func TestMP3Args(t *testing.T) {
	video, err := MP3Args("in.mkv", "out.mp3")
	if err != nil || !reflect.DeepEqual(video[2:4], []string{"-map", "a"}) {
		t.Fatalf("video args = %v, %v", video, err)
	}
	audio, err := MP3Args("in.flac", "out.mp3")
	if err != nil || strings.Contains(strings.Join(audio, " "), "-map") {
		t.Fatalf("audio args = %v, %v", audio, err)
	}
	if _, err := MP3Args("in.txt", "out.mp3"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestToMP3PassesThroughMP3(t *testing.T) {
	src := touch(t, filepath.Join(t.TempDir(), "song.mp3"))
	runner := newFakeRunner(t)
	out, err := runner.tools().ToMP3(context.Background(), src, "ignored.mp3")
	if err != nil || out != src {
		t.Fatalf("ToMP3 = %s, %v", out, err)
	}
	if len(runner.calls) != 0 {
		t.Fatal("expected no process")
	}
}

func TestRemuxArgs(t *testing.T) {
	if got := RemuxArgs("index.m3u8", "out.mp4"); got[0] != "-allowed_extensions" || got[1] != "ALL" {
		t.Fatalf("m3u8 args = %v", got)
	}
	if got := RemuxArgs("in.flv", "out.mp4"); got[0] != "-i" {
		t.Fatalf("flv args = %v", got)
	}
}

const mediaPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:10.0,
seg0.ts
#EXTINF:10.0,
seg1.ts
#EXTINF:4.5,
seg2.ts
#EXT-X-ENDLIST
`

const masterPlaylist = `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=1280000,RESOLUTION=1280x720
720p.m3u8
`

func TestInspectPlaylist(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "index.m3u8")
	if err := os.WriteFile(media, []byte(mediaPlaylist), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := InspectPlaylist(media)
	if err != nil {
		t.Fatalf("InspectPlaylist returned error: %v", err)
	}
	if info.Segments != 3 || info.DurationSeconds != 24.5 {
		t.Fatalf("unexpected info %#v", info)
	}

	master := filepath.Join(dir, "master.m3u8")
	if err := os.WriteFile(master, []byte(masterPlaylist), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := InspectPlaylist(master); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for master playlist, got %v", err)
	}
}

func TestToMP4FromPlaylist(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "index.m3u8")
	if err := os.WriteFile(src, []byte(mediaPlaylist), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := newFakeRunner(t)
	dst := filepath.Join(dir, "index.mp4")
	if _, err := runner.tools().ToMP4(context.Background(), src, dst); err != nil {
		t.Fatalf("ToMP4 returned error: %v", err)
	}
	calls := runner.ffmpegCalls()
	if len(calls) != 1 || !strings.Contains(strings.Join(calls[0].args, " "), "-allowed_extensions ALL -i "+src) {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestScreenshotArgs(t *testing.T) {
	got := strings.Join(ScreenshotArgs("in.mp4", "out.png", 61.9), " ")
	if got != "-ss 00:01:01 -i in.mp4 -vframes 1 -q:v 1 out.png" {
		t.Fatalf("args = %s", got)
	}
}
