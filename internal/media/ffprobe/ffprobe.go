package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bilistage/internal/toolchain"
)

// showEntries limits ffprobe output to the fields Result decodes.
const showEntries = "stream=index,codec_name,codec_type,width,height,duration:format=filename,format_name,duration,size"

// Result is the decoded ffprobe report for one file.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream is one elementary stream. Duration is kept as ffprobe prints it;
// MPEG-TS muxers often report it only here.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
}

// Format is the container section.
type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

// Args returns the ffprobe arguments used to inspect path.
func Args(path string) []string {
	return []string{"-v", "error", "-hide_banner", "-show_entries", showEntries, "-of", "json", "--", path}
}

// Inspect runs binary (default "ffprobe") on path and decodes its report.
func Inspect(ctx context.Context, runner toolchain.Runner, binary, path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe: empty path")
	}
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = "ffprobe"
	}
	if runner == nil {
		runner = toolchain.ExecRunner{}
	}

	lines, err := runner.Run(ctx, binary, Args(path)...)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	var result Result
	if err := json.Unmarshal([]byte(strings.Join(lines, "\n")), &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe %s: decode report: %w", path, err)
	}
	return result, nil
}

// VideoStream returns the first video stream.
func (r Result) VideoStream() (Stream, bool) {
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, "video") {
			return s, true
		}
	}
	return Stream{}, false
}

// LongestDuration returns the largest duration reported by the container or
// any stream, in seconds. Missing and unparsable values are skipped; the
// result is 0 when none is usable.
func (r Result) LongestDuration() float64 {
	longest, _ := seconds(r.Format.Duration)
	for _, s := range r.Streams {
		if d, ok := seconds(s.Duration); ok && d > longest {
			longest = d
		}
	}
	return longest
}

// SizeBytes returns the container size, or 0 when not reported.
func (r Result) SizeBytes() int64 {
	size, err := strconv.ParseInt(strings.TrimSpace(r.Format.Size), 10, 64)
	if err != nil || size < 0 {
		return 0
	}
	return size
}

func seconds(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "N/A" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
