package video

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"bilistage/internal/media/ffprobe"
)

// Media describes a probed source. Values are recomputed by every stage that
// needs them; nothing caches probe results.
type Media struct {
	Path            string
	Width           int
	Height          int
	SizeBytes       int64
	DurationSeconds float64
	Codec           string
}

// Probe inspects path with ffprobe.
func (t Tools) Probe(ctx context.Context, path string) (Media, error) {
	t = t.withDefaults()
	info, err := statSource(path)
	if err != nil {
		return Media{}, err
	}

	result, err := ffprobe.Inspect(ctx, t.Runner, t.FFprobe, path)
	if err != nil {
		return Media{}, fmt.Errorf("%w: %s: %w", ErrDurationProbe, path, err)
	}
	stream, ok := result.VideoStream()
	if !ok {
		return Media{}, fmt.Errorf("%w: %s has no video stream", ErrDurationProbe, path)
	}
	duration := result.LongestDuration()
	if duration <= 0 || math.IsNaN(duration) {
		return Media{}, fmt.Errorf("%w: %s reported no duration", ErrDurationProbe, path)
	}

	return Media{
		Path:            path,
		Width:           stream.Width,
		Height:          stream.Height,
		SizeBytes:       info.Size(),
		DurationSeconds: duration,
		Codec:           strings.ToLower(strings.TrimSpace(stream.CodecName)),
	}, nil
}

// ProbeDuration probes path and returns its duration only. Audio-only
// sources are accepted.
func (t Tools) ProbeDuration(ctx context.Context, path string) (float64, error) {
	t = t.withDefaults()
	if _, err := statSource(path); err != nil {
		return 0, err
	}
	result, err := ffprobe.Inspect(ctx, t.Runner, t.FFprobe, path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrDurationProbe, path, err)
	}
	duration := result.LongestDuration()
	if duration <= 0 {
		return 0, fmt.Errorf("%w: %s reported no duration", ErrDurationProbe, path)
	}
	return duration, nil
}

func statSource(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, &SourceNotFoundError{Path: path}
	}
	return info, nil
}
