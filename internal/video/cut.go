package video

import (
	"context"
	"fmt"
	"strings"

	"bilistage/internal/logging"
	"bilistage/internal/services"
	"bilistage/internal/timeline"
)

// CutMode selects how a range is extracted.
type CutMode int

const (
	// CutPrecise seeks before opening the input and keeps source timestamps.
	CutPrecise CutMode = iota
	// CutFast opens the input first and stream-copies from the nearest keyframe.
	CutFast
)

func (m CutMode) String() string {
	if m == CutFast {
		return "fast"
	}
	return "precise"
}

// ParseCutMode accepts "precise" (or "") and "fast".
func ParseCutMode(value string) (CutMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "precise":
		return CutPrecise, nil
	case "fast":
		return CutFast, nil
	default:
		return CutPrecise, services.Wrap(services.ErrValidation, "cut", "parse mode", fmt.Sprintf("unknown cut mode %q", value), nil)
	}
}

// CutArgs returns the ffmpeg arguments (without the common prefix) that
// extract [start, start+duration) from source into destination.
func CutArgs(source, destination string, start, duration float64, mode CutMode) []string {
	ss := timeline.FormatClock(start)
	t := timeline.FormatClock(duration)
	if mode == CutFast {
		return []string{"-i", source, "-ss", ss, "-t", t, "-c", "copy", destination}
	}
	return []string{"-ss", ss, "-t", t, "-i", source, "-copyts", destination}
}

// Cut extracts one range of source into destination and returns destination.
func (t Tools) Cut(ctx context.Context, source, destination string, start, duration float64, mode CutMode) (string, error) {
	t = t.withDefaults()
	if _, err := statSource(source); err != nil {
		return "", err
	}
	if err := t.ffmpeg(ctx, CutArgs(source, destination, start, duration, mode)...); err != nil {
		return "", fmt.Errorf("cut %s: %w", source, err)
	}
	t.logger(ctx, "extractor").Debug("clip extracted",
		logging.String("source", source),
		logging.String("destination", destination),
		logging.String("start", timeline.FormatClock(start)),
		logging.String("duration", timeline.FormatClock(duration)),
		logging.String("mode", mode.String()),
	)
	return destination, nil
}
