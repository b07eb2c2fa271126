package video

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"bilistage/internal/logging"
	"bilistage/internal/services"
)

// Part is one planned chunk of a split.
type Part struct {
	Index    int
	Start    float64
	Duration float64
}

// PlanParts divides total into count equal parts.
func PlanParts(total float64, count int) ([]Part, error) {
	if count <= 0 {
		return nil, services.Wrap(services.ErrValidation, "split", "plan", fmt.Sprintf("part count must be positive, got %d", count), nil)
	}
	d := total / float64(count)
	parts := make([]Part, count)
	for i := range parts {
		parts[i] = Part{Index: i, Start: float64(i) * d, Duration: d}
	}
	return parts, nil
}

var mediaExtensions = map[string]struct{}{
	".mp4": {}, ".mkv": {}, ".ts": {}, ".flv": {}, ".mov": {}, ".m4v": {},
}

// PartPath names part i of prefix: prefix without a media extension,
// followed by ".P{i+1}.mp4".
func PartPath(prefix string, index int) string {
	if _, ok := mediaExtensions[strings.ToLower(filepath.Ext(prefix))]; ok {
		prefix = strings.TrimSuffix(prefix, filepath.Ext(prefix))
	}
	return fmt.Sprintf("%s.P%d.mp4", prefix, index+1)
}

// Split cuts source into parts equal chunks and returns their paths in order.
// A zero part count fails before any process runs. When a cut fails, the
// parts already written are returned with the error so the caller can
// remove them.
func (t Tools) Split(ctx context.Context, source, prefix string, parts int, mode CutMode) ([]string, error) {
	t = t.withDefaults()
	if parts <= 0 {
		return nil, services.Wrap(services.ErrValidation, "split", "plan", fmt.Sprintf("part count must be positive, got %d", parts), nil)
	}
	media, err := t.Probe(ctx, source)
	if err != nil {
		return nil, err
	}
	plan, err := PlanParts(media.DurationSeconds, parts)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(plan))
	for _, part := range plan {
		dst := PartPath(prefix, part.Index)
		out, err := t.Cut(ctx, source, dst, part.Start, part.Duration, mode)
		if err != nil {
			if rmErr := removeIfExists(dst); rmErr != nil {
				err = errors.Join(err, rmErr)
			}
			return paths, err
		}
		paths = append(paths, out)
	}
	t.logger(ctx, "splitter").Info("source split",
		logging.String("source", source),
		logging.Int("parts", parts),
		logging.Float64("part_seconds", plan[0].Duration),
	)
	return paths, nil
}
