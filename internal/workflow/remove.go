package workflow

import (
	"context"
	"path/filepath"
	"strings"

	"bilistage/internal/logging"
	"bilistage/internal/services"
	"bilistage/internal/timeline"
	"bilistage/internal/video"
)

// RemoveRequest describes one cut-out job.
type RemoveRequest struct {
	Source string
	// Destination defaults to DefaultRemovePath(Source).
	Destination string
	Exclude     []timeline.Interval
	Quick       bool
}

// DefaultRemovePath names the output of a remove job: "<stem>-remove.mp4"
// next to source.
func DefaultRemovePath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + "-remove.mp4"
}

// Remove writes source minus the requested intervals.
func (s *Service) Remove(ctx context.Context, req RemoveRequest) (string, error) {
	if err := timeline.Validate(req.Exclude); err != nil {
		return "", err
	}
	if len(req.Exclude) == 0 {
		return "", services.Wrap(services.ErrValidation, "remove", "plan", "at least one interval is required", nil)
	}
	dst := req.Destination
	if dst == "" {
		dst = DefaultRemovePath(req.Source)
	}
	ctx = services.WithTitle(ctx, filepath.Base(req.Source))
	out, err := s.tools.Remove(ctx, req.Source, dst, req.Exclude, cutMode(req.Quick))
	if err != nil {
		return "", err
	}
	s.log(ctx, "remove").Info("segments removed",
		logging.String("source", req.Source),
		logging.String("destination", out),
		logging.String(logging.FieldEventType, "remove_complete"),
	)
	return out, nil
}

// PlanResult is the outcome of a dry run.
type PlanResult struct {
	Media   video.Media
	Exclude []timeline.Interval
	Keep    []timeline.Interval
}

// Plan probes source and reports which ranges a remove job would keep.
func (s *Service) Plan(ctx context.Context, source string, exclude []timeline.Interval) (PlanResult, error) {
	if err := timeline.Validate(exclude); err != nil {
		return PlanResult{}, err
	}
	media, err := s.tools.Probe(ctx, source)
	if err != nil {
		return PlanResult{}, err
	}
	return PlanResult{
		Media:   media,
		Exclude: exclude,
		Keep:    timeline.RemoveSegments(uint64(media.DurationSeconds), exclude),
	}, nil
}
