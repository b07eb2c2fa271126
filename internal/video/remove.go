package video

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"bilistage/internal/logging"
	"bilistage/internal/services"
	"bilistage/internal/timeline"
)

// Remove writes destination as source minus the exclude intervals. exclude
// must be sorted and non-overlapping. Failures are reported as *StageError.
func (t Tools) Remove(ctx context.Context, source, destination string, exclude []timeline.Interval, mode CutMode) (string, error) {
	t = t.withDefaults()
	ctx = services.WithStage(ctx, string(StageProbe))
	media, err := t.Probe(ctx, source)
	if err != nil {
		return "", stageFailure(StageProbe, err)
	}
	keep := timeline.RemoveSegments(uint64(media.DurationSeconds), exclude)
	t.logger(ctx, "remover").Info("keep ranges planned",
		logging.String("source", source),
		logging.Float64("duration_seconds", media.DurationSeconds),
		logging.Int("excluded", len(exclude)),
		logging.Int("kept", len(keep)),
	)
	return t.Keep(ctx, source, destination, keep, mode)
}

// Keep writes destination as the concatenation of the keep ranges of source:
// each range is cut, packetized and appended, then the packet streams are
// joined. Every intermediate is deleted on success and on failure.
func (t Tools) Keep(ctx context.Context, source, destination string, keep []timeline.Interval, mode CutMode) (out string, err error) {
	t = t.withDefaults()
	if len(keep) == 0 {
		return "", stageFailure(StagePlan, services.Wrap(services.ErrValidation, string(StagePlan), "keep", "nothing left to keep", nil))
	}
	logger := t.logger(ctx, "remover")

	scratch := &Scratch{}
	defer func() {
		cleanupErr := scratch.Cleanup()
		if cleanupErr == nil {
			return
		}
		if err == nil {
			out, err = "", stageFailure(StageCleanup, cleanupErr)
			return
		}
		logging.WarnWithContext(logger, "intermediates not removed", "cleanup_failed",
			logging.Error(cleanupErr),
			logging.String(logging.FieldImpact, "stray clips left next to the destination"),
		)
	}()

	segments := make([]string, 0, len(keep))
	for i, seg := range keep {
		clip := scratch.Track(IntermediatePath(destination, i))
		cutCtx := services.WithStage(ctx, string(StageCut))
		if _, err := t.Cut(cutCtx, source, clip, float64(seg.Start), float64(seg.Duration()), mode); err != nil {
			return "", stageFailure(StageCut, err)
		}
		packetCtx := services.WithStage(ctx, string(StagePacketize))
		ts := scratch.Track(PacketStreamPath(clip))
		if _, err := t.ToPacketStreamAt(packetCtx, clip, ts); err != nil {
			return "", stageFailure(StagePacketize, err)
		}
		if err := scratch.Release(clip); err != nil {
			return "", stageFailure(StageCleanup, err)
		}
		segments = append(segments, ts)
	}

	if _, err := t.Concat(services.WithStage(ctx, string(StageConcat)), segments, destination); err != nil {
		return "", stageFailure(StageConcat, err)
	}
	logger.Info("ranges reassembled",
		logging.String("destination", destination),
		logging.Int("segments", len(segments)),
	)
	return destination, nil
}

// IntermediatePath names the clip for keep range index next to destination.
func IntermediatePath(destination string, index int) string {
	ext := filepath.Ext(destination)
	return fmt.Sprintf("%s.%d.mp4", strings.TrimSuffix(destination, ext), index)
}
