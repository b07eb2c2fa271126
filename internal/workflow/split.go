package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"bilistage/internal/cache"
	"bilistage/internal/catalog"
	"bilistage/internal/episode"
	"bilistage/internal/fileutil"
	"bilistage/internal/logging"
	"bilistage/internal/services"
	"bilistage/internal/textutil"
	"bilistage/internal/video"
)

// SplitRequest describes one split job.
type SplitRequest struct {
	Ref episode.Ref
	// Alias replaces the generated output name.
	Alias string
	// Count overrides the resolved part count when positive.
	Count int
	Quick bool
	// UseCache restores the parts from the packet-stream cache instead of
	// cutting the source again.
	UseCache bool
}

// SplitResult lists what a split job produced.
type SplitResult struct {
	RunDir      string
	Parts       []string
	Screenshots []string
}

// Split cuts an episode into equal parts, appends filler clips to each part
// and grabs screenshots, all inside a fresh run directory.
func (s *Service) Split(ctx context.Context, req SplitRequest) (SplitResult, error) {
	ref := req.Ref
	settings, err := s.ResolveRef(&ref)
	if err != nil {
		return SplitResult{}, err
	}
	opts, err := settings.Split(ref.Season, ref.Episode)
	if err != nil {
		return SplitResult{}, err
	}
	count := req.Count
	if count <= 0 {
		count = opts.PartCount()
	}
	if count <= 0 {
		return SplitResult{}, services.Wrap(services.ErrValidation, "split", "plan", fmt.Sprintf("%s %s: part count must be positive", ref.Name, ref.Label()), nil)
	}
	mode := cutMode(req.Quick || catalog.Flag(opts.Quick))

	fullTitle := ref.FullTitle()
	ctx = services.WithTitle(ctx, fullTitle)
	logger := s.log(ctx, "split")

	runDir, err := cache.Create(s.cfg.Paths.CacheDir, fullTitle)
	if err != nil {
		return SplitResult{}, err
	}
	splitDir := cache.SplitDir(s.cfg.Paths.CacheDir, ref.Name, fullTitle, count)

	var streams []string
	if req.UseCache {
		streams, err = cache.Restore(ctx, splitDir, runDir)
		if err != nil {
			return SplitResult{}, err
		}
		logger.Info("parts restored from cache", logging.String("cache", splitDir), logging.Int("parts", len(streams)))
	} else {
		streams, err = s.cutParts(ctx, ref, opts, req.Alias, runDir, count, mode)
		if err != nil {
			return SplitResult{}, err
		}
		if err := cache.Populate(ctx, splitDir, streams); err != nil {
			logging.WarnWithContext(logger, "split cache not populated", "split_cache_failed",
				logging.String("cache", splitDir),
				logging.Error(err),
				logging.String(logging.FieldImpact, "the next --with-cache run will cut the source again"),
			)
		}
	}

	result := SplitResult{RunDir: runDir}
	for _, ts := range streams {
		part, err := s.finishPart(ctx, ts, opts.SuffixParts)
		if err != nil {
			return result, err
		}
		result.Parts = append(result.Parts, part)
		for i, second := range opts.ScreenshotSeconds {
			shot := fmt.Sprintf("%s.%d.png", strings.TrimSuffix(part, filepath.Ext(part)), i)
			if _, err := s.tools.Screenshot(ctx, part, shot, float64(second)); err != nil {
				return result, err
			}
			result.Screenshots = append(result.Screenshots, shot)
		}
	}
	logger.Info("split complete",
		logging.String("run_dir", runDir),
		logging.Int("parts", len(result.Parts)),
		logging.String(logging.FieldEventType, "split_complete"),
	)
	return result, nil
}

// SplitTarget names a split's outputs: the alias when set, otherwise
// "<episode title>-<full title>" or just the full title.
func SplitTarget(ref episode.Ref, alias string) string {
	if alias = strings.TrimSpace(alias); alias != "" {
		return textutil.SanitizeFileName(alias)
	}
	if ref.EpisodeTitle != "" {
		return textutil.SanitizeFileName(ref.EpisodeTitle + "-" + ref.FullTitle())
	}
	return textutil.SanitizeFileName(ref.FullTitle())
}

// cutParts copies the library file into runDir, removes the configured
// intervals, splits it and packetizes every part.
func (s *Service) cutParts(ctx context.Context, ref episode.Ref, opts catalog.SplitSettings, alias, runDir string, count int, mode video.CutMode) (streams []string, err error) {
	scratch := &video.Scratch{}
	defer func() {
		if err != nil {
			for _, ts := range streams {
				scratch.Track(ts)
			}
			streams = nil
		}
		if cleanupErr := scratch.Cleanup(); cleanupErr != nil {
			logging.WarnWithContext(s.log(ctx, "split"), "split intermediates not removed", "cleanup_failed",
				logging.Error(cleanupErr),
				logging.String("run_dir", runDir),
			)
		}
	}()

	target := SplitTarget(ref, alias)
	source := ref.SourcePath(s.cfg.Paths.LibraryDir)
	working := scratch.Track(filepath.Join(runDir, target+".mp4"))
	if err := fileutil.LinkOrCopy(source, working); err != nil {
		return nil, fmt.Errorf("copy %s into cache: %w", source, err)
	}

	if exclude := opts.Exclude(); len(exclude) > 0 {
		removed := scratch.Track(filepath.Join(runDir, target+".remove.mp4"))
		if _, err := s.tools.Remove(ctx, working, removed, exclude, mode); err != nil {
			return nil, err
		}
		if err := scratch.Release(working); err != nil {
			return nil, err
		}
		working = removed
	}

	parts, err := s.tools.Split(ctx, working, filepath.Join(runDir, target), count, mode)
	for _, p := range parts {
		scratch.Track(p)
	}
	if err != nil {
		return nil, err
	}
	for _, part := range parts {
		ts, err := s.tools.ToPacketStream(ctx, part)
		if err != nil {
			return streams, err
		}
		streams = append(streams, ts)
		if err := scratch.Release(part); err != nil {
			return streams, err
		}
	}
	return streams, nil
}

// finishPart joins ts with one random filler clip per suffix name into the
// part's .mp4 and drops ts.
func (s *Service) finishPart(ctx context.Context, ts string, suffix []string) (string, error) {
	fillers, err := s.filler.PickEach(suffix)
	if err != nil {
		return "", err
	}
	part := strings.TrimSuffix(ts, filepath.Ext(ts)) + ".mp4"
	if _, err := s.tools.Concat(ctx, append([]string{ts}, fillers...), part); err != nil {
		return "", err
	}
	if err := removeFile(ts); err != nil {
		return "", err
	}
	return part, nil
}
