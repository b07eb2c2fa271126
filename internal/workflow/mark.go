package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bilistage/internal/cache"
	"bilistage/internal/catalog"
	"bilistage/internal/config"
	"bilistage/internal/logging"
	"bilistage/internal/services"
	"bilistage/internal/textutil"
	"bilistage/internal/timeline"
	"bilistage/internal/video"
)

// MarkRequest names one mark of a title.
type MarkRequest struct {
	Name string
	ID   string
	// Title overrides the mark's output name.
	Title string
}

// MarkResult reports a finished mark.
type MarkResult struct {
	RunDir string
	Output string
}

// Mark builds the compilation defined by a mark: sources are joined, trimmed
// by the mark's include or exclude list, followed by filler clips, optionally
// transcoded to 1080p, and written to a fresh run directory.
func (s *Service) Mark(ctx context.Context, req MarkRequest) (MarkResult, error) {
	settings, err := s.catalog.Load(req.Name)
	if err != nil {
		return MarkResult{}, err
	}
	mark, opts, err := settings.Mark(req.ID)
	if err != nil {
		return MarkResult{}, err
	}
	title := firstNonEmpty(req.Title, mark.Title, mark.ID)
	title = textutil.SanitizeFileName(title)
	ctx = services.WithTitle(ctx, title)
	logger := s.log(ctx, "mark")
	mode := cutMode(catalog.Flag(opts.Quick))

	sources, err := s.markSources(settings.Name, mark)
	if err != nil {
		return MarkResult{}, err
	}
	runDir, err := cache.Create(s.cfg.Paths.CacheDir, title)
	if err != nil {
		return MarkResult{}, err
	}
	base := filepath.Join(runDir, title)

	scratch := &video.Scratch{}
	defer func() {
		if cleanupErr := scratch.Cleanup(); cleanupErr != nil {
			logging.WarnWithContext(logger, "mark intermediates not removed", "cleanup_failed",
				logging.Error(cleanupErr),
				logging.String("run_dir", runDir),
			)
		}
	}()

	segments := sources
	if len(mark.Include) > 0 || len(mark.Exclude) > 0 {
		joined := sources[0]
		if len(sources) > 1 {
			joined = scratch.Track(base + ".joined.mp4")
			if _, err := s.tools.Concat(ctx, sources, joined); err != nil {
				return MarkResult{}, err
			}
		}
		trimmed := scratch.Track(base + ".trim.mp4")
		if len(mark.Include) > 0 {
			_, err = s.tools.Keep(ctx, joined, trimmed, timeline.FromPairs(mark.Include), mode)
		} else {
			_, err = s.tools.Remove(ctx, joined, trimmed, timeline.FromPairs(mark.Exclude), mode)
		}
		if err != nil {
			return MarkResult{}, err
		}
		segments = []string{trimmed}
	}

	if catalog.Flag(opts.AppendFiller) {
		fillers, err := s.markFillers(opts.SuffixParts)
		if err != nil {
			return MarkResult{}, err
		}
		streams := make([]string, 0, len(segments)+len(fillers))
		for i, seg := range segments {
			if strings.EqualFold(filepath.Ext(seg), ".ts") {
				streams = append(streams, seg)
				continue
			}
			ts := scratch.Track(fmt.Sprintf("%s.%d.ts", base, i))
			if _, err := s.tools.ToPacketStreamAt(ctx, seg, ts); err != nil {
				return MarkResult{}, err
			}
			streams = append(streams, ts)
		}
		segments = append(streams, fillers...)
	}

	output := base + ".mp4"
	if catalog.Flag(opts.Transcode1080) {
		joined := scratch.Track(base + ".concat.mp4")
		if _, err := s.tools.Concat(ctx, segments, joined); err != nil {
			return MarkResult{}, err
		}
		if _, err := s.tools.Transcode1080(ctx, joined, output); err != nil {
			return MarkResult{}, err
		}
	} else if _, err := s.tools.Concat(ctx, segments, output); err != nil {
		return MarkResult{}, err
	}

	logger.Info("mark complete",
		logging.String("mark", mark.ID),
		logging.String("output", output),
		logging.Int("sources", len(sources)),
		logging.String(logging.FieldEventType, "mark_complete"),
	)
	return MarkResult{RunDir: runDir, Output: output}, nil
}

// markSources lists the mark's source followed by its parts.
func (s *Service) markSources(name string, mark catalog.Mark) ([]string, error) {
	var sources []string
	if mark.Source != "" {
		path, err := config.ExpandPath(mark.Source)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			return nil, &video.SourceNotFoundError{Path: path}
		}
		sources = append(sources, path)
	}
	for _, pid := range mark.Parts {
		path, err := s.ResolvePart(name, pid)
		if err != nil {
			return nil, err
		}
		sources = append(sources, path)
	}
	if len(sources) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "mark", "sources", fmt.Sprintf("mark %q has no sources", mark.ID), nil)
	}
	return sources, nil
}

// ResolvePart locates a part id: <filler_dir>/<name>/<id> with or without a
// .ts or .mp4 extension, or else id itself as a path.
func (s *Service) ResolvePart(name, id string) (string, error) {
	base := filepath.Join(s.cfg.Paths.FillerDir, name, id)
	for _, candidate := range []string{base, base + ".ts", base + ".mp4", id} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrNotFound, "mark", "part", fmt.Sprintf("part %q not found under %s", id, filepath.Dir(base)), nil)
}

// markFillers picks one clip per suffix name, or one clip from every
// configured group when the mark names none.
func (s *Service) markFillers(suffix []string) ([]string, error) {
	if len(suffix) > 0 {
		return s.filler.PickEach(suffix)
	}
	clip, err := s.filler.Pick(s.cfg.Filler.Names...)
	if err != nil {
		return nil, err
	}
	return []string{clip}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
