package workflow

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"bilistage/internal/catalog"
	"bilistage/internal/episode"
	"bilistage/internal/logging"
	"bilistage/internal/services"
	"bilistage/internal/video"
)

// Action selects what a transcode job produces.
type Action int

const (
	// ActionUnset defers to the title's transcoder settings.
	ActionUnset Action = iota
	ActionMP3
	ActionMP4
	Action1080p
)

// Actions lists every selectable action.
var Actions = []Action{ActionMP3, ActionMP4, Action1080p}

func (a Action) String() string {
	switch a {
	case ActionMP3:
		return "mp3"
	case ActionMP4:
		return "mp4"
	case Action1080p:
		return "1080p"
	default:
		return ""
	}
}

// ParseAction maps an action name to its Action. An empty name is ActionUnset.
func ParseAction(value string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return ActionUnset, nil
	case "mp3":
		return ActionMP3, nil
	case "mp4":
		return ActionMP4, nil
	case "1080p", "1080":
		return Action1080p, nil
	default:
		return ActionUnset, services.Wrap(services.ErrValidation, "trans", "action", fmt.Sprintf("unknown action %q (want mp3, mp4 or 1080p)", value), nil)
	}
}

// TranscodeRequest describes one transcode job.
type TranscodeRequest struct {
	Source string
	Action Action
	// Destination defaults per action: next to the source for mp3 and mp4,
	// the library layout for 1080p.
	Destination string
	// Type overrides the catalog type for 1080p outputs.
	Type  string
	Quick bool
}

// Transcode converts req.Source according to req.Action and returns the
// files it wrote.
func (s *Service) Transcode(ctx context.Context, req TranscodeRequest) ([]string, error) {
	ctx = services.WithTitle(ctx, filepath.Base(req.Source))
	action := req.Action
	if action == ActionUnset {
		resolved, err := s.defaultAction(req.Source)
		if err != nil {
			return nil, err
		}
		action = resolved
	}

	switch action {
	case ActionMP3:
		dst := firstNonEmpty(req.Destination, replaceExt(req.Source, ".mp3"))
		out, err := s.tools.ToMP3(ctx, req.Source, dst)
		if err != nil {
			return nil, err
		}
		return []string{out}, nil
	case ActionMP4:
		return s.toMP4(ctx, req.Source, req.Destination)
	case Action1080p:
		out, err := s.transcode1080(ctx, req)
		if err != nil {
			return nil, err
		}
		return []string{out}, nil
	case ActionUnset:
		return nil, services.Wrap(services.ErrValidation, "trans", "action", "no action given and none configured for "+req.Source, nil)
	}
	return nil, services.Wrap(services.ErrValidation, "trans", "action", fmt.Sprintf("unhandled action %d", action), nil)
}

// defaultAction reads the transcoder settings of the episode source names.
func (s *Service) defaultAction(source string) (Action, error) {
	ref, settings, err := s.parseSource(source)
	if err != nil {
		return ActionUnset, err
	}
	opts, ok := settings.Transcode(ref.Season, ref.Episode)
	if !ok || opts.Action == nil {
		return ActionUnset, nil
	}
	return ParseAction(*opts.Action)
}

func (s *Service) parseSource(source string) (episode.Ref, *catalog.MediaSettings, error) {
	ref, err := episode.Parse(source, s.patterns)
	if err != nil {
		return episode.Ref{}, nil, err
	}
	settings, err := s.ResolveRef(&ref)
	if err != nil {
		return episode.Ref{}, nil, err
	}
	return ref, settings, nil
}

// toMP4 remuxes one file, or every .mkv in a directory that has no .mp4
// sibling yet.
func (s *Service) toMP4(ctx context.Context, source, destination string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, &video.SourceNotFoundError{Path: source}
	}
	if !info.IsDir() {
		out, err := s.tools.ToMP4(ctx, source, firstNonEmpty(destination, replaceExt(source, ".mp4")))
		if err != nil {
			return nil, err
		}
		return []string{out}, nil
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	var outputs []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".mkv") {
			continue
		}
		mkv := filepath.Join(source, entry.Name())
		mp4 := replaceExt(mkv, ".mp4")
		if _, err := os.Stat(mp4); err == nil {
			s.log(ctx, "trans").Debug("mp4 already present", logging.String("path", mp4))
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return outputs, fmt.Errorf("stat %s: %w", mp4, err)
		}
		out, err := s.tools.ToMP4(ctx, mkv, mp4)
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// transcode1080 re-encodes an episode into the library layout and then cuts
// the episode's configured exclude intervals out of the result.
func (s *Service) transcode1080(ctx context.Context, req TranscodeRequest) (string, error) {
	ref, settings, err := s.parseSource(req.Source)
	if err != nil {
		return "", err
	}
	if req.Type != "" {
		ref.Type = req.Type
	}
	library := s.cfg.Paths.LibraryDir
	quick := req.Quick
	if opts, ok := settings.Transcode(ref.Season, ref.Episode); ok {
		library = catalog.Str(opts.LibraryDir, library)
		quick = quick || catalog.Flag(opts.Quick)
	}
	dst := firstNonEmpty(req.Destination, ref.SourcePath(library))
	ctx = services.WithTitle(ctx, ref.FullTitle())
	logger := s.log(ctx, "trans")

	if _, err := s.tools.Transcode1080(ctx, req.Source, dst); err != nil {
		return "", err
	}
	ep, ok := settings.Episode(ref.Season, ref.Episode)
	exclude := ep.Exclude()
	if !ok || len(exclude) == 0 {
		logger.Info("episode transcoded", logging.String("destination", dst))
		return dst, nil
	}

	staged := replaceExt(dst, ".remove.mp4")
	if err := os.Rename(dst, staged); err != nil {
		return "", fmt.Errorf("stage transcoded file: %w", err)
	}
	if _, err := s.tools.Remove(ctx, staged, dst, exclude, cutMode(quick)); err != nil {
		return "", err
	}
	if err := removeFile(staged); err != nil {
		return "", err
	}
	logger.Info("episode transcoded",
		logging.String("destination", dst),
		logging.Int("excluded", len(exclude)),
	)
	return dst, nil
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
