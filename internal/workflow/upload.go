package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bilistage/internal/cache"
	"bilistage/internal/cascade"
	"bilistage/internal/catalog"
	"bilistage/internal/episode"
	"bilistage/internal/logging"
	"bilistage/internal/services"
	"bilistage/internal/upload"
	"bilistage/internal/video"
)

// UploadRequest describes one upload of a split run. Non-zero Flags fields
// override the resolved upload settings.
type UploadRequest struct {
	Ref   episode.Ref
	Flags upload.Flags
}

// UploadResult reports an upload.
type UploadResult struct {
	VideoID string
	RunDir  string
	Files   []string
}

// Upload sends the parts of the latest run directory for an episode as one
// video: the first part creates it and the rest are appended.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	ref := req.Ref
	settings, err := s.ResolveRef(&ref)
	if err != nil {
		return UploadResult{}, err
	}
	fullTitle := ref.FullTitle()
	ctx = services.WithTitle(ctx, fullTitle)
	logger := s.log(ctx, "upload")

	opts, err := settings.Upload(ref.Season, ref.Episode)
	if err != nil && !errors.Is(err, cascade.ErrNoMatchingOverlay) {
		return UploadResult{}, err
	}
	if err != nil {
		logger.Debug("no upload settings matched; using defaults", logging.String("name", ref.Name))
	}
	flags := s.mergeFlags(req.Flags, opts, ref.Name)

	runDir, err := cache.Latest(s.cfg.Paths.CacheDir, fullTitle)
	if err != nil {
		return UploadResult{}, err
	}
	files, err := cache.Files(runDir, ".mp4")
	if err != nil {
		return UploadResult{}, err
	}
	if len(files) == 0 {
		return UploadResult{}, services.Wrap(services.ErrNotFound, "upload", "list", "no .mp4 parts in "+runDir, nil)
	}

	items := make([]upload.Item, 0, len(files))
	for _, file := range files {
		itemFlags := flags
		if itemFlags.Cover == "" {
			itemFlags.Cover = siblingCover(file)
		}
		args, err := itemFlags.Args(time.Local)
		if err != nil {
			return UploadResult{}, err
		}
		items = append(items, upload.Item{Path: file, Flags: args})
	}

	history, err := upload.OpenHistory(s.cfg.Paths.HistoryDB)
	if err != nil {
		return UploadResult{}, err
	}
	defer history.Close()

	videoID, err := s.uploader.Batch(ctx, history, filepath.Base(runDir), items, flags.Limit)
	if err != nil {
		return UploadResult{VideoID: videoID, RunDir: runDir, Files: files}, err
	}
	logger.Info("upload complete",
		logging.String("video_id", videoID),
		logging.String("run_dir", runDir),
		logging.Int("files", len(files)),
		logging.String(logging.FieldEventType, "upload_complete"),
	)
	return UploadResult{VideoID: videoID, RunDir: runDir, Files: files}, nil
}

// UploadFile uploads one file as a new video. The cover defaults to a .png
// beside the file.
func (s *Service) UploadFile(ctx context.Context, path string, flags upload.Flags) (string, error) {
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", &video.SourceNotFoundError{Path: path}
	}
	flags = s.mergeFlags(flags, catalog.UploadSettings{}, "")
	if flags.Cover == "" {
		flags.Cover = siblingCover(path)
	}
	args, err := flags.Args(time.Local)
	if err != nil {
		return "", err
	}
	ctx = services.WithTitle(ctx, filepath.Base(path))

	history, err := upload.OpenHistory(s.cfg.Paths.HistoryDB)
	if err != nil {
		return "", err
	}
	defer history.Close()

	return s.uploader.Batch(ctx, history, "file:"+path, []upload.Item{{Path: path, Flags: args}}, flags.Limit)
}

// mergeFlags layers explicit flags over resolved settings over configured
// defaults. tag falls back to fallbackTag.
func (s *Service) mergeFlags(explicit upload.Flags, opts catalog.UploadSettings, fallbackTag string) upload.Flags {
	out := explicit
	if out.Limit == 0 {
		out.Limit = catalog.Int(opts.Limit, s.cfg.Upload.Limit)
	}
	if out.TID == 0 {
		out.TID = catalog.Int(opts.TID, s.cfg.Upload.TID)
	}
	if out.Tag == "" {
		out.Tag = catalog.Str(opts.Tag, fallbackTag)
	}
	if out.Desc == "" {
		out.Desc = catalog.Str(opts.Desc, "")
	}
	if out.Dtime == "" {
		out.Dtime = catalog.Str(opts.Dtime, "")
	}
	if out.Cover == "" {
		out.Cover = catalog.Str(opts.Cover, "")
	}
	return out
}

// siblingCover returns "<stem>.png", or the first screenshot "<stem>.0.png",
// when either exists.
func siblingCover(path string) string {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	for _, candidate := range []string{stem + ".png", stem + ".0.png"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// RecentUploads lists the latest history entries.
func (s *Service) RecentUploads(ctx context.Context, limit int) ([]upload.Entry, error) {
	history, err := upload.OpenHistory(s.cfg.Paths.HistoryDB)
	if err != nil {
		return nil, err
	}
	defer history.Close()
	entries, err := history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("read upload history: %w", err)
	}
	return entries, nil
}
