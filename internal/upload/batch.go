package upload

import (
	"context"
	"fmt"

	"bilistage/internal/logging"
	"bilistage/internal/services"
)

// Item is one file of a batch with its rendered flags.
type Item struct {
	Path  string
	Flags []string
}

// Batch uploads items as one video: the first item creates it and every
// later item is appended. Entries already recorded for batch are skipped,
// and their video identifier is reused. Returns the video identifier.
func (c *Client) Batch(ctx context.Context, history *History, batch string, items []Item, limit int) (string, error) {
	if len(items) == 0 {
		return "", services.Wrap(services.ErrValidation, "upload", "batch", "no files to upload", nil)
	}
	logger := c.logger(ctx)

	done := map[string]struct{}{}
	var videoID string
	if history != nil {
		entries, err := history.Batch(ctx, batch)
		if err != nil {
			return "", err
		}
		for _, e := range entries {
			done[e.Path] = struct{}{}
			if videoID == "" {
				videoID = e.VideoID
			}
		}
	}

	for _, item := range items {
		if _, ok := done[item.Path]; ok {
			logger.Info("already uploaded", logging.String("path", item.Path), logging.String("video_id", videoID))
			continue
		}
		kind := KindAppend
		if videoID == "" {
			id, err := c.Upload(ctx, item.Path, item.Flags)
			if err != nil {
				return "", err
			}
			videoID, kind = id, KindUpload
		} else if err := c.Append(ctx, videoID, item.Path, limit); err != nil {
			return videoID, err
		}
		if history != nil {
			if err := history.Record(ctx, Entry{Batch: batch, Path: item.Path, VideoID: videoID, Kind: kind}); err != nil {
				return videoID, fmt.Errorf("record upload: %w", err)
			}
		}
	}
	return videoID, nil
}
