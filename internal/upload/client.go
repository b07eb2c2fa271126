package upload

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"bilistage/internal/logging"
	"bilistage/internal/services"
	"bilistage/internal/toolchain"
)

// Client runs the uploader binary with a credential file.
type Client struct {
	Runner     toolchain.Runner
	Binary     string
	Credential string
	Logger     *slog.Logger
}

func (c *Client) logger(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, logging.NewComponentLogger(c.Logger, "uploader"))
}

func (c *Client) run(ctx context.Context, args ...string) ([]string, error) {
	runner := c.Runner
	if runner == nil {
		runner = toolchain.ExecRunner{}
	}
	binary := c.Binary
	if binary == "" {
		binary = "biliup"
	}
	full := append([]string{"-u", c.Credential}, args...)
	return runner.Run(ctx, binary, full...)
}

// Upload creates a new video from path and returns its identifier.
func (c *Client) Upload(ctx context.Context, path string, flags []string) (string, error) {
	args := append([]string{"upload", path}, flags...)
	lines, err := c.run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	id, ok := ScrapeVideoID(lines)
	if !ok {
		return "", services.Wrap(services.ErrExternalTool, "upload", "scrape video id", "uploader output carried no video id for "+path, nil)
	}
	c.logger(ctx).Info("video uploaded",
		logging.String("path", path),
		logging.String("video_id", id),
		logging.String(logging.FieldEventType, "upload_created"),
	)
	return id, nil
}

// Append adds path as a new part of an existing video.
func (c *Client) Append(ctx context.Context, videoID, path string, limit int) error {
	if _, err := c.run(ctx, "append", "--vid", videoID, path, "--limit", strconv.Itoa(limit)); err != nil {
		return fmt.Errorf("append %s to %s: %w", path, videoID, err)
	}
	c.logger(ctx).Info("part appended",
		logging.String("path", path),
		logging.String("video_id", videoID),
		logging.String(logging.FieldEventType, "upload_appended"),
	)
	return nil
}
