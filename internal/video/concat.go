package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bilistage/internal/logging"
	"bilistage/internal/services"
)

// ManifestLine renders one concat demuxer entry.
func ManifestLine(path string) string {
	return "file '" + strings.ReplaceAll(path, "'", `'\''`) + "'\n"
}

// ConcatArgs returns the ffmpeg arguments that join the manifest entries.
func ConcatArgs(manifest, destination string) []string {
	return []string{"-f", "concat", "-safe", "0", "-i", manifest, "-c", "copy", "-bsf:a", "aac_adtstoasc", destination}
}

// Concat joins segments, in the given order, into destination. The manifest
// is written beside destination and removed once ffmpeg returns.
func (t Tools) Concat(ctx context.Context, segments []string, destination string) (string, error) {
	t = t.withDefaults()
	if len(segments) == 0 {
		return "", services.Wrap(services.ErrValidation, string(StageConcat), "concat", "no segments to join", nil)
	}

	var body strings.Builder
	for _, segment := range segments {
		abs, err := filepath.Abs(segment)
		if err != nil {
			return "", fmt.Errorf("resolve segment %s: %w", segment, err)
		}
		body.WriteString(ManifestLine(abs))
	}

	dir := filepath.Dir(destination)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create destination directory: %w", err)
	}
	manifest := filepath.Join(dir, "concat-"+strconv.FormatInt(time.Now().UnixNano(), 10))
	if err := os.WriteFile(manifest, []byte(body.String()), 0o644); err != nil {
		return "", fmt.Errorf("write concat manifest: %w", err)
	}
	defer func() {
		if err := removeIfExists(manifest); err != nil {
			logging.WarnWithContext(t.logger(ctx, "concatenator"), "concat manifest not removed", "manifest_cleanup_failed",
				logging.String("manifest", manifest),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete the manifest by hand"),
			)
		}
	}()

	if err := t.ffmpeg(ctx, ConcatArgs(manifest, destination)...); err != nil {
		return "", fmt.Errorf("concat into %s: %w", destination, err)
	}
	t.logger(ctx, "concatenator").Info("segments joined",
		logging.String("destination", destination),
		logging.Int("segments", len(segments)),
	)
	return destination, nil
}
