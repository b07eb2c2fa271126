package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"

	"bilistage/internal/fileutil"
	"bilistage/internal/services"
)

const lockRetryDelay = 200 * time.Millisecond

// SplitDir returns the packet-stream cache directory for an episode split
// into count parts: <root>/split/<name>/<fullTitle>-<count>.
func SplitDir(root, name, fullTitle string, count int) string {
	return filepath.Join(root, "split", normalizeName(name), normalizeName(fullTitle)+"-"+strconv.Itoa(count))
}

func withLock(ctx context.Context, dir string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return fmt.Errorf("create cache parent: %w", err)
	}
	lock := flock.New(dir + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", dir, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", dir)
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

// Populate copies each packet stream into dir unless a file with the same
// name is already cached.
func Populate(ctx context.Context, dir string, streams []string) error {
	return withLock(ctx, dir, func() error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create split cache: %w", err)
		}
		for _, stream := range streams {
			target := filepath.Join(dir, filepath.Base(stream))
			if _, err := os.Stat(target); err == nil {
				continue
			}
			if err := fileutil.CopyFileVerified(stream, target); err != nil {
				return fmt.Errorf("cache %s: %w", stream, err)
			}
		}
		return nil
	})
}

// Restore copies the cached packet streams of dir into runDir and returns
// the copies in name order.
func Restore(ctx context.Context, dir, runDir string) ([]string, error) {
	var restored []string
	err := withLock(ctx, dir, func() error {
		if _, err := os.Stat(dir); err != nil {
			return services.Wrap(services.ErrNotFound, "cache", "restore", dir+" has no cached parts", nil)
		}
		streams, err := Files(dir, ".ts")
		if err != nil {
			return err
		}
		if len(streams) == 0 {
			return services.Wrap(services.ErrNotFound, "cache", "restore", dir+" has no cached parts", nil)
		}
		for _, stream := range streams {
			target := filepath.Join(runDir, filepath.Base(stream))
			if err := fileutil.CopyFile(stream, target); err != nil {
				return fmt.Errorf("restore %s: %w", stream, err)
			}
			restored = append(restored, target)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}
