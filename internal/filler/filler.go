// Package filler maintains the index of short filler clips appended to split
// parts and marks.
//
// Clips are MPEG-TS files grouped by directory under the filler root. Init
// probes every clip, keeps the ones no longer than the configured limit and
// writes the index as JSON; Pick chooses a random clip from the named groups.
// Index writes hold an exclusive file lock and reads a shared one.
package filler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"bilistage/internal/logging"
	"bilistage/internal/services"
)

// Clip is one indexed filler clip.
type Clip struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration"`
}

// Group is the clips found under one filler name.
type Group struct {
	Name  string `json:"name"`
	Clips []Clip `json:"videos"`
}

// DurationProber reports a media file's duration.
type DurationProber interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// Index builds and reads the filler index file.
type Index struct {
	Root       string
	Path       string
	MaxSeconds float64
	Prober     DurationProber
	Logger     *slog.Logger
}

func (ix *Index) lock() *flock.Flock {
	return flock.New(ix.Path + ".lock")
}

// Init scans each named group and rewrites the index.
func (ix *Index) Init(ctx context.Context, names []string) ([]Group, error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(ix.Logger, "filler"))
	if len(names) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "filler", "init", "no filler names configured", nil)
	}

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		group, err := ix.scan(ctx, name, logger)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	payload, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode filler index: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(ix.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create filler index directory: %w", err)
	}

	lock := ix.lock()
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock filler index: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp := ix.Path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return nil, fmt.Errorf("write filler index: %w", err)
	}
	if err := os.Rename(tmp, ix.Path); err != nil {
		return nil, fmt.Errorf("replace filler index: %w", err)
	}
	logger.Info("filler index written",
		logging.String("path", ix.Path),
		logging.Int("groups", len(groups)),
		logging.String(logging.FieldEventType, "filler_index_written"),
	)
	return groups, nil
}

func (ix *Index) scan(ctx context.Context, name string, logger *slog.Logger) (Group, error) {
	dir := filepath.Join(ix.Root, name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Group{}, fmt.Errorf("read filler group %s: %w", name, err)
	}
	group := Group{Name: name}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ts") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		duration, err := ix.Prober.ProbeDuration(ctx, path)
		if err != nil {
			return Group{}, fmt.Errorf("probe filler %s: %w", path, err)
		}
		if ix.MaxSeconds > 0 && duration > ix.MaxSeconds {
			logger.Debug("filler clip too long", logging.String("path", path), logging.Float64("duration_seconds", duration))
			continue
		}
		group.Clips = append(group.Clips, Clip{Path: path, DurationSeconds: duration})
	}
	sort.Slice(group.Clips, func(i, j int) bool { return group.Clips[i].Path < group.Clips[j].Path })
	return group, nil
}

// Load reads the index.
func (ix *Index) Load() ([]Group, error) {
	lock := ix.lock()
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock filler index: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := os.ReadFile(ix.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "filler", "load", ix.Path+" missing; run `bilistage init part`", nil)
		}
		return nil, fmt.Errorf("read filler index: %w", err)
	}
	var groups []Group
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "filler", "load", "decode "+ix.Path, err)
	}
	return groups, nil
}

// Pick returns a random clip from the union of the named groups.
func (ix *Index) Pick(names ...string) (string, error) {
	groups, err := ix.Load()
	if err != nil {
		return "", err
	}
	return pick(groups, names, rand.IntN)
}

func pick(groups []Group, names []string, intn func(int) int) (string, error) {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}
	var pool []Clip
	for _, g := range groups {
		if _, ok := wanted[g.Name]; ok {
			pool = append(pool, g.Clips...)
		}
	}
	if len(pool) == 0 {
		return "", services.Wrap(services.ErrNotFound, "filler", "pick", fmt.Sprintf("no filler clips for %v", names), nil)
	}
	return pool[intn(len(pool))].Path, nil
}

// PickEach returns one random clip per name, in order.
func (ix *Index) PickEach(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	groups, err := ix.Load()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		path, err := pick(groups, []string{name}, rand.IntN)
		if err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	return out, nil
}
