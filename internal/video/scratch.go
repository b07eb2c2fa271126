package video

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Scratch owns the intermediate files of one operation. Cleanup removes
// every path still tracked, so callers defer it right after construction.
type Scratch struct {
	paths []string
}

// Track registers path and returns it.
func (s *Scratch) Track(path string) string {
	s.paths = append(s.paths, path)
	return path
}

// Release deletes path now and stops tracking it.
func (s *Scratch) Release(path string) error {
	for i, p := range s.paths {
		if p == path {
			s.paths = append(s.paths[:i], s.paths[i+1:]...)
			break
		}
	}
	return removeIfExists(path)
}

// Pending lists the paths still tracked.
func (s *Scratch) Pending() []string {
	return append([]string(nil), s.paths...)
}

// Cleanup deletes every tracked path. It keeps going past failures and
// returns them joined.
func (s *Scratch) Cleanup() error {
	var errs []error
	for _, p := range s.paths {
		if err := removeIfExists(p); err != nil {
			errs = append(errs, err)
		}
	}
	s.paths = nil
	return errors.Join(errs...)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove intermediate %s: %w", path, err)
	}
	return nil
}
