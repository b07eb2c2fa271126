package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"bilistage/internal/services"
	"bilistage/internal/textutil"
)

// now is replaced in tests.
var now = time.Now

// RunName returns the directory name Create would use for name.
func RunName(name string, at time.Time) string {
	return normalizeName(name) + "-" + strconv.FormatInt(at.Unix(), 10)
}

// Create makes a new run directory for name under root.
func Create(root, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", services.Wrap(services.ErrValidation, "cache", "create", "empty run name", nil)
	}
	dir := filepath.Join(root, RunName(name, now()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}
	return dir, nil
}

// Latest returns the newest run directory created for name, that is the
// "<name>-<unix>" entry with the greatest timestamp. Runs of other names that
// merely share the prefix ("ShowS01E100" for "ShowS01E10") never match.
func Latest(root, name string) (string, error) {
	name = normalizeName(name)
	entries, err := os.ReadDir(root)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read cache root: %w", err)
	}
	var (
		best    string
		bestAt  int64
		matched bool
	)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		at, ok := runTimestamp(norm.NFC.String(entry.Name()), name)
		if !ok {
			continue
		}
		if !matched || at > bestAt {
			best, bestAt, matched = entry.Name(), at, true
		}
	}
	if !matched {
		return "", services.Wrap(services.ErrNotFound, "cache", "latest", fmt.Sprintf("no cache directory for %q under %s", name, root), nil)
	}
	return filepath.Join(root, best), nil
}

// runTimestamp parses the unix suffix of a "<name>-<unix>" directory name.
func runTimestamp(dirName, name string) (int64, bool) {
	suffix, ok := strings.CutPrefix(dirName, name+"-")
	if !ok || suffix == "" || digitPrefix(suffix) != suffix {
		return 0, false
	}
	at, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, false
	}
	return at, true
}

// Files lists regular files in dir with the given extension in natural name
// order, so "x.P2.mp4" sorts before "x.P10.mp4".
func Files(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		out = append(out, filepath.Join(dir, entry.Name()))
	}
	sort.Slice(out, func(i, j int) bool { return naturalLess(out[i], out[j]) })
	return out, nil
}

// naturalLess compares digit runs by value and everything else bytewise.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		da, db := digitPrefix(a), digitPrefix(b)
		if da != "" && db != "" {
			na, nb := strings.TrimLeft(da, "0"), strings.TrimLeft(db, "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			a, b = a[len(da):], b[len(db):]
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func digitPrefix(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

func normalizeName(name string) string {
	return textutil.SanitizeFileName(norm.NFC.String(name))
}
