package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"

	"bilistage/internal/cascade"
	"bilistage/internal/services"
	"bilistage/internal/timeline"
)

const fileExt = ".toml"

// NotFoundError reports a title without a settings document.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("media settings %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return services.ErrNotFound
}

// Catalog reads settings documents from a directory.
type Catalog struct {
	dir string
}

// New returns a Catalog rooted at dir.
func New(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// Dir returns the settings directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// PathFor returns the document path for name.
func (c *Catalog) PathFor(name string) string {
	return filepath.Join(c.dir, name+fileExt)
}

// Load reads and validates the document for name.
func (c *Catalog) Load(name string) (*MediaSettings, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "load", "empty settings name", nil)
	}
	return LoadFile(c.PathFor(name))
}

// LoadFile reads and validates a document from path. The document name
// defaults to the file's base name.
func LoadFile(path string) (*MediaSettings, error) {
	name := strings.TrimSuffix(filepath.Base(path), fileExt)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Name: name}
		}
		return nil, fmt.Errorf("open media settings: %w", err)
	}
	defer file.Close()

	var settings MediaSettings
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "parse "+filepath.Base(path), "", err)
	}
	settings.path = path
	if strings.TrimSpace(settings.Name) == "" {
		settings.Name = name
	}
	if strings.TrimSpace(settings.Type) == "" {
		settings.Type = DefaultType
	}
	if err := settings.Validate(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "validate "+filepath.Base(path), "", err)
	}
	return &settings, nil
}

// List returns the names of every document in the directory, sorted.
func (c *Catalog) List() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read media settings directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), fileExt))
	}
	sort.Strings(names)
	return names, nil
}

// FindByTitle returns the document whose title or name matches title under
// Unicode case folding.
func (c *Catalog) FindByTitle(title string) (*MediaSettings, error) {
	title = strings.TrimSpace(title)
	fold := cases.Fold()
	want := fold.String(title)
	names, err := c.List()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		settings, err := c.Load(name)
		if err != nil {
			return nil, err
		}
		if fold.String(settings.Title) == want || fold.String(settings.Name) == want {
			return settings, nil
		}
	}
	return nil, &NotFoundError{Name: title}
}

// Validate checks selectors, interval lists and mark identifiers.
func (m *MediaSettings) Validate() error {
	var errs []error
	check := func(kind string, idx int, sel cascade.Selector, lists map[string][][2]uint64) {
		if err := sel.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s[%d]: %w", kind, idx, err))
		}
		for field, pairs := range lists {
			if err := timeline.Validate(timeline.FromPairs(pairs)); err != nil {
				errs = append(errs, fmt.Errorf("%s[%d].%s: %w", kind, idx, field, err))
			}
		}
	}
	for i, s := range m.Spliters {
		check("spliters", i, s.Selector, map[string][][2]uint64{"exclude_segments": s.ExcludeSegments})
		if s.Count != nil && *s.Count <= 0 {
			errs = append(errs, fmt.Errorf("spliters[%d].count must be positive", i))
		}
	}
	for i, s := range m.Episodes {
		check("episodes", i, s.Selector, map[string][][2]uint64{"exclude_segments": s.ExcludeSegments})
	}
	for i, s := range m.Uploaders {
		check("uploaders", i, s.Selector, nil)
	}
	for i, s := range m.Transcoders {
		check("transcoders", i, s.Selector, nil)
	}
	for i, s := range m.MarkSettings {
		check("mark_settings", i, s.Selector, nil)
	}
	seen := map[string]struct{}{}
	for i, mark := range m.Marks {
		check("marks", i, mark.Selector, map[string][][2]uint64{"include": mark.Include, "exclude": mark.Exclude})
		id := strings.TrimSpace(mark.ID)
		if id == "" {
			errs = append(errs, fmt.Errorf("marks[%d]: id is required", i))
			continue
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("marks[%d]: duplicate id %q", i, id))
		}
		seen[id] = struct{}{}
		if len(mark.Include) > 0 && len(mark.Exclude) > 0 {
			errs = append(errs, fmt.Errorf("marks[%d]: include and exclude are mutually exclusive", i))
		}
		if mark.Source == "" && len(mark.Parts) == 0 {
			errs = append(errs, fmt.Errorf("marks[%d]: source or parts is required", i))
		}
	}
	return errors.Join(errs...)
}

// Split resolves split settings for an episode.
func (m *MediaSettings) Split(season, episode uint32) (SplitSettings, error) {
	return cascade.MustResolve("split", season, episode, m.Spliters)
}

// Episode resolves episode settings. ok is false when nothing matched.
func (m *MediaSettings) Episode(season, episode uint32) (EpisodeSettings, bool) {
	return cascade.Resolve(season, episode, m.Episodes)
}

// Upload resolves upload settings for an episode.
func (m *MediaSettings) Upload(season, episode uint32) (UploadSettings, error) {
	return cascade.MustResolve("upload", season, episode, m.Uploaders)
}

// Transcode resolves transcode settings. ok is false when nothing matched.
func (m *MediaSettings) Transcode(season, episode uint32) (TranscodeSettings, bool) {
	return cascade.Resolve(season, episode, m.Transcoders)
}

// Mark returns the mark with id and its flags merged over the mark settings
// that match its selector.
func (m *MediaSettings) Mark(id string) (Mark, MarkSettings, error) {
	for _, mark := range m.Marks {
		if mark.ID != id {
			continue
		}
		var season, episode uint32
		if mark.Season != nil {
			season = *mark.Season
		}
		if mark.Episode != nil {
			episode = *mark.Episode
		}
		defaults, _ := cascade.Resolve(season, episode, m.MarkSettings)
		return mark, defaults.Merge(mark.Overlay()), nil
	}
	return Mark{}, MarkSettings{}, services.Wrap(services.ErrNotFound, "catalog", "mark", fmt.Sprintf("mark %q not defined for %s", id, m.Name), nil)
}
