// Package episode addresses a single episode of a title: its display name,
// its location in the media library and how it is recognised from a file
// name.
package episode

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bilistage/internal/catalog"
	"bilistage/internal/services"
)

// movieSeasonThreshold separates real seasons from the year-style season
// numbers used to file movies.
const movieSeasonThreshold = 1000

// Ref identifies one episode.
type Ref struct {
	Type         string
	Name         string
	Title        string
	EpisodeTitle string
	Season       uint32
	Episode      uint32
}

// IsDrama reports whether the episode belongs to a series rather than a movie.
func (r Ref) IsDrama() bool {
	return r.Type != catalog.MovieType
}

// FullTitle is the canonical name used for cache directories and outputs:
// "<title>SxxEyy" for series and "<episode title>.<season:04>.<episode:05>"
// for movies.
func (r Ref) FullTitle() string {
	if r.IsDrama() {
		return fmt.Sprintf("%sS%02dE%02d", r.Title, r.Season, r.Episode)
	}
	return fmt.Sprintf("%s.%04d.%05d", r.EpisodeTitle, r.Season, r.Episode)
}

// Label renders "SxxEyy".
func (r Ref) Label() string {
	return fmt.Sprintf("S%02dE%02d", r.Season, r.Episode)
}

// DisplayTitle title-cases the series title for log and table output.
func (r Ref) DisplayTitle() string {
	return cases.Title(language.Und, cases.NoLower).String(r.Title)
}

// SourcePath locates the episode in the library:
// <library>/<type>/<title>/<title><season>/SxxEyy.mp4.
func (r Ref) SourcePath(libraryDir string) string {
	return filepath.Join(libraryDir, r.Type, r.Title, r.Title+strconv.FormatUint(uint64(r.Season), 10), r.Label()+".mp4")
}

// FillFromCatalog completes unset fields from the title's settings document.
func (r *Ref) FillFromCatalog(m *catalog.MediaSettings) {
	if m == nil {
		return
	}
	if r.Name == "" {
		r.Name = m.Name
	}
	if r.Title == "" {
		r.Title = m.Title
	}
	if r.Type == "" {
		r.Type = m.Type
	}
	if r.EpisodeTitle == "" {
		if ep, ok := m.Episode(r.Season, r.Episode); ok && ep.Title != nil {
			r.EpisodeTitle = *ep.Title
		}
	}
	if r.Season > movieSeasonThreshold {
		r.Type = catalog.MovieType
	}
	if r.Type == "" {
		r.Type = catalog.DefaultType
	}
}

// Validate checks that the reference can address a file.
func (r Ref) Validate() error {
	if r.Name == "" && r.Title == "" {
		return services.Wrap(services.ErrValidation, "episode", "validate", "title or name is required", nil)
	}
	if r.Episode == 0 {
		return services.Wrap(services.ErrValidation, "episode", "validate", "episode number is required", nil)
	}
	return nil
}

// CompilePatterns compiles file name patterns. Each must capture title and
// episode; season is optional.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "episode", "compile pattern", p, err)
		}
		if re.SubexpIndex("title") < 0 || re.SubexpIndex("episode") < 0 {
			return nil, services.Wrap(services.ErrConfiguration, "episode", "compile pattern", p+" must capture title and episode", nil)
		}
		out = append(out, re)
	}
	return out, nil
}

// Parse recognises an episode from the file name of path using the first
// matching pattern. Season defaults to 1 when the pattern has none.
func Parse(path string, patterns []*regexp.Regexp) (Ref, error) {
	base := filepath.Base(path)
	for _, re := range patterns {
		match := re.FindStringSubmatch(base)
		if match == nil {
			continue
		}
		ref := Ref{Title: cleanTitle(match[re.SubexpIndex("title")]), Season: 1}
		episode, err := strconv.ParseUint(match[re.SubexpIndex("episode")], 10, 32)
		if err != nil {
			continue
		}
		ref.Episode = uint32(episode)
		if idx := re.SubexpIndex("season"); idx >= 0 && match[idx] != "" {
			season, err := strconv.ParseUint(match[idx], 10, 32)
			if err != nil {
				continue
			}
			ref.Season = uint32(season)
		}
		if ref.Title == "" {
			continue
		}
		return ref, nil
	}
	return Ref{}, services.Wrap(services.ErrValidation, "episode", "parse", fmt.Sprintf("%q does not look like an episode", base), nil)
}

func cleanTitle(raw string) string {
	raw = strings.NewReplacer(".", " ", "_", " ").Replace(raw)
	return strings.Join(strings.Fields(raw), " ")
}
