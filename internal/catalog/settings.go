package catalog

import (
	"bilistage/internal/cascade"
	"bilistage/internal/timeline"
)

// DefaultType is the library category used when a document omits type.
const DefaultType = "电视剧"

// MovieType is the category assigned to movie-style season numbers.
const MovieType = "电影"

// MediaSettings is one title's settings document.
type MediaSettings struct {
	Name         string              `toml:"name"`
	Title        string              `toml:"title"`
	Type         string              `toml:"type"`
	Spliters     []SplitSettings     `toml:"spliters"`
	Episodes     []EpisodeSettings   `toml:"episodes"`
	Uploaders    []UploadSettings    `toml:"uploaders"`
	Transcoders  []TranscodeSettings `toml:"transcoders"`
	MarkSettings []MarkSettings      `toml:"mark_settings"`
	Marks        []Mark              `toml:"marks"`

	path string
}

// Path returns the file the document was loaded from.
func (m *MediaSettings) Path() string {
	return m.path
}

// SplitSettings configures the split workflow.
type SplitSettings struct {
	cascade.Selector
	Count             *int        `toml:"count,omitempty"`
	ExcludeSegments   [][2]uint64 `toml:"exclude_segments,omitempty"`
	SuffixParts       []string    `toml:"suffix_parts,omitempty"`
	ScreenshotSeconds []uint64    `toml:"screenshot_seconds,omitempty"`
	Quick             *bool       `toml:"quick,omitempty"`
}

func (s SplitSettings) Scope() cascade.Selector { return s.Selector }

func (s SplitSettings) Merge(o SplitSettings) SplitSettings {
	s.Selector = o.Selector
	s.Count = cascade.Set(s.Count, o.Count)
	s.ExcludeSegments = cascade.SetSlice(s.ExcludeSegments, o.ExcludeSegments)
	s.SuffixParts = cascade.SetSlice(s.SuffixParts, o.SuffixParts)
	s.ScreenshotSeconds = cascade.SetSlice(s.ScreenshotSeconds, o.ScreenshotSeconds)
	s.Quick = cascade.Set(s.Quick, o.Quick)
	return s
}

// Exclude returns the exclude list as intervals.
func (s SplitSettings) Exclude() []timeline.Interval { return timeline.FromPairs(s.ExcludeSegments) }

// PartCount returns the configured count, or zero.
func (s SplitSettings) PartCount() int {
	if s.Count == nil {
		return 0
	}
	return *s.Count
}

// EpisodeSettings carries per-episode metadata and edits.
type EpisodeSettings struct {
	cascade.Selector
	Title           *string     `toml:"title,omitempty"`
	ExcludeSegments [][2]uint64 `toml:"exclude_segments,omitempty"`
}

func (s EpisodeSettings) Scope() cascade.Selector { return s.Selector }

func (s EpisodeSettings) Merge(o EpisodeSettings) EpisodeSettings {
	s.Selector = o.Selector
	s.Title = cascade.Set(s.Title, o.Title)
	s.ExcludeSegments = cascade.SetSlice(s.ExcludeSegments, o.ExcludeSegments)
	return s
}

// Exclude returns the exclude list as intervals.
func (s EpisodeSettings) Exclude() []timeline.Interval { return timeline.FromPairs(s.ExcludeSegments) }

// UploadSettings holds uploader flags.
type UploadSettings struct {
	cascade.Selector
	Dtime *string `toml:"dtime,omitempty"`
	Tag   *string `toml:"tag,omitempty"`
	Desc  *string `toml:"desc,omitempty"`
	Cover *string `toml:"cover,omitempty"`
	TID   *int    `toml:"tid,omitempty"`
	Limit *int    `toml:"limit,omitempty"`
}

func (s UploadSettings) Scope() cascade.Selector { return s.Selector }

func (s UploadSettings) Merge(o UploadSettings) UploadSettings {
	s.Selector = o.Selector
	s.Dtime = cascade.Set(s.Dtime, o.Dtime)
	s.Tag = cascade.Set(s.Tag, o.Tag)
	s.Desc = cascade.Set(s.Desc, o.Desc)
	s.Cover = cascade.Set(s.Cover, o.Cover)
	s.TID = cascade.Set(s.TID, o.TID)
	s.Limit = cascade.Set(s.Limit, o.Limit)
	return s
}

// TranscodeSettings configures the trans workflow.
type TranscodeSettings struct {
	cascade.Selector
	Action     *string `toml:"action,omitempty"`
	Quick      *bool   `toml:"quick,omitempty"`
	LibraryDir *string `toml:"library_dir,omitempty"`
}

func (s TranscodeSettings) Scope() cascade.Selector { return s.Selector }

func (s TranscodeSettings) Merge(o TranscodeSettings) TranscodeSettings {
	s.Selector = o.Selector
	s.Action = cascade.Set(s.Action, o.Action)
	s.Quick = cascade.Set(s.Quick, o.Quick)
	s.LibraryDir = cascade.Set(s.LibraryDir, o.LibraryDir)
	return s
}

// MarkSettings are defaults shared by marks; a mark's own selector picks the tier.
type MarkSettings struct {
	cascade.Selector
	SuffixParts   []string `toml:"suffix_parts,omitempty"`
	AppendFiller  *bool    `toml:"append_filler,omitempty"`
	Transcode1080 *bool    `toml:"transcode_1080,omitempty"`
	Quick         *bool    `toml:"quick,omitempty"`
}

func (s MarkSettings) Scope() cascade.Selector { return s.Selector }

func (s MarkSettings) Merge(o MarkSettings) MarkSettings {
	s.Selector = o.Selector
	s.SuffixParts = cascade.SetSlice(s.SuffixParts, o.SuffixParts)
	s.AppendFiller = cascade.Set(s.AppendFiller, o.AppendFiller)
	s.Transcode1080 = cascade.Set(s.Transcode1080, o.Transcode1080)
	s.Quick = cascade.Set(s.Quick, o.Quick)
	return s
}

// Mark defines one compilation: its sources and optional trimming, filler
// and transcoding.
type Mark struct {
	cascade.Selector
	ID            string      `toml:"id"`
	Title         string      `toml:"title"`
	Source        string      `toml:"source,omitempty"`
	Parts         []string    `toml:"parts,omitempty"`
	Include       [][2]uint64 `toml:"include,omitempty"`
	Exclude       [][2]uint64 `toml:"exclude,omitempty"`
	SuffixParts   []string    `toml:"suffix_parts,omitempty"`
	AppendFiller  *bool       `toml:"append_filler,omitempty"`
	Transcode1080 *bool       `toml:"transcode_1080,omitempty"`
	Quick         *bool       `toml:"quick,omitempty"`
}

// Overlay converts the mark's own flags into a MarkSettings overlay so they
// merge over the resolved defaults.
func (m Mark) Overlay() MarkSettings {
	return MarkSettings{
		Selector:      m.Selector,
		SuffixParts:   m.SuffixParts,
		AppendFiller:  m.AppendFiller,
		Transcode1080: m.Transcode1080,
		Quick:         m.Quick,
	}
}

// Flag dereferences an optional boolean.
func Flag(v *bool) bool {
	return v != nil && *v
}

// Str dereferences an optional string, returning fallback when unset.
func Str(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

// Int dereferences an optional int, returning fallback when unset.
func Int(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
