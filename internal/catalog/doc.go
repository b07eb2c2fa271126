// Package catalog loads the per-title media settings files that live under
// the media settings directory, one TOML document per title.
//
// A document names the title and carries lists of layered overlays for
// splitting, episode editing, uploading, transcoding and marking, plus the
// mark definitions themselves. Overlay lists are resolved per season and
// episode with the cascade package. Exclude and include interval lists are
// validated when the document is loaded so downstream planning can trust
// them.
package catalog
