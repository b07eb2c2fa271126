// Package cascade resolves layered per-title settings.
//
// A settings list mixes three tiers of overlays: defaults (no selector),
// per-season (season only) and per-episode (season and episode). Resolve
// merges the tiers that match a season/episode pair from least to most
// specific, so a field set on a more specific tier wins and an unset field
// never clears an inherited value. The same algorithm serves every settings
// kind through the Overlay constraint.
package cascade

import (
	"errors"
	"fmt"

	"bilistage/internal/services"
)

// ErrNoMatchingOverlay reports that no tier matched the requested episode.
var ErrNoMatchingOverlay = fmt.Errorf("no matching settings: %w", services.ErrConfiguration)

// Selector narrows an overlay to a season or a single episode. Both nil
// means the overlay is a default.
type Selector struct {
	Season  *uint32 `toml:"season,omitempty"`
	Episode *uint32 `toml:"episode,omitempty"`
}

// Tier is the specificity of a selector.
type Tier int

const (
	TierDefault Tier = iota
	TierSeason
	TierEpisode
	// TierInvalid marks an episode selector without a season; it never matches.
	TierInvalid
)

func (t Tier) String() string {
	switch t {
	case TierDefault:
		return "default"
	case TierSeason:
		return "season"
	case TierEpisode:
		return "episode"
	default:
		return "invalid"
	}
}

// Tier classifies s.
func (s Selector) Tier() Tier {
	switch {
	case s.Season == nil && s.Episode == nil:
		return TierDefault
	case s.Season != nil && s.Episode == nil:
		return TierSeason
	case s.Season != nil && s.Episode != nil:
		return TierEpisode
	default:
		return TierInvalid
	}
}

// Matches reports whether s applies to season/episode.
func (s Selector) Matches(season, episode uint32) bool {
	switch s.Tier() {
	case TierDefault:
		return true
	case TierSeason:
		return *s.Season == season
	case TierEpisode:
		return *s.Season == season && *s.Episode == episode
	default:
		return false
	}
}

// Validate rejects selectors that can never match.
func (s Selector) Validate() error {
	if s.Tier() == TierInvalid {
		return errors.New("episode selector requires a season")
	}
	return nil
}

// Overlay is implemented by every settings kind. Merge returns the receiver
// with every field that is set on other copied over it.
type Overlay[T any] interface {
	Scope() Selector
	Merge(other T) T
}

// Resolve merges the overlays that match season/episode in tier order. Within
// a tier, overlays merge in list order. ok is false only when no overlay
// matched.
func Resolve[T Overlay[T]](season, episode uint32, overlays []T) (resolved T, ok bool) {
	for tier := TierDefault; tier <= TierEpisode; tier++ {
		for _, overlay := range overlays {
			scope := overlay.Scope()
			if scope.Tier() != tier || !scope.Matches(season, episode) {
				continue
			}
			if !ok {
				resolved, ok = overlay, true
				continue
			}
			resolved = resolved.Merge(overlay)
		}
	}
	return resolved, ok
}

// MustResolve is Resolve returning ErrNoMatchingOverlay when nothing matched.
func MustResolve[T Overlay[T]](kind string, season, episode uint32, overlays []T) (T, error) {
	resolved, ok := Resolve(season, episode, overlays)
	if !ok {
		return resolved, fmt.Errorf("%s settings for S%02dE%02d: %w", kind, season, episode, ErrNoMatchingOverlay)
	}
	return resolved, nil
}

// Set returns override when it is non-nil, otherwise base.
func Set[V any](base, override *V) *V {
	if override != nil {
		return override
	}
	return base
}

// SetSlice returns override when it is non-nil, otherwise base. An explicitly
// empty list still overrides.
func SetSlice[V any](base, override []V) []V {
	if override != nil {
		return override
	}
	return base
}

// Uint32 returns a pointer to v.
func Uint32(v uint32) *uint32 {
	return &v
}
