package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bilistage/internal/config"
	"bilistage/internal/episode"
	"bilistage/internal/timeline"
)

type episodeFlags struct {
	season  uint32
	episode uint32
}

func (f *episodeFlags) register(cmd *cobra.Command) {
	cmd.Flags().Uint32VarP(&f.season, "season", "s", 1, "Season number")
	cmd.Flags().Uint32VarP(&f.episode, "episode", "e", 0, "Episode number")
}

// episodeRef builds a ref from a positional title argument. An argument that
// names a media settings file is taken as the settings name, anything else
// as a display title to look up.
func episodeRef(cfg *config.Config, arg string, flags episodeFlags) episode.Ref {
	arg = strings.TrimSpace(arg)
	ref := episode.Ref{Season: flags.season, Episode: flags.episode}
	if _, err := os.Stat(cfg.MediaSettingsPath(arg)); err == nil {
		ref.Name = arg
	} else {
		ref.Title = arg
	}
	return ref
}

// parsePairs turns "start,end" arguments into intervals.
func parsePairs(values []string) ([]timeline.Interval, error) {
	return timeline.ParseIntervals(values)
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	exp := int(math.Log(float64(size)) / math.Log(unit))
	if exp > 4 {
		exp = 4
	}
	value := float64(size) / math.Pow(unit, float64(exp))
	return fmt.Sprintf("%.1f %ciB", value, "KMGT"[exp-1])
}

func formatAge(now, then time.Time) string {
	d := now.Sub(then).Round(time.Minute)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func printLines(cmd *cobra.Command, lines ...string) {
	out := cmd.OutOrStdout()
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}
