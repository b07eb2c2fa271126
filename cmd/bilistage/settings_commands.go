package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bilistage/internal/catalog"
	"bilistage/internal/timeline"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Prepare local indexes",
	}
	initCmd.AddCommand(&cobra.Command{
		Use:   "part",
		Short: "Index the filler clips under the filler directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			reqCtx := ctx.requestContext(cmd)
			groups, err := svc.InitFiller(reqCtx)
			if err != nil {
				return ctx.logFailure(reqCtx, "init part", err)
			}
			rows := make([][]string, 0, len(groups))
			for _, g := range groups {
				var total float64
				for _, c := range g.Clips {
					total += c.DurationSeconds
				}
				rows = append(rows, []string{g.Name, strconv.Itoa(len(g.Clips)), timeline.FormatClock(total)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Clips", "Total"}, rows, []columnAlignment{alignLeft, alignRight, alignRight}))
			return nil
		},
	})
	return initCmd
}

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect per-title media settings",
	}

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List media settings documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			names, err := svc.Catalog().List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No media settings in "+svc.Catalog().Dir())
				return nil
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				settings, err := svc.Catalog().Load(name)
				if err != nil {
					rows = append(rows, []string{name, "", "invalid: " + err.Error()})
					continue
				}
				rows = append(rows, []string{name, settings.Title, settings.Type})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Title", "Type"}, rows, nil))
			return nil
		},
	})

	var ep episodeFlags
	showCmd := &cobra.Command{
		Use:   "show <name|title>",
		Short: "Show the settings resolved for one episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			ref := episodeRef(cfg, args[0], ep)
			settings, err := svc.ResolveRef(&ref)
			if err != nil {
				return err
			}
			rows := [][]string{
				{"name", settings.Name},
				{"title", ref.Title},
				{"type", ref.Type},
				{"full title", ref.FullTitle()},
				{"source", ref.SourcePath(cfg.Paths.LibraryDir)},
			}
			rows = append(rows, resolvedRows(settings, ref.Season, ref.Episode)...)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows, nil))
			return nil
		},
	}
	ep.register(showCmd)
	settingsCmd.AddCommand(showCmd)
	return settingsCmd
}

// resolvedRows lists the cascade result of every settings kind for one
// episode. Kinds with no matching overlay are shown as unset.
func resolvedRows(m *catalog.MediaSettings, season, episode uint32) [][]string {
	var rows [][]string
	if split, err := m.Split(season, episode); err == nil {
		rows = append(rows,
			[]string{"split.count", intValue(split.Count)},
			[]string{"split.exclude", intervals(split.Exclude())},
			[]string{"split.suffix_parts", strings.Join(split.SuffixParts, ", ")},
			[]string{"split.quick", boolValue(split.Quick)},
		)
	} else {
		rows = append(rows, []string{"split", "unset"})
	}
	if ep, ok := m.Episode(season, episode); ok {
		rows = append(rows,
			[]string{"episode.title", catalog.Str(ep.Title, "")},
			[]string{"episode.exclude", intervals(ep.Exclude())},
		)
	}
	if up, err := m.Upload(season, episode); err == nil {
		rows = append(rows,
			[]string{"upload.tag", catalog.Str(up.Tag, "")},
			[]string{"upload.tid", intValue(up.TID)},
			[]string{"upload.limit", intValue(up.Limit)},
			[]string{"upload.dtime", catalog.Str(up.Dtime, "")},
		)
	} else {
		rows = append(rows, []string{"upload", "unset"})
	}
	if tr, ok := m.Transcode(season, episode); ok {
		rows = append(rows,
			[]string{"trans.action", catalog.Str(tr.Action, "")},
			[]string{"trans.library_dir", catalog.Str(tr.LibraryDir, "")},
		)
	}
	for _, mark := range m.Marks {
		rows = append(rows, []string{"mark." + mark.ID, mark.Title})
	}
	return rows
}

func intValue(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func boolValue(v *bool) string {
	if v == nil {
		return ""
	}
	return yesNo(*v)
}

func intervals(list []timeline.Interval) string {
	parts := make([]string, len(list))
	for i, iv := range list {
		parts[i] = iv.String()
	}
	return strings.Join(parts, " ")
}
