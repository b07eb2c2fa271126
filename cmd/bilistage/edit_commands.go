package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bilistage/internal/timeline"
	"bilistage/internal/workflow"
)

// quickUsage describes fast cut mode: the input is opened first and the copy
// starts at the nearest keyframe.
const quickUsage = "Open the input first and stream-copy from the nearest keyframe (faster, boundaries snap to keyframes)"

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	var output string
	var quick bool

	cmd := &cobra.Command{
		Use:   "remove <path> <start,end>...",
		Short: "Cut the given second ranges out of a video",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exclude, err := parsePairs(args[1:])
			if err != nil {
				return err
			}
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			reqCtx := ctx.requestContext(cmd)
			out, err := svc.Remove(reqCtx, workflow.RemoveRequest{
				Source:      args[0],
				Destination: output,
				Exclude:     exclude,
				Quick:       quick,
			})
			if err != nil {
				return ctx.logFailure(reqCtx, "remove", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default <name>-remove.mp4)")
	cmd.Flags().BoolVarP(&quick, "quick", "q", false, quickUsage)
	return cmd
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan <path> <start,end>...",
		Short: "Show the ranges a remove would keep",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exclude, err := parsePairs(args[1:])
			if err != nil {
				return err
			}
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			plan, err := svc.Plan(ctx.requestContext(cmd), args[0], exclude)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, plan)
			}

			rows := make([][]string, 0, len(plan.Keep))
			for i, keep := range plan.Keep {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					timeline.FormatClock(float64(keep.Start)),
					timeline.FormatClock(float64(keep.End)),
					timeline.FormatClock(float64(keep.Duration())),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s, %s)\n", plan.Media.Path, timeline.FormatClock(plan.Media.DurationSeconds), plan.Media.Codec)
			fmt.Fprintln(out, renderTable([]string{"#", "Start", "End", "Length"}, rows, []columnAlignment{alignRight, alignRight, alignRight, alignRight}))
			fmt.Fprintf(out, "Keeping %s of %s\n",
				timeline.FormatClock(float64(timeline.Total(plan.Keep))),
				timeline.FormatClock(plan.Media.DurationSeconds))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")
	return cmd
}

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var flags episodeFlags
	var count int
	var alias string
	var quick bool
	var useCache bool

	cmd := &cobra.Command{
		Use:   "split <name|title>",
		Short: "Split an episode into parts with filler and screenshots",
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
			reqCtx := ctx.requestContext(cmd)
			result, err := svc.Split(reqCtx, workflow.SplitRequest{
				Ref:      episodeRef(cfg, args[0], flags),
				Alias:    alias,
				Count:    count,
				Quick:    quick,
				UseCache: useCache,
			})
			if err != nil {
				return ctx.logFailure(reqCtx, "split", err)
			}
			printLines(cmd, "Run directory: "+result.RunDir)
			printLines(cmd, result.Parts...)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of parts (default from settings)")
	cmd.Flags().StringVarP(&alias, "alias", "a", "", "Output name prefix")
	cmd.Flags().BoolVarP(&quick, "quick", "q", false, quickUsage)
	cmd.Flags().BoolVar(&useCache, "with-cache", false, "Reuse the packet streams of an earlier split")
	return cmd
}

func newMarkCommand(ctx *commandContext) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "mark <name> <id>",
		Short: "Build the compilation defined by a mark",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			reqCtx := ctx.requestContext(cmd)
			result, err := svc.Mark(reqCtx, workflow.MarkRequest{Name: args[0], ID: args[1], Title: title})
			if err != nil {
				return ctx.logFailure(reqCtx, "mark", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Output name (default the mark's title)")
	return cmd
}

func newTransCommand(ctx *commandContext) *cobra.Command {
	var actionName string
	var output string
	var mediaType string
	var quick bool

	names := make([]string, 0, len(workflow.Actions))
	for _, a := range workflow.Actions {
		names = append(names, a.String())
	}

	cmd := &cobra.Command{
		Use:   "trans <path>",
		Short: "Convert a file to mp3, mp4 or a 1080p library episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := workflow.ParseAction(actionName)
			if err != nil {
				return err
			}
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			reqCtx := ctx.requestContext(cmd)
			outputs, err := svc.Transcode(reqCtx, workflow.TranscodeRequest{
				Source:      args[0],
				Action:      action,
				Destination: output,
				Type:        mediaType,
				Quick:       quick,
			})
			if err != nil {
				return ctx.logFailure(reqCtx, "trans", err)
			}
			printLines(cmd, outputs...)
			return nil
		},
	}
	cmd.Flags().StringVarP(&actionName, "action", "a", "", "One of "+strings.Join(names, ", ")+" (default from settings)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file")
	cmd.Flags().StringVar(&mediaType, "type", "", "Library category for 1080p output")
	cmd.Flags().BoolVarP(&quick, "quick", "q", false, "Keyframe-aligned stream-copy cuts when removing excluded ranges")
	return cmd
}
