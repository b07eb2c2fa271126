package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bilistage/internal/deps"
	"bilistage/internal/preflight"
	"bilistage/internal/upload"
)

const statusRecentUploads = 5

type statusReport struct {
	Config  string             `json:"config_home"`
	Tools   []deps.Status      `json:"tools"`
	Checks  []preflight.Result `json:"checks"`
	Uploads []upload.Entry     `json:"recent_uploads"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check external tools, directories and recent uploads",
		Args:  cobra.NoArgs,
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
			report := statusReport{
				Config: cfg.Home,
				Tools:  preflight.CheckSystemDeps(reqCtx, cfg, ctx.runner),
				Checks: preflight.RunAll(reqCtx, cfg),
			}
			report.Uploads, err = svc.RecentUploads(reqCtx, statusRecentUploads)
			if err != nil {
				return err
			}
			if asJSON {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				printStatus(cmd, report)
			}

			if missing := deps.Missing(report.Tools); len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) unavailable", len(missing))
			}
			if failed := preflight.Failed(report.Checks); len(failed) > 0 {
				return fmt.Errorf("%d required check(s) failed", len(failed))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func printStatus(cmd *cobra.Command, report statusReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintln(out, renderSectionHeader("Tools", colorize))
	for _, tool := range report.Tools {
		kind, message := statusOK, tool.Version
		if !tool.Available {
			kind, message = statusError, tool.Detail
			if tool.Optional {
				kind = statusWarn
			}
		}
		fmt.Fprintln(out, renderStatusLine(tool.Name, kind, message, colorize))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSectionHeader("Directories", colorize))
	for _, check := range report.Checks {
		kind := statusOK
		if !check.Passed {
			kind = statusError
			if check.Optional {
				kind = statusWarn
			}
		}
		fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSectionHeader("Recent uploads", colorize))
	if len(report.Uploads) == 0 {
		fmt.Fprintln(out, renderStatusLine("History", statusInfo, "no uploads yet", colorize))
		return
	}
	now := time.Now()
	rows := make([][]string, 0, len(report.Uploads))
	for _, e := range report.Uploads {
		rows = append(rows, []string{e.VideoID, string(e.Kind), e.Path, formatAge(now, e.UploadedAt)})
	}
	fmt.Fprintln(out, renderTable([]string{"Video", "Kind", "File", "When"}, rows, nil))
}
