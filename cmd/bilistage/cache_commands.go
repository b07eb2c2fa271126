package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bilistage/internal/cache"
)

const defaultCacheMaxAge = 7 * 24 * time.Hour

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clean run directories",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List run directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dirs, err := cache.List(cfg.Paths.CacheDir)
			if err != nil {
				return fmt.Errorf("list cache: %w", err)
			}
			if len(dirs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty")
				return nil
			}
			now := time.Now()
			var total int64
			rows := make([][]string, 0, len(dirs))
			for _, d := range dirs {
				total += d.Size
				rows = append(rows, []string{d.Name, formatBytes(d.Size), formatAge(now, d.ModTime)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Run", "Size", "Modified"}, rows, []columnAlignment{alignLeft, alignRight, alignRight}))
			fmt.Fprintf(out, "%d run(s), %s\n", len(dirs), formatBytes(total))
			return nil
		},
	})

	var maxAge time.Duration
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove run directories older than --max-age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			result := cache.Clean(ctx.requestContext(cmd), cfg.Paths.CacheDir, maxAge, logger)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %d run director%s\n", len(result.Removed), plural(len(result.Removed), "y", "ies"))
			for _, failure := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", failure.Path, failure.Error)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d run directories could not be removed", len(result.Errors))
			}
			return nil
		},
	}
	cleanCmd.Flags().DurationVar(&maxAge, "max-age", defaultCacheMaxAge, "Remove runs last modified longer ago than this")
	cacheCmd.AddCommand(cleanCmd)
	return cacheCmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
