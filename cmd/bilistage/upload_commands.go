package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bilistage/internal/upload"
	"bilistage/internal/workflow"
)

func registerUploadFlags(cmd *cobra.Command, flags *upload.Flags) {
	cmd.Flags().StringVar(&flags.Tag, "tag", "", "Comma separated tags")
	cmd.Flags().StringVar(&flags.Desc, "desc", "", "Video description")
	cmd.Flags().StringVar(&flags.Dtime, "dtime", "", "Scheduled publish time ("+upload.DtimeLayout+")")
	cmd.Flags().StringVar(&flags.Cover, "cover", "", "Cover image")
	cmd.Flags().IntVar(&flags.TID, "tid", 0, "Category id")
	cmd.Flags().IntVar(&flags.Limit, "limit", 0, "Concurrent upload threads")
}

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var ep episodeFlags
	var flags upload.Flags

	cmd := &cobra.Command{
		Use:   "upload <name|title>",
		Short: "Upload the parts of an episode's latest split as one video",
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
			result, err := svc.Upload(reqCtx, workflow.UploadRequest{Ref: episodeRef(cfg, args[0], ep), Flags: flags})
			if err != nil {
				if result.VideoID != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Partial upload %s; re-run to append the remaining parts\n", result.VideoID)
				}
				return ctx.logFailure(reqCtx, "upload", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Uploaded %d file(s) from %s\n", len(result.Files), result.RunDir)
			fmt.Fprintf(out, "Video: %s\n", result.VideoID)
			return nil
		},
	}
	ep.register(cmd)
	registerUploadFlags(cmd, &flags)
	return cmd
}

func newUploadFileCommand(ctx *commandContext) *cobra.Command {
	var flags upload.Flags

	cmd := &cobra.Command{
		Use:   "upload-file <path>",
		Short: "Upload one file as a new video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			reqCtx := ctx.requestContext(cmd)
			videoID, err := svc.UploadFile(reqCtx, args[0], flags)
			if err != nil {
				return ctx.logFailure(reqCtx, "upload-file", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Video: %s\n", videoID)
			return nil
		},
	}
	registerUploadFlags(cmd, &flags)
	return cmd
}
