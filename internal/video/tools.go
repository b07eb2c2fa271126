package video

import (
	"context"
	"log/slog"
	"strings"

	"bilistage/internal/config"
	"bilistage/internal/logging"
	"bilistage/internal/toolchain"
)

// Tools carries the collaborators every operation in this package needs.
type Tools struct {
	Runner  toolchain.Runner
	FFmpeg  string
	FFprobe string
	Logger  *slog.Logger
}

// NewTools builds Tools from the toolchain section of cfg.
func NewTools(cfg *config.Config, runner toolchain.Runner, logger *slog.Logger) Tools {
	tools := Tools{Runner: runner, Logger: logger}
	if cfg != nil {
		tools.FFmpeg = cfg.Toolchain.FFmpeg
		tools.FFprobe = cfg.Toolchain.FFprobe
	}
	return tools.withDefaults()
}

func (t Tools) withDefaults() Tools {
	if t.Runner == nil {
		t.Runner = toolchain.ExecRunner{}
	}
	if strings.TrimSpace(t.FFmpeg) == "" {
		t.FFmpeg = "ffmpeg"
	}
	if strings.TrimSpace(t.FFprobe) == "" {
		t.FFprobe = "ffprobe"
	}
	if t.Logger == nil {
		t.Logger = logging.NewNop()
	}
	return t
}

func (t Tools) logger(ctx context.Context, component string) *slog.Logger {
	return logging.WithContext(ctx, logging.NewComponentLogger(t.Logger, component))
}

// ffmpeg runs the ffmpeg binary with the standard non-interactive prefix.
func (t Tools) ffmpeg(ctx context.Context, args ...string) error {
	t = t.withDefaults()
	full := append([]string{"-hide_banner", "-nostdin", "-y"}, args...)
	t.logger(ctx, "ffmpeg").Debug("running ffmpeg", logging.String("args", strings.Join(full, " ")))
	_, err := t.Runner.Run(ctx, t.FFmpeg, full...)
	return err
}
