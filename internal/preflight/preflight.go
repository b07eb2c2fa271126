package preflight

import (
	"context"

	"bilistage/internal/config"
	"bilistage/internal/deps"
	"bilistage/internal/toolchain"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional"`
	Detail   string `json:"detail,omitempty"`
}

// RunAll executes every filesystem check for cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir),
		CheckDirectoryAccess("Media settings", cfg.Paths.MediaSettingsDir),
		CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir),
	}

	filler := CheckDirectoryAccess("Filler clips", cfg.Paths.FillerDir)
	filler.Optional = true
	index := CheckFile("Filler index", cfg.Paths.FillerIndex)
	index.Optional = true
	credential := CheckCredential(cfg)
	credential.Optional = true

	return append(results, filler, index, credential)
}

// CheckSystemDeps evaluates the external binaries named in cfg.
func CheckSystemDeps(ctx context.Context, cfg *config.Config, runner toolchain.Runner) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Toolchain.FFmpeg,
			Description: "Required for cutting, joining and transcoding",
			VersionArgs: []string{"-hide_banner", "-version"},
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Toolchain.FFprobe,
			Description: "Required for media inspection",
			VersionArgs: []string{"-hide_banner", "-version"},
		},
		{
			Name:        "Uploader",
			Command:     cfg.Toolchain.Uploader,
			Description: "Required for upload and upload-file",
			Optional:    true,
			VersionArgs: []string{"--version"},
		},
	}
	return deps.CheckBinaries(ctx, runner, requirements)
}

// Failed returns the non-optional results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			out = append(out, r)
		}
	}
	return out
}
