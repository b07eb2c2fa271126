package workflow

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"

	"bilistage/internal/catalog"
	"bilistage/internal/config"
	"bilistage/internal/episode"
	"bilistage/internal/filler"
	"bilistage/internal/logging"
	"bilistage/internal/services"
	"bilistage/internal/toolchain"
	"bilistage/internal/upload"
	"bilistage/internal/video"
)

// Service runs the jobs against one configuration.
type Service struct {
	cfg      *config.Config
	tools    video.Tools
	catalog  *catalog.Catalog
	filler   *filler.Index
	uploader *upload.Client
	patterns []*regexp.Regexp
	logger   *slog.Logger
}

// New wires a Service. A nil runner executes the real binaries.
func New(cfg *config.Config, runner toolchain.Runner, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "init", "configuration is required", nil)
	}
	if runner == nil {
		runner = toolchain.ExecRunner{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	patterns, err := episode.CompilePatterns(cfg.Episode.Regexes)
	if err != nil {
		return nil, err
	}
	tools := video.NewTools(cfg, runner, logger)
	return &Service{
		cfg:     cfg,
		tools:   tools,
		catalog: catalog.New(cfg.Paths.MediaSettingsDir),
		filler: &filler.Index{
			Root:       cfg.Paths.FillerDir,
			Path:       cfg.Paths.FillerIndex,
			MaxSeconds: cfg.Filler.MaxSeconds,
			Prober:     tools,
			Logger:     logger,
		},
		uploader: &upload.Client{
			Runner:     runner,
			Binary:     cfg.Toolchain.Uploader,
			Credential: cfg.CredentialPath(),
			Logger:     logger,
		},
		patterns: patterns,
		logger:   logger,
	}, nil
}

// Tools exposes the video primitives the service was built with.
func (s *Service) Tools() video.Tools { return s.tools }

// Catalog exposes the title catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

func (s *Service) log(ctx context.Context, component string) *slog.Logger {
	return logging.WithContext(ctx, logging.NewComponentLogger(s.logger, component))
}

// ResolveRef loads the settings document for ref, by name when set and by
// title otherwise, and completes ref from it. A title lookup also matches
// document names and replaces ref.Title with the document's title.
func (s *Service) ResolveRef(ref *episode.Ref) (*catalog.MediaSettings, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	var (
		settings *catalog.MediaSettings
		err      error
	)
	if ref.Name != "" {
		settings, err = s.catalog.Load(ref.Name)
	} else {
		settings, err = s.catalog.FindByTitle(ref.Title)
		if err == nil && settings.Title != "" {
			ref.Title = settings.Title
		}
	}
	if err != nil {
		return nil, err
	}
	ref.FillFromCatalog(settings)
	if ref.Title == "" {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "resolve", fmt.Sprintf("%s has no title", settings.Path()), nil)
	}
	return settings, nil
}

// InitFiller rebuilds the filler index from the configured groups.
func (s *Service) InitFiller(ctx context.Context) ([]filler.Group, error) {
	return s.filler.Init(ctx, s.cfg.Filler.Names)
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func cutMode(quick bool) video.CutMode {
	if quick {
		return video.CutFast
	}
	return video.CutPrecise
}
