package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// HomeEnv names the environment variable that relocates the configuration home.
const HomeEnv = "BILISTAGE_CONFIG_HOME"

// Paths contains directory and file locations.
type Paths struct {
	CacheDir         string `toml:"cache_dir"`
	MediaSettingsDir string `toml:"media_settings_dir"`
	CookieDir        string `toml:"cookie_dir"`
	LibraryDir       string `toml:"library_dir"`
	LogDir           string `toml:"log_dir"`
	FillerDir        string `toml:"filler_dir"`
	FillerIndex      string `toml:"filler_index"`
	HistoryDB        string `toml:"history_db"`
}

// Toolchain names the external binaries every pipeline stage shells out to.
type Toolchain struct {
	FFmpeg   string `toml:"ffmpeg"`
	FFprobe  string `toml:"ffprobe"`
	Uploader string `toml:"uploader"`
}

// Upload contains defaults for the upload collaborator.
type Upload struct {
	Credential string `toml:"credential"`
	Limit      int    `toml:"limit"`
	TID        int    `toml:"tid"`
}

// Filler controls the filler clip index.
type Filler struct {
	Names      []string `toml:"names"`
	MaxSeconds float64  `toml:"max_seconds"`
}

// Episode contains the filename patterns used to recognise episodes.
type Episode struct {
	Regexes []string `toml:"regexes"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for bilistage.
//
// The value is built once at the command boundary and handed to every
// component constructor; nothing below cmd/ looks configuration up on its own.
type Config struct {
	// Home is the resolved configuration home; it is never read from the file.
	Home string `toml:"-"`

	Paths     Paths     `toml:"paths"`
	Toolchain Toolchain `toml:"toolchain"`
	Upload    Upload    `toml:"upload"`
	Filler    Filler    `toml:"filler"`
	Episode   Episode   `toml:"episode"`
	Logging   Logging   `toml:"logging"`
}

// HomeDir resolves the configuration home from BILISTAGE_CONFIG_HOME, falling
// back to ~/.bilistage.
func HomeDir() (string, error) {
	home := strings.TrimSpace(os.Getenv(HomeEnv))
	if home == "" {
		home = defaultHome
	}
	return expandPath(home)
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	home, err := HomeDir()
	if err != nil {
		return nil, "", false, err
	}
	cfg.Home = home

	resolvedPath, exists, err := resolveConfigPath(path, home)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path, home string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join(home, configFileName)
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// EnsureDirectories creates the directories every command writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.MediaSettingsDir, c.Paths.CookieDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CredentialPath returns the uploader credential (cookie) file.
func (c *Config) CredentialPath() string {
	if filepath.IsAbs(c.Upload.Credential) {
		return c.Upload.Credential
	}
	return filepath.Join(c.Paths.CookieDir, c.Upload.Credential)
}

// MediaSettingsPath returns the per-title settings file for name.
func (c *Config) MediaSettingsPath(name string) string {
	return filepath.Join(c.Paths.MediaSettingsDir, name+".toml")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
