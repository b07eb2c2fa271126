package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeToolchain()
	c.normalizeUpload()
	c.normalizeFiller()
	c.normalizeEpisode()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	defaults := map[*string]string{
		&c.Paths.CacheDir:         filepath.Join(c.Home, "cache"),
		&c.Paths.MediaSettingsDir: filepath.Join(c.Home, "media"),
		&c.Paths.CookieDir:        filepath.Join(c.Home, "cookie"),
		&c.Paths.LogDir:           filepath.Join(c.Home, "logs"),
		&c.Paths.FillerDir:        filepath.Join(c.Home, "part"),
		&c.Paths.FillerIndex:      filepath.Join(c.Home, "part.json"),
		&c.Paths.HistoryDB:        filepath.Join(c.Home, "uploads.db"),
		&c.Paths.LibraryDir:       defaultLibraryDir,
	}
	for field, fallback := range defaults {
		if strings.TrimSpace(*field) == "" {
			*field = fallback
		}
	}

	fields := []struct {
		key   string
		value *string
	}{
		{"paths.cache_dir", &c.Paths.CacheDir},
		{"paths.media_settings_dir", &c.Paths.MediaSettingsDir},
		{"paths.cookie_dir", &c.Paths.CookieDir},
		{"paths.library_dir", &c.Paths.LibraryDir},
		{"paths.log_dir", &c.Paths.LogDir},
		{"paths.filler_dir", &c.Paths.FillerDir},
		{"paths.filler_index", &c.Paths.FillerIndex},
		{"paths.history_db", &c.Paths.HistoryDB},
	}
	for _, field := range fields {
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeToolchain() {
	c.Toolchain.FFmpeg = strings.TrimSpace(c.Toolchain.FFmpeg)
	if c.Toolchain.FFmpeg == "" {
		c.Toolchain.FFmpeg = defaultFFmpeg
	}
	c.Toolchain.FFprobe = strings.TrimSpace(c.Toolchain.FFprobe)
	if c.Toolchain.FFprobe == "" {
		c.Toolchain.FFprobe = defaultFFprobe
	}
	c.Toolchain.Uploader = strings.TrimSpace(c.Toolchain.Uploader)
	if value, ok := os.LookupEnv("BILISTAGE_UPLOADER"); ok && strings.TrimSpace(value) != "" {
		c.Toolchain.Uploader = strings.TrimSpace(value)
	}
	if c.Toolchain.Uploader == "" {
		c.Toolchain.Uploader = defaultUploader
	}
}

func (c *Config) normalizeUpload() {
	c.Upload.Credential = strings.TrimSpace(c.Upload.Credential)
	if c.Upload.Credential == "" {
		c.Upload.Credential = defaultCredential
	}
	if c.Upload.Limit <= 0 {
		c.Upload.Limit = defaultUploadLimit
	}
	if c.Upload.TID <= 0 {
		c.Upload.TID = defaultUploadTID
	}
}

func (c *Config) normalizeFiller() {
	names := make([]string, 0, len(c.Filler.Names))
	seen := make(map[string]struct{}, len(c.Filler.Names))
	for _, name := range c.Filler.Names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	c.Filler.Names = names
	if c.Filler.MaxSeconds <= 0 {
		c.Filler.MaxSeconds = defaultFillerMaxSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeEpisode() {
	if len(c.Episode.Regexes) == 0 {
		c.Episode.Regexes = append([]string(nil), defaultEpisodeRegexes...)
	}
}
