package config

import (
	"fmt"
	"regexp"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateEpisode()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateEpisode() error {
	for i, pattern := range c.Episode.Regexes {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("episode.regexes[%d]: %w", i, err)
		}
		if re.SubexpIndex("title") < 0 || re.SubexpIndex("episode") < 0 {
			return fmt.Errorf("episode.regexes[%d]: pattern must name the title and episode groups", i)
		}
	}
	return nil
}
