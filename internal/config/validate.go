package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validatePrep(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.AnnotationsDir) == "" {
		return errors.New("paths.annotations_dir must be set")
	}
	if strings.TrimSpace(c.Paths.VideosDir) == "" {
		return errors.New("paths.videos_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.OutputDir == c.Paths.VideosDir {
		return errors.New("paths.output_dir must differ from paths.videos_dir")
	}
	if c.Paths.OutputDir == c.Paths.AnnotationsDir {
		return errors.New("paths.output_dir must differ from paths.annotations_dir")
	}
	return nil
}

func (c *Config) validateSelection() error {
	if c.Selection.CompletenessThreshold <= 0 {
		return fmt.Errorf("selection.completeness_threshold must be positive, got %d", c.Selection.CompletenessThreshold)
	}
	return nil
}

func (c *Config) validatePrep() error {
	if c.Prep.Workers < 1 {
		return fmt.Errorf("prep.workers must be at least 1, got %d", c.Prep.Workers)
	}
	for _, ext := range c.Prep.VideoExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("prep.video_extensions entry %q is not a file extension", ext)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
