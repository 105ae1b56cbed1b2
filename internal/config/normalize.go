package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSelection()
	c.normalizePrep()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.AnnotationsDir, err = expandPath(c.Paths.AnnotationsDir); err != nil {
		return fmt.Errorf("paths.annotations_dir: %w", err)
	}
	if c.Paths.VideosDir, err = expandPath(c.Paths.VideosDir); err != nil {
		return fmt.Errorf("paths.videos_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.FramesDir) != "" {
		if c.Paths.FramesDir, err = expandPath(c.Paths.FramesDir); err != nil {
			return fmt.Errorf("paths.frames_dir: %w", err)
		}
	} else {
		c.Paths.FramesDir = ""
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSelection() {
	folder := cases.Fold()
	aliases := make([]string, 0, len(c.Selection.ExcludedCoders))
	seen := make(map[string]struct{}, len(c.Selection.ExcludedCoders))
	for _, alias := range c.Selection.ExcludedCoders {
		normalized := folder.String(strings.TrimSpace(alias))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		aliases = append(aliases, normalized)
	}
	c.Selection.ExcludedCoders = aliases

	if c.Selection.CompletenessThreshold <= 0 {
		c.Selection.CompletenessThreshold = defaultCompletenessThreshold
	}
}

func (c *Config) normalizePrep() {
	if c.Prep.Workers <= 0 {
		c.Prep.Workers = defaultWorkers
	}
	if len(c.Prep.VideoExtensions) == 0 {
		c.Prep.VideoExtensions = defaultVideoExtensions()
	} else {
		exts := make([]string, 0, len(c.Prep.VideoExtensions))
		seen := make(map[string]struct{}, len(c.Prep.VideoExtensions))
		for _, ext := range c.Prep.VideoExtensions {
			normalized := strings.ToLower(strings.TrimSpace(ext))
			if normalized == "" {
				continue
			}
			if !strings.HasPrefix(normalized, ".") {
				normalized = "." + normalized
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			exts = append(exts, normalized)
		}
		if len(exts) == 0 {
			exts = defaultVideoExtensions()
		}
		c.Prep.VideoExtensions = exts
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
