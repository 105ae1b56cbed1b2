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

// Paths contains directory configuration for the prep pipeline.
type Paths struct {
	AnnotationsDir string `toml:"annotations_dir"`
	VideosDir      string `toml:"videos_dir"`
	FramesDir      string `toml:"frames_dir"`
	OutputDir      string `toml:"output_dir"`
	LogDir         string `toml:"log_dir"`
}

// Selection contains the coder eligibility knobs.
type Selection struct {
	// ExcludedCoders lists reserved reviewer aliases (spot-check and test
	// accounts) whose annotations never become training labels. Matching is
	// case-folded substring matching.
	ExcludedCoders []string `toml:"excluded_coders"`
	// RequireAllAliases reproduces the legacy exclusion behavior where a
	// coder name had to contain every alias before it was rejected. The
	// default is OR semantics: any single alias match excludes the coder.
	RequireAllAliases bool `toml:"require_all_aliases"`
	// CompletenessThreshold is the minimum record count accepted when the
	// recording's true frame count cannot be resolved.
	CompletenessThreshold int `toml:"completeness_threshold"`
}

// Prep contains batch execution settings.
type Prep struct {
	Workers         int      `toml:"workers"`
	Seed            int64    `toml:"seed"`
	VideoExtensions []string `toml:"video_extensions"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the prep pipeline.
//
// Configuration sections by subsystem:
//   - Paths: annotation, video, frame, output, and log directories
//   - Selection: excluded coder aliases and completeness threshold
//   - Prep: worker count, random seed, recognized video extensions
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Selection Selection `toml:"selection"`
	Prep      Prep      `toml:"prep"`
	Logging   Logging   `toml:"logging"`
}

// Rank names the first or second annotation pass of a recording.
type Rank string

const (
	RankFirst  Rank = "first"
	RankSecond Rank = "second"
)

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/gazeprep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
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

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("gazeprep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output tree and log directory. The coding and
// video subdirectories are pre-created here so parallel recording workers
// never race on directory creation.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.LogDir,
		c.Paths.OutputDir,
		c.CodingDir(RankFirst),
		c.CodingDir(RankSecond),
		c.StagedVideosDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CodingDir returns the output directory holding label CSVs for a rank.
func (c *Config) CodingDir(rank Rank) string {
	return filepath.Join(c.Paths.OutputDir, "coding_"+string(rank))
}

// StagedVideosDir returns the output directory holding staged session videos.
func (c *Config) StagedVideosDir() string {
	return filepath.Join(c.Paths.OutputDir, "videos")
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
