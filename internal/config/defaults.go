package config

const (
	defaultAnnotationsDir        = "~/datasets/gaze/annotations"
	defaultVideosDir             = "~/datasets/gaze/videos"
	defaultOutputDir             = "~/datasets/gaze/prepared"
	defaultLogDir                = "~/.local/share/gazeprep/logs"
	defaultCompletenessThreshold = 1800
	defaultWorkers               = 1
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

func defaultVideoExtensions() []string {
	return []string{".mp4", ".mov", ".avi", ".mkv"}
}

func defaultExcludedCoders() []string {
	return []string{"spotcheck", "test"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AnnotationsDir: defaultAnnotationsDir,
			VideosDir:      defaultVideosDir,
			OutputDir:      defaultOutputDir,
			LogDir:         defaultLogDir,
		},
		Selection: Selection{
			ExcludedCoders:        defaultExcludedCoders(),
			CompletenessThreshold: defaultCompletenessThreshold,
		},
		Prep: Prep{
			Workers:         defaultWorkers,
			VideoExtensions: defaultVideoExtensions(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
