package prep

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/config"
)

// Library lists the dataset's recordings and their assets. Orchestration
// code only sees this interface, so selection logic is testable without a
// real dataset on disk.
type Library interface {
	// Recordings returns the recording ids whose name starts with prefix,
	// sorted ascending. An empty prefix matches every recording.
	Recordings(prefix string) ([]string, error)
	// CoderFiles returns the candidate coder file paths for a recording,
	// following the <recordingId>_<coder>.json naming convention.
	CoderFiles(recordingID string) ([]string, error)
	// VideoFiles returns the recording's video file paths sorted
	// lexicographically ascending by filename.
	VideoFiles(recordingID string) ([]string, error)
	// FrameCount resolves the recording's full frame count. ok is false when
	// no frame reference exists for the recording.
	FrameCount(recordingID string) (count int, ok bool)
}

// DiskLibrary implements Library over the configured dataset roots.
type DiskLibrary struct {
	annotationsDir string
	videosDir      string
	framesDir      string
	videoExts      map[string]struct{}
}

// NewDiskLibrary builds a library over the configured dataset roots.
func NewDiskLibrary(cfg *config.Config) *DiskLibrary {
	exts := make(map[string]struct{}, len(cfg.Prep.VideoExtensions))
	for _, ext := range cfg.Prep.VideoExtensions {
		exts[ext] = struct{}{}
	}
	return &DiskLibrary{
		annotationsDir: cfg.Paths.AnnotationsDir,
		videosDir:      cfg.Paths.VideosDir,
		framesDir:      cfg.Paths.FramesDir,
		videoExts:      exts,
	}
}

// Recordings lists the video-asset directories matching prefix. Each
// recording is a subdirectory of the videos root named by its id.
func (l *DiskLibrary) Recordings(prefix string) ([]string, error) {
	entries, err := os.ReadDir(l.videosDir)
	if err != nil {
		return nil, fmt.Errorf("list videos root %s: %w", l.videosDir, err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		ids = append(ids, entry.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// CoderFiles globs the annotations root for the recording's coder files.
func (l *DiskLibrary) CoderFiles(recordingID string) ([]string, error) {
	pattern := filepath.Join(l.annotationsDir, recordingID+"_*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob coder files for %s: %w", recordingID, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// VideoFiles lists the recording directory's video files sorted ascending.
func (l *DiskLibrary) VideoFiles(recordingID string) ([]string, error) {
	dir := filepath.Join(l.videosDir, recordingID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list video directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := l.videoExts[ext]; !ok {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// FrameCount counts the recording's extracted frames when a frames root is
// configured. Without one the completeness reference stays unknown and the
// configured threshold applies instead.
func (l *DiskLibrary) FrameCount(recordingID string) (int, bool) {
	if l.framesDir == "" {
		return 0, false
	}
	entries, err := os.ReadDir(filepath.Join(l.framesDir, recordingID))
	if err != nil {
		return 0, false
	}
	count := 0
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return count, true
}
