package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/config"
)

// WriteCoderFile writes a well-formed coder file for recordingID under the
// config's annotations root. codes cycles over the records; frames carry
// 1-based 6-digit counters.
func WriteCoderFile(t testing.TB, cfg *config.Config, recordingID, coder string, records int, codes ...string) string {
	t.Helper()

	if len(codes) == 0 {
		codes = []string{"a"}
	}
	doc := struct {
		RecordingID string   `json:"recording_id"`
		Coder       string   `json:"coder"`
		Frames      []string `json:"frames"`
		Codes       []string `json:"codes"`
	}{RecordingID: recordingID, Coder: coder}
	for i := 1; i <= records; i++ {
		doc.Frames = append(doc.Frames, fmt.Sprintf("img/clip_%06d.png", i))
		doc.Codes = append(doc.Codes, codes[(i-1)%len(codes)])
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("marshal coder file: %v", err)
	}

	path := filepath.Join(cfg.Paths.AnnotationsDir, recordingID+"_"+coder+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir annotations root: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write coder file: %v", err)
	}
	return path
}

// WriteVideo creates a small stand-in video file for recordingID under the
// config's videos root.
func WriteVideo(t testing.TB, cfg *config.Config, recordingID, name string) string {
	t.Helper()

	path := filepath.Join(cfg.Paths.VideosDir, recordingID, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir video directory: %v", err)
	}
	if err := os.WriteFile(path, []byte("video:"+name), 0o644); err != nil {
		t.Fatalf("write video %s: %v", path, err)
	}
	return path
}

// WriteRecordingDir creates an empty video-asset directory so the recording
// is discoverable even without video files.
func WriteRecordingDir(t testing.TB, cfg *config.Config, recordingID string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Join(cfg.Paths.VideosDir, recordingID), 0o755); err != nil {
		t.Fatalf("mkdir recording directory: %v", err)
	}
}

// WriteFrames populates the config's frames root with count empty frame
// files for recordingID.
func WriteFrames(t testing.TB, cfg *config.Config, recordingID string, count int) {
	t.Helper()

	dir := filepath.Join(cfg.Paths.FramesDir, recordingID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir frames directory: %v", err)
	}
	for i := 1; i <= count; i++ {
		path := filepath.Join(dir, fmt.Sprintf("clip_%06d.png", i))
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("write frame %s: %v", path, err)
		}
	}
}
