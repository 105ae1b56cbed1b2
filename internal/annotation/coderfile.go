package annotation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AnnotationRecord is one frame's raw datum as the coder produced it.
type AnnotationRecord struct {
	// FramePath is the frame identifier the annotation tool recorded. It
	// embeds a zero-padded 6-digit frame counter, e.g. "img/clip_000123.png".
	FramePath string
	// RawCode is the coder's keystroke code for the frame; empty when the
	// frame was left unlabeled.
	RawCode string
}

// CoderFile is one coder's ordered annotation sequence for a recording.
//
// The on-disk form is a JSON document with explicit field names:
//
//	{
//	  "recording_id": "session01",
//	  "coder": "alice",
//	  "frames": ["img/clip_000001.png", ...],
//	  "codes":  ["a", "", "space", ...]
//	}
//
// frames and codes are parallel sequences of equal length; length is the
// number of frames the coder actually processed.
type CoderFile struct {
	RecordingID string   `json:"recording_id"`
	Coder       string   `json:"coder"`
	Frames      []string `json:"frames"`
	Codes       []string `json:"codes"`
}

// Len returns the number of frames the coder processed.
func (cf *CoderFile) Len() int {
	return len(cf.Frames)
}

// Records materializes the parallel sequences as ordered annotation records.
func (cf *CoderFile) Records() []AnnotationRecord {
	records := make([]AnnotationRecord, len(cf.Frames))
	for i, frame := range cf.Frames {
		records[i] = AnnotationRecord{FramePath: frame, RawCode: cf.Codes[i]}
	}
	return records
}

// Load reads and shape-checks a coder file. Unknown fields and mismatched
// sequence lengths fail fast rather than surfacing later as label drift.
func Load(path string) (*CoderFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coder file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()

	var cf CoderFile
	if err := decoder.Decode(&cf); err != nil {
		return nil, fmt.Errorf("parse coder file %s: %w", filepath.Base(path), err)
	}

	if len(cf.Frames) != len(cf.Codes) {
		return nil, fmt.Errorf("coder file %s: frames/codes length mismatch (%d vs %d)",
			filepath.Base(path), len(cf.Frames), len(cf.Codes))
	}
	if strings.TrimSpace(cf.Coder) == "" {
		cf.Coder = coderFromFilename(path)
	}
	return &cf, nil
}

// coderFromFilename recovers the coder name from the naming convention
// <recordingId>_<coder>.json when the document omits it.
func coderFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if idx := strings.LastIndex(stem, "_"); idx >= 0 && idx+1 < len(stem) {
		return stem[idx+1:]
	}
	return stem
}
