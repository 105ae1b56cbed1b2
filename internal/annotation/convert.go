package annotation

import (
	"bytes"
	"path/filepath"
	"strconv"
	"strings"
)

// Row is one output line of a label CSV: a zero-based frame index paired
// with its normalized label.
type Row struct {
	FrameIndex int
	Label      LabelCode
}

const counterDigits = 6

// Convert turns a coder file into an ordered label sequence. expectedFrames
// is the recording's full frame count when known; pass 0 or less when the
// reference is unavailable, which skips the completeness check. Row order
// matches record order; every record produces exactly one row.
func Convert(cf *CoderFile, expectedFrames int) ([]Row, error) {
	if expectedFrames > 0 && cf.Len() < expectedFrames {
		return nil, &IncompleteCoderError{Coder: cf.Coder, Actual: cf.Len(), Expected: expectedFrames}
	}

	rows := make([]Row, 0, cf.Len())
	for _, record := range cf.Records() {
		index, err := FrameIndex(record.FramePath)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{FrameIndex: index, Label: MapCode(record.RawCode)})
	}
	return rows, nil
}

// FrameIndex derives the zero-based frame index from a frame identifier. The
// bare name (directory and extension stripped) must contain exactly one run
// of 6 consecutive digits holding the 1-based on-disk frame counter.
func FrameIndex(framePath string) (int, error) {
	bare := strings.TrimSuffix(filepath.Base(framePath), filepath.Ext(framePath))

	counter := ""
	for _, run := range digitRuns(bare) {
		if len(run) != counterDigits {
			continue
		}
		if counter != "" {
			return 0, &FrameFormatError{FramePath: framePath, Reason: "multiple 6-digit counters"}
		}
		counter = run
	}
	if counter == "" {
		return 0, &FrameFormatError{FramePath: framePath, Reason: "no 6-digit counter"}
	}

	value, err := strconv.Atoi(counter)
	if err != nil {
		return 0, &FrameFormatError{FramePath: framePath, Reason: "counter is not numeric"}
	}
	// On-disk counters are 1-based; label rows are 0-based.
	return value - 1, nil
}

// digitRuns returns the maximal runs of consecutive digits in s, in order.
func digitRuns(s string) []string {
	var runs []string
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, s[start:])
	}
	return runs
}

// MarshalCSV renders rows in the trainer's label format: no header, one
// "index,label" line per row, newline terminated.
func MarshalCSV(rows []Row) []byte {
	var buf bytes.Buffer
	buf.Grow(len(rows) * 12)
	for _, row := range rows {
		buf.WriteString(strconv.Itoa(row.FrameIndex))
		buf.WriteByte(',')
		buf.WriteString(string(row.Label))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
