package annotation_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/annotation"
)

func TestMapCodeIsTotal(t *testing.T) {
	cases := map[string]annotation.LabelCode{
		"a":       annotation.LabelLeft,
		"d":       annotation.LabelRight,
		"s":       annotation.LabelCenter,
		"space":   annotation.LabelAway,
		"":        annotation.LabelNone,
		"w":       annotation.LabelNone,
		"A":       annotation.LabelNone,
		"unknown": annotation.LabelNone,
	}
	for raw, want := range cases {
		if got := annotation.MapCode(raw); got != want {
			t.Errorf("MapCode(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestFrameIndexDerivation(t *testing.T) {
	index, err := annotation.FrameIndex("faces/session01/clip_000123.png")
	if err != nil {
		t.Fatalf("FrameIndex returned error: %v", err)
	}
	if index != 122 {
		t.Fatalf("FrameIndex = %d, want 122", index)
	}
}

func TestFrameIndexRejectsMalformedIdentifiers(t *testing.T) {
	cases := []string{
		"clip.png",              // no digits
		"clip_12345.png",        // too short
		"clip_1234567.png",      // run longer than six digits
		"c_000001_000002.png",   // two counters
		"000123_take000456.jpg", // two counters with text between
	}
	for _, framePath := range cases {
		_, err := annotation.FrameIndex(framePath)
		if err == nil {
			t.Errorf("FrameIndex(%q) succeeded, want error", framePath)
			continue
		}
		if !errors.Is(err, annotation.ErrFrameFormat) {
			t.Errorf("FrameIndex(%q) error = %v, want ErrFrameFormat", framePath, err)
		}
		var formatErr *annotation.FrameFormatError
		if !errors.As(err, &formatErr) {
			t.Errorf("FrameIndex(%q) error lacks FrameFormatError detail", framePath)
		} else if formatErr.FramePath != framePath {
			t.Errorf("FrameFormatError carries %q, want %q", formatErr.FramePath, framePath)
		}
	}
}

func TestFrameIndexIgnoresDirectoryDigits(t *testing.T) {
	// Digit runs in the directory portion must not count as frame counters.
	index, err := annotation.FrameIndex("session000777/clip_000010.png")
	if err != nil {
		t.Fatalf("FrameIndex returned error: %v", err)
	}
	if index != 9 {
		t.Fatalf("FrameIndex = %d, want 9", index)
	}
}

func makeCoderFile(coder string, n int, codes func(i int) string) *annotation.CoderFile {
	cf := &annotation.CoderFile{RecordingID: "session01", Coder: coder}
	for i := 1; i <= n; i++ {
		cf.Frames = append(cf.Frames, fmt.Sprintf("img/clip_%06d.png", i))
		cf.Codes = append(cf.Codes, codes(i))
	}
	return cf
}

func TestConvertPreservesOrderAndCount(t *testing.T) {
	cf := makeCoderFile("alice", 5, func(i int) string {
		return []string{"a", "d", "s", "space", ""}[i-1]
	})

	rows, err := annotation.Convert(cf, 5)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("Convert produced %d rows, want 5", len(rows))
	}
	wantLabels := []annotation.LabelCode{
		annotation.LabelLeft,
		annotation.LabelRight,
		annotation.LabelCenter,
		annotation.LabelAway,
		annotation.LabelNone,
	}
	for i, row := range rows {
		if row.FrameIndex != i {
			t.Errorf("row %d has index %d, want %d", i, row.FrameIndex, i)
		}
		if row.Label != wantLabels[i] {
			t.Errorf("row %d has label %q, want %q", i, row.Label, wantLabels[i])
		}
	}
}

func TestConvertAllowsSurplusRecords(t *testing.T) {
	cf := makeCoderFile("alice", 7, func(int) string { return "a" })
	rows, err := annotation.Convert(cf, 5)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("Convert produced %d rows, want one per record", len(rows))
	}
}

func TestConvertIncompleteCoder(t *testing.T) {
	cf := makeCoderFile("bob", 3, func(int) string { return "a" })

	_, err := annotation.Convert(cf, 10)
	if !errors.Is(err, annotation.ErrIncompleteCoder) {
		t.Fatalf("Convert error = %v, want ErrIncompleteCoder", err)
	}
	var incomplete *annotation.IncompleteCoderError
	if !errors.As(err, &incomplete) {
		t.Fatal("error lacks IncompleteCoderError detail")
	}
	if incomplete.Actual != 3 || incomplete.Expected != 10 {
		t.Fatalf("counts = (%d, %d), want (3, 10)", incomplete.Actual, incomplete.Expected)
	}
}

func TestConvertUnknownExpectedSkipsCompletenessCheck(t *testing.T) {
	cf := makeCoderFile("carol", 2, func(int) string { return "s" })
	rows, err := annotation.Convert(cf, 0)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Convert produced %d rows, want 2", len(rows))
	}
}

func TestMarshalCSVFormat(t *testing.T) {
	rows := []annotation.Row{
		{FrameIndex: 0, Label: annotation.LabelLeft},
		{FrameIndex: 1, Label: annotation.LabelNone},
	}
	want := "0,left\n1,none\n"
	if got := string(annotation.MarshalCSV(rows)); got != want {
		t.Fatalf("MarshalCSV = %q, want %q", got, want)
	}
}
