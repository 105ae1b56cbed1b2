package annotation

import (
	"fmt"

	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/fileutil"
)

// WriteCSV serializes rows to dst atomically. The write goes through a temp
// file in the destination directory, so a failed conversion never leaves a
// partial label file behind.
func WriteCSV(dst string, rows []Row) error {
	if err := fileutil.WriteFileAtomic(dst, MarshalCSV(rows), 0o644); err != nil {
		return fmt.Errorf("write label csv %s: %w", dst, err)
	}
	return nil
}

// ConvertFile loads a coder file, converts it, and writes the label CSV.
// Any load, format, or completeness failure aborts before the destination
// is touched.
func ConvertFile(src, dst string, expectedFrames int) (int, error) {
	cf, err := Load(src)
	if err != nil {
		return 0, err
	}
	rows, err := Convert(cf, expectedFrames)
	if err != nil {
		return 0, err
	}
	if err := WriteCSV(dst, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
