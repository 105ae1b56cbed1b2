package annotation

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompleteCoder marks coder files whose record count falls short of
	// the recording's expected frame count.
	ErrIncompleteCoder = errors.New("incomplete coder file")
	// ErrFrameFormat marks frame identifiers lacking the 6-digit counter.
	ErrFrameFormat = errors.New("frame format error")
)

// IncompleteCoderError reports how far a coder got versus the recording's
// frame count.
type IncompleteCoderError struct {
	Coder    string
	Actual   int
	Expected int
}

func (e *IncompleteCoderError) Error() string {
	return fmt.Sprintf("coder %q annotated %d of %d frames", e.Coder, e.Actual, e.Expected)
}

func (e *IncompleteCoderError) Unwrap() error { return ErrIncompleteCoder }

// FrameFormatError reports a frame identifier that cannot yield a frame index.
type FrameFormatError struct {
	FramePath string
	Reason    string
}

func (e *FrameFormatError) Error() string {
	return fmt.Sprintf("frame identifier %q: %s", e.FramePath, e.Reason)
}

func (e *FrameFormatError) Unwrap() error { return ErrFrameFormat }
