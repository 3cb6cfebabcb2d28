package termplay

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable means the frame's asset is missing or unreadable.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrDecodeFailure means the asset could not be decoded or encoded.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrSchedulingViolation means the frame store was used out of order,
	// e.g. a frame consumed twice.
	ErrSchedulingViolation = errors.New("scheduling violation")
	// ErrDecodeTimeout means a decode did not finish within the configured
	// bound.
	ErrDecodeTimeout = errors.New("decode timeout")
)

// FrameError attaches the frame index to an error from the frame pipeline.
type FrameError struct {
	Index Index
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Index, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
