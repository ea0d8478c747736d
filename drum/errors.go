package drum

import "errors"

var (
	// ErrEmptyLoop rejects play or render attempts on a loop with no
	// events, before any side effect.
	ErrEmptyLoop = errors.New("drum: loop has no events")

	// ErrBufferAllocation marks a render whose output buffer could not
	// be sized sanely.
	ErrBufferAllocation = errors.New("drum: render buffer allocation failed")

	// ErrWriteFailed wraps export-time I/O failures. No partial file is
	// left behind when it is returned.
	ErrWriteFailed = errors.New("drum: wav write failed")
)
