package mark

import "errors"

var (
	// ErrInvalidInput is returned for empty buffers, degenerate dimensions and
	// media too small to carry any payload bit.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedChannels is returned when a container cannot represent the
	// requested channel layout.
	ErrUnsupportedChannels = errors.New("unsupported channel count")

	// ErrCorruptContainer is returned when encoded media cannot be parsed.
	ErrCorruptContainer = errors.New("corrupt container")
)
