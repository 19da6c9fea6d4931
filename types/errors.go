package types

import "errors"

// Error taxonomy for a single verification request. All of these stem from
// input defects and are terminal: nothing is retried internally.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrImageTooSmall     = errors.New("image dimensions below supported minimum")
	ErrImageTooLarge     = errors.New("image dimensions above supported maximum")
	ErrNoStrokesDetected = errors.New("no signature strokes detected")
	ErrDimensionMismatch = errors.New("images have mismatched dimensions")
	ErrInvalidOptions    = errors.New("invalid options")
	ErrNoSuitableImages  = errors.New("no image in batch meets the minimum quality threshold")
)
