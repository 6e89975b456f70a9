package convert

import "errors"

// Conversion failure kinds. Returned errors wrap one of these with details.
var (
	ErrInputUnreadable      = errors.New("input is unreadable")
	ErrUnsupportedInput     = errors.New("input is not supported")
	ErrRenderingUnavailable = errors.New("rendering is unavailable")
	ErrOutputWriteFailed    = errors.New("unable to write output")
)
