package match

import "errors"

// Error kinds reported by the engine. All failures are surfaced to the
// caller as a structured failure result (success=false with the error
// string populated), never as a partial match list. Use errors.Is to
// classify a returned error.
var (
	// ErrInvalidInput indicates a bad request: a threshold outside [0,1],
	// a missing or unreadable image file, or a zero-sized image.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTemplateTooLarge indicates the template exceeds the target image
	// in width or height, so no window position can contain it.
	ErrTemplateTooLarge = errors.New("template too large")

	// ErrScanFailure indicates an unexpected failure during correlation
	// scanning, such as corrupt image data.
	ErrScanFailure = errors.New("scan failure")
)
