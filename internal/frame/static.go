package frame

import "context"

// StaticExtractor returns a fixed frame, or the capture-unavailable failure
// when no frame is set. Used in development and tests.
type StaticExtractor struct {
	Frame []byte
}

// Extract returns the configured frame.
func (e StaticExtractor) Extract(_ context.Context, _ Locator) ([]byte, error) {
	if len(e.Frame) == 0 {
		return nil, ErrCaptureUnavailable
	}
	out := make([]byte, len(e.Frame))
	copy(out, e.Frame)
	return out, nil
}
