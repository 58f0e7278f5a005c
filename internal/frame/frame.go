package frame

import (
	"context"
	"errors"
)

// ErrCaptureUnavailable means no still frame could be produced for the event:
// the stream was empty, the fragment expired, or the camera endpoint failed.
// Terminal for the invocation; any retry policy belongs to the trigger layer.
var ErrCaptureUnavailable = errors.New("capture unavailable")

// Locator identifies the video fragment behind a capture event.
type Locator struct {
	Stream   string
	Fragment string
}

// Extractor produces one representative still image for a capture event.
type Extractor interface {
	Extract(ctx context.Context, loc Locator) ([]byte, error)
}
