package frame

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// SnapshotExtractor pulls a still frame from a camera snapshot endpoint.
// Doorbell cameras expose the current frame over HTTP, which sidesteps video
// decoding entirely; the stream locator is passed through as query parameters
// so a gateway can resolve the exact fragment when it keeps enough history.
type SnapshotExtractor struct {
	baseURL string
	client  *http.Client
}

// NewSnapshotExtractor builds an extractor against the given snapshot URL.
func NewSnapshotExtractor(baseURL string) *SnapshotExtractor {
	return &SnapshotExtractor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Extract fetches the frame. Any transport or non-200 failure maps to
// ErrCaptureUnavailable, as does an empty body.
func (e *SnapshotExtractor) Extract(ctx context.Context, loc Locator) ([]byte, error) {
	u, err := url.Parse(e.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad snapshot url: %v", ErrCaptureUnavailable, err)
	}

	q := u.Query()
	if loc.Stream != "" {
		q.Set("stream", loc.Stream)
	}
	if loc.Fragment != "" {
		q.Set("fragment", loc.Fragment)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: snapshot endpoint returned %d", ErrCaptureUnavailable, resp.StatusCode)
	}

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	if len(img) == 0 {
		return nil, fmt.Errorf("%w: empty frame", ErrCaptureUnavailable)
	}

	return img, nil
}
