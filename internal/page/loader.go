package page

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dshills/browsermotion/internal/dom"
)

// HTTPLoader fetches documents over HTTP.
type HTTPLoader struct {
	Client *http.Client
}

// NewHTTPLoader returns a loader with a bounded request timeout.
func NewHTTPLoader(timeout time.Duration) *HTTPLoader {
	return &HTTPLoader{Client: &http.Client{Timeout: timeout}}
}

// Load fetches u and parses the response body as HTML.
func (l *HTTPLoader) Load(ctx context.Context, u *url.URL) (*dom.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", u, resp.Status)
	}
	return dom.Parse(resp.Body)
}
