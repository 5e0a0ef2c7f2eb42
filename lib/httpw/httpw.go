package httpw

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lucsky/cuid"
	"github.com/mpucli/mpu/config"
)

// Build the HTTP client used for all coordinator and storage requests.
// Redirects are never followed: a presigned PUT must hit exactly the URL it
// was signed for, so a redirect response is surfaced to the caller as-is.
func newClient() *http.Client {
	timeout := time.Duration(config.I.Storage.RequestTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Send a request, waiting for the configured rate limiter first.
// Only transport-level failures produce an error; callers are responsible
// for interpreting response status codes.
func send(req *http.Request) (*http.Response, error) {
	if config.I.RateLimiter != nil {
		if err := config.I.RateLimiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	req.Header.Set("X-Request-ID", cuid.New())

	return newClient().Do(req)
}

// Send a GET request to the specified URL.
func Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	return send(req)
}

// Send a form-encoded POST request to the specified URL.
func PostForm(ctx context.Context, url string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return send(req)
}

// Send a JSON POST request to the specified URL.
func PostJSON(ctx context.Context, url string, data []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	return send(req)
}

// Send a PUT request with a raw byte body to the specified URL.
// Content-Length is always set to the exact byte count.
func Put(ctx context.Context, url string, body []byte, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", contentType)

	return send(req)
}
