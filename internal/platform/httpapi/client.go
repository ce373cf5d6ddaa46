// Package httpapi is the thin JSON client every backend adapter shares:
// one base URL, JSON bodies, no cookies.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	apperrors "pairvote/internal/platform/errors"
	"pairvote/internal/platform/logging"
)

const maxErrorBody = 64 << 10

type Client struct {
	base   *url.URL
	http   *http.Client
	logger hclog.Logger
}

func New(baseURL string, timeout time.Duration, logger hclog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base must be http(s): %q", baseURL)
	}
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		logger: logging.Resolve(logger).Named("http"),
	}, nil
}

// Do sends body (when non-nil) as JSON and decodes a 2xx response into out
// (when non-nil). Non-2xx responses become *apperrors.StatusError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := *c.base
	target.Path = c.base.Path + path
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.logger.Trace("response", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &apperrors.StatusError{Code: resp.StatusCode, Detail: detailOf(raw)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// detailOf extracts the backend's {"detail": ...} field.
func detailOf(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(body.Detail, &text); err == nil {
		return text
	}
	return string(body.Detail)
}
