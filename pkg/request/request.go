// Copyright 2026 Pangea Cyber Corporation
//
// Package request drives HTTP for the audit client. Service endpoints are
// reached at https://{service}.{domain}/{version}/{endpoint} with bearer
// authentication and the standard response envelope; raw helpers fetch
// absolute URLs outside the service (the root-publication network) without
// credentials.
package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pangeacyber/go-pangea/pkg/config"
	"github.com/pangeacyber/go-pangea/pkg/errors"
	"github.com/pangeacyber/go-pangea/pkg/logging"
)

const configIDHeader = "X-Pangea-Audit-Config-ID"

// Response is the service response envelope.
type Response struct {
	RequestID  string          `json:"request_id"`
	Status     string          `json:"status"`
	Summary    string          `json:"summary,omitempty"`
	Result     json.RawMessage `json:"result"`
	StatusCode int             `json:"-"`
	Success    bool            `json:"-"`
}

// Client is the HTTP transport bound to one service.
type Client struct {
	service  string
	version  string
	cfg      *config.Config
	http     *http.Client
	logger   *logging.Logger
	recovery *errors.Recovery
}

// NewClient creates a transport for the named service.
func NewClient(service string, cfg *config.Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		service: service,
		version: "v1",
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		logger:  logger.WithComponent("request"),
		recovery: &errors.Recovery{
			MaxRetries:    cfg.MaxRetries,
			BackoffFactor: cfg.RetryBackoff,
			RetryableCodes: []errors.ErrorCode{
				errors.ErrorCodeTransportTimeout,
				errors.ErrorCodeAPIServerError,
			},
		},
	}
}

// endpointURL builds the service endpoint URL. A domain carrying an explicit
// scheme is used as the origin unchanged, which also covers local test
// servers.
func (c *Client) endpointURL(endpoint string) string {
	origin := c.cfg.Domain
	if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
		origin = fmt.Sprintf("https://%s.%s", c.service, origin)
	}
	return fmt.Sprintf("%s/%s/%s", origin, c.version, endpoint)
}

// Post sends a JSON body to a service endpoint and decodes the response
// envelope. Transient failures are retried per the configured policy.
func (c *Client) Post(ctx context.Context, endpoint string, payload interface{}) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeInternal, "cannot encode request body")
	}

	raw, statusCode, err := c.do(ctx, http.MethodPost, c.endpointURL(endpoint), body, true)
	if err != nil {
		return nil, err
	}

	resp := &Response{}
	if err := json.Unmarshal(raw, resp); err != nil {
		return nil, errors.Wrapf(err, errors.ErrorCodeTransport, "malformed response from %s", endpoint)
	}
	resp.StatusCode = statusCode
	resp.Success = statusCode == http.StatusOK

	if !resp.Success {
		return resp, errors.Newf(errors.ErrorCodeTransport, "request to %s failed", endpoint).
			WithDetailsf("status %d: %s", statusCode, resp.Status)
	}
	return resp, nil
}

// GetRaw fetches an absolute URL without credentials and returns the body.
func (c *Client) GetRaw(ctx context.Context, rawURL string) ([]byte, int, error) {
	return c.do(ctx, http.MethodGet, rawURL, nil, false)
}

// PostRaw sends a JSON body to an absolute URL without credentials.
func (c *Client) PostRaw(ctx context.Context, rawURL string, payload interface{}) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrorCodeInternal, "cannot encode request body")
	}
	return c.do(ctx, http.MethodPost, rawURL, body, false)
}

// do issues one logical request with bounded retries on retryable failures.
// Only 5xx responses and timeouts are retried; response bodies are returned
// as-is for the caller to interpret.
func (c *Client) do(ctx context.Context, method, url string, body []byte, authenticated bool) ([]byte, int, error) {
	var lastErr error

	for attempt := 0; ; attempt++ {
		raw, statusCode, err := c.doOnce(ctx, method, url, body, authenticated)
		if err == nil && statusCode < 500 {
			return raw, statusCode, nil
		}

		if err == nil {
			err = errors.Newf(errors.ErrorCodeAPIServerError, "server error from %s", url).
				WithDetailsf("status %d", statusCode)
		}
		lastErr = err

		if attempt >= c.recovery.MaxRetries || !c.recovery.IsRetryable(err) {
			return nil, statusCode, lastErr
		}

		select {
		case <-ctx.Done():
			return nil, 0, errors.Wrap(ctx.Err(), errors.ErrorCodeTransportTimeout, "request cancelled")
		case <-time.After(c.recovery.BackoffDuration(attempt)):
		}
	}
}

func (c *Client) doOnce(ctx context.Context, method, url string, body []byte, authenticated bool) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, errors.Wrapf(err, errors.ErrorCodeTransport, "cannot build request for %s", url)
	}

	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		if c.cfg.ConfigID != "" {
			req.Header.Set(configIDHeader, c.cfg.ConfigID)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		code := errors.ErrorCodeTransport
		var netErr net.Error
		if ctx.Err() != nil || (isNetError(err, &netErr) && netErr.Timeout()) {
			code = errors.ErrorCodeTransportTimeout
		}
		return nil, 0, errors.Wrapf(err, code, "request to %s failed", url)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.Wrapf(err, errors.ErrorCodeTransport, "cannot read response from %s", url)
	}

	c.logger.LogRequest(method, url, resp.StatusCode, time.Since(start))
	return raw, resp.StatusCode, nil
}

func isNetError(err error, target *net.Error) bool {
	if ne, ok := err.(net.Error); ok {
		*target = ne
		return true
	}
	if unwrapped := unwrap(err); unwrapped != nil {
		return isNetError(unwrapped, target)
	}
	return false
}

func unwrap(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}
