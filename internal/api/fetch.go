// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/apex/log"
	"github.com/google/uuid"
)

// requestOptions holds per request settings.
type requestOptions struct {
	method string
	body   []byte
	header http.Header
	err    error
}

// RequestOption customizes a single Fetch.
type RequestOption func(*requestOptions)

// WithMethod sets the HTTP method. GET is used by default.
func WithMethod(method string) RequestOption {
	return func(o *requestOptions) { o.method = method }
}

// WithJSONBody marshals v as the request body.
func WithJSONBody(v any) RequestOption {
	return func(o *requestOptions) {
		b, err := json.Marshal(v)
		if err != nil {
			o.err = fmt.Errorf("failed to marshal request body: %w", err)
			return
		}
		o.body = b
	}
}

// WithHeader adds a request header. It overrides the defaults set by Fetch.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) { o.header.Set(key, value) }
}

// Fetch sends a request to endpoint (relative to the base URL) and returns
// the response body unchanged when the status is 2xx. An empty 2xx body
// yields a nil result.
//
// A non-2xx status produces an *HTTPError carrying the status and the parsed
// error payload. A request that fails below HTTP produces a *NetworkError
// that matches ErrUnreachable, unless ctx was cancelled, in which case the
// context error is returned.
func (c *Client) Fetch(ctx context.Context, endpoint string, opts ...RequestOption) (json.RawMessage, error) {
	ro := requestOptions{
		method: http.MethodGet,
		header: http.Header{},
	}
	for _, opt := range opts {
		opt(&ro)
	}
	if ro.err != nil {
		return nil, ro.err
	}

	url := c.baseURL + endpoint

	var body io.Reader
	if ro.body != nil {
		body = bytes.NewReader(ro.body)
	}

	req, reqID, err := c.newRequest(ctx, ro.method, url, body)
	if err != nil {
		return nil, err
	}
	for k, v := range ro.header {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s: %w", ro.method, url, ctxErr)
		}
		log.WithError(err).Debugf("request %s failed", reqID)
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s: %w", ro.method, url, ctxErr)
		}
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	log.Debugf("response %s status=%d bytes=%d", reqID, resp.StatusCode, len(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(ro.method, url, resp.StatusCode, data)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%s %s: %w", ro.method, url, ErrMalformedResponse)
	}

	return json.RawMessage(data), nil
}

// newRequest builds a request carrying the headers every call sends and logs
// it. The returned id is the X-Request-ID value.
func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debugf("request %s %s id=%s", method, url, reqID)
	return req, reqID, nil
}
