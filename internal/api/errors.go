// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Callers detect conditions with errors.Is so that messages
// can carry context without breaking classification.
var (
	ErrUnreachable       = errors.New("server unreachable")
	ErrMalformedBody     = errors.New("malformed error body")
	ErrMalformedResponse = errors.New("malformed response body")
	ErrSeasonRequired    = errors.New("season is required")
	ErrIDRequired        = errors.New("project id is required")
	ErrNoFields          = errors.New("update must include at least one field")
	ErrDocumentTooLarge  = errors.New("the file is too large to upload, try a file under 30MB or compress it first")
	ErrRejected          = errors.New("request rejected by server")
)

// HTTPError is returned when the server answered with a non-2xx status.
type HTTPError struct {
	Method     string
	URL        string
	Status     int
	StatusText string
	// Message is the server supplied "message" field, or a generic
	// "HTTP <status>: <text>" when the body carries none.
	Message string
	// Payload is the decoded error body. It is nil when the body was empty or
	// could not be decoded.
	Payload map[string]any
	// Body holds the raw error body.
	Body []byte
	// DecodeErr is set when the body was present but was not a JSON object.
	// It wraps ErrMalformedBody. An empty body leaves it nil.
	DecodeErr error
}

func (e *HTTPError) Error() string {
	return e.Message
}

// newHTTPError classifies a failed response. The body is parsed when present;
// a body that is empty is not an error, one that is not a JSON object is
// recorded in DecodeErr rather than silently dropped.
func newHTTPError(method, url string, status int, body []byte) *HTTPError {
	e := &HTTPError{
		Method:     method,
		URL:        url,
		Status:     status,
		StatusText: http.StatusText(status),
		Body:       body,
	}

	if len(bytes.TrimSpace(body)) > 0 {
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			e.DecodeErr = fmt.Errorf("%w: %v", ErrMalformedBody, err)
		} else {
			e.Payload = payload
		}
	}

	if msg, ok := e.Payload["message"].(string); ok && msg != "" {
		e.Message = msg
	} else {
		e.Message = fmt.Sprintf("HTTP %d: %s", status, e.StatusText)
	}

	return e
}

// NetworkError is returned when a request never reached the server or no
// response came back.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: unable to reach the server at %s, is the backend running?", e.URL)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUnreachable) true for every NetworkError.
func (e *NetworkError) Is(target error) bool {
	return target == ErrUnreachable
}

// IsNotFound reports whether err carries an HTTP 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an
// HTTP error.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}
