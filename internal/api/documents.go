// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
)

// DefaultContentType is sent when a document's type is unknown.
const DefaultContentType = "application/octet-stream"

// Document is a file to attach to a project.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// uploadPayload is the wire shape of a document upload.
type uploadPayload struct {
	DocumentType string `json:"documentType"`
	Filename     string `json:"filename"`
	ContentType  string `json:"contentType"`
	Data         string `json:"data"`
}

// UploadDocument uploads or replaces the document of docType on a project.
// Oversized uploads are reported as ErrDocumentTooLarge while still carrying
// the underlying *HTTPError.
func (c *Client) UploadDocument(ctx context.Context, id, docType string, doc Document) (Result, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Result{}, ErrIDRequired
	}
	if strings.TrimSpace(docType) == "" {
		return Result{}, errors.New("document type is required")
	}
	if doc.Data == nil {
		return Result{}, errors.New("a file must be provided")
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	log.Debugf("uploading %s (%s, %s) as %s on %s",
		doc.Filename, contentType, humanize.Bytes(uint64(len(doc.Data))), docType, id)

	data, err := c.Fetch(ctx, "/projects/"+url.PathEscape(id)+"/documents",
		WithMethod(http.MethodPost),
		WithJSONBody(uploadPayload{
			DocumentType: docType,
			Filename:     doc.Filename,
			ContentType:  contentType,
			Data:         base64.StdEncoding.EncodeToString(doc.Data),
		}),
	)
	if err != nil {
		if tooLarge(err) {
			return Result{}, fmt.Errorf("failed to upload %s: %w: %w", doc.Filename, ErrDocumentTooLarge, err)
		}
		return Result{}, fmt.Errorf("failed to upload %s: %w", doc.Filename, err)
	}

	c.invalidateProjects(id)
	return newResult(data), nil
}

// DeleteDocument removes the document of docType from a project.
func (c *Client) DeleteDocument(ctx context.Context, id, docType string) (Result, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Result{}, ErrIDRequired
	}
	if strings.TrimSpace(docType) == "" {
		return Result{}, errors.New("document type is required")
	}

	data, err := c.Fetch(ctx,
		"/projects/"+url.PathEscape(id)+"/documents/"+url.PathEscape(docType),
		WithMethod(http.MethodDelete),
	)
	if err != nil {
		return Result{}, fmt.Errorf("failed to delete document %s: %w", docType, err)
	}

	c.invalidateProjects(id)
	return newResult(data), nil
}

func tooLarge(err error) bool {
	var he *HTTPError
	if !errors.As(err, &he) {
		return false
	}
	return he.Status == http.StatusRequestEntityTooLarge ||
		strings.Contains(strings.ToLower(he.Message), "too large")
}
