// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attachment

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/staranto/mthctl/internal/api"
	"github.com/staranto/mthctl/internal/aws"
)

// DefaultMaxSize is the largest document the backend accepts.
const DefaultMaxSize = 30 * 1000 * 1000

// ErrUnknownSlot is returned for a document type no project has.
var ErrUnknownSlot = errors.New("unknown document type")

// Slot is a named document position on a project.
type Slot struct {
	Key   string
	Label string
	// Field is the project attribute the slot's URLs are reported under.
	Field string
}

// Slots lists every document type a project accepts.
var Slots = []Slot{
	{Key: "carbonDocs", Label: "Carbon Docs (Notarized)", Field: "carbonDocs"},
	{Key: "draftMap", Label: "Draft Map", Field: "draftMapUrls"},
	{Key: "finalMap", Label: "Final Map", Field: "finalMapUrls"},
	{Key: "replantingMap", Label: "Replanting Map", Field: "replantingMapUrls"},
	{Key: "otherAttachments", Label: "Other Attachments", Field: "otherAttachments"},
	{Key: "postPlantingReports", Label: "Post-Planting Reports", Field: "postPlantingReports"},
}

// LookupSlot finds a slot by key, ignoring case.
func LookupSlot(key string) (Slot, error) {
	for _, s := range Slots {
		if strings.EqualFold(s.Key, strings.TrimSpace(key)) {
			return s, nil
		}
	}
	return Slot{}, fmt.Errorf("%w: %s", ErrUnknownSlot, key)
}

// SlotKeys returns the key of every slot.
func SlotKeys() []string {
	keys := make([]string, 0, len(Slots))
	for _, s := range Slots {
		keys = append(keys, s.Key)
	}
	return keys
}

// Loader reads documents from disk or S3.
type Loader struct {
	// S3 returns the client used for s3:// sources. It is only called when
	// such a source is loaded.
	S3 func(ctx context.Context) (aws.ObjectGetter, error)
	// MaxSize rejects larger documents before upload. Zero means
	// DefaultMaxSize.
	MaxSize int
}

// Load reads src. name and contentType override what is derived from src.
func (l *Loader) Load(ctx context.Context, src, name, contentType string) (api.Document, error) {
	var doc api.Document

	if aws.IsS3URI(src) {
		if l.S3 == nil {
			return doc, fmt.Errorf("no s3 client configured for %s", src)
		}
		client, err := l.S3(ctx)
		if err != nil {
			return doc, fmt.Errorf("failed to create s3 client: %w", err)
		}
		obj, err := aws.GetObject(ctx, client, src)
		if err != nil {
			return doc, err
		}
		doc = api.Document{Filename: obj.Name, Data: obj.Data}
		if obj.ContentType != api.DefaultContentType {
			doc.ContentType = obj.ContentType
		}
	} else {
		data, err := os.ReadFile(src)
		if err != nil {
			return doc, fmt.Errorf("failed to read %s: %w", src, err)
		}
		doc = api.Document{Filename: filepath.Base(src), Data: data}
	}

	if name != "" {
		doc.Filename = name
	}
	if contentType != "" {
		doc.ContentType = contentType
	}
	if doc.ContentType == "" {
		doc.ContentType = DetectContentType(doc.Filename, doc.Data)
	}

	limit := l.MaxSize
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	if len(doc.Data) > limit {
		return doc, fmt.Errorf("%s is %s: %w", doc.Filename, humanize.Bytes(uint64(len(doc.Data))), api.ErrDocumentTooLarge)
	}

	log.Debugf("loaded %s (%s, %s)", doc.Filename, doc.ContentType, humanize.Bytes(uint64(len(doc.Data))))
	return doc, nil
}

// DetectContentType guesses a MIME type from the file extension, falling back
// to sniffing the content.
func DetectContentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	if len(data) == 0 {
		return api.DefaultContentType
	}
	return http.DetectContentType(data)
}
