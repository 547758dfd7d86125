// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
)

// Scheme prefixes an S3 object reference.
const Scheme = "s3://"

// ErrInvalidURI is returned for a malformed s3:// reference.
var ErrInvalidURI = errors.New("invalid s3 uri")

// ObjectGetter is the subset of the S3 client used to read objects.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// Object is the content of one S3 object.
type Object struct {
	Bucket      string
	Key         string
	Name        string
	ContentType string
	Data        []byte
}

// IsS3URI reports whether s names an S3 object.
func IsS3URI(s string) bool {
	return strings.HasPrefix(s, Scheme)
}

// ParseS3URI splits s3://bucket/key into its bucket and key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "s3" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	return bucket, key, nil
}

// GetObject reads the object at uri in full.
func GetObject(ctx context.Context, client ObjectGetter, uri string) (Object, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return Object{}, err
	}

	out, err := client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to get %s: %w", uri, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Object{}, fmt.Errorf("failed to read %s: %w", uri, err)
	}

	log.Debugf("read %s from %s", humanize.Bytes(uint64(len(data))), uri)

	return Object{
		Bucket:      bucket,
		Key:         key,
		Name:        path.Base(key),
		ContentType: awsv2.ToString(out.ContentType),
		Data:        data,
	}, nil
}
