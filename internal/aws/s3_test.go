// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	objects map[string]string
	gotKey  string
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	f.gotKey = awsv2.ToString(in.Bucket) + "/" + awsv2.ToString(in.Key)
	body, ok := f.objects[f.gotKey]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3v2.GetObjectOutput{
		Body:        io.NopCloser(strings.NewReader(body)),
		ContentType: awsv2.String("application/pdf"),
	}, nil
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{uri: "s3://maps/2025/hill.pdf", wantBucket: "maps", wantKey: "2025/hill.pdf"},
		{uri: "s3://maps/hill.pdf", wantBucket: "maps", wantKey: "hill.pdf"},
		{uri: "s3://maps", wantErr: true},
		{uri: "s3://maps/dir/", wantErr: true},
		{uri: "https://maps/hill.pdf", wantErr: true},
		{uri: "s3:///hill.pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := ParseS3URI(tt.uri)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestGetObject(t *testing.T) {
	f := &fakeGetter{objects: map[string]string{"maps/2025/hill.pdf": "%PDF-1.7"}}

	obj, err := GetObject(context.Background(), f, "s3://maps/2025/hill.pdf")
	require.NoError(t, err)
	assert.Equal(t, "maps/2025/hill.pdf", f.gotKey)
	assert.Equal(t, "hill.pdf", obj.Name)
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.Equal(t, []byte("%PDF-1.7"), obj.Data)

	_, err = GetObject(context.Background(), f, "s3://maps/missing.pdf")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "s3://maps/missing.pdf")
}

func TestWithS3Endpoint(t *testing.T) {
	var o s3v2.Options
	WithS3Endpoint("")(&o)
	assert.Nil(t, o.BaseEndpoint)

	WithS3Endpoint("http://localhost:9000")(&o)
	assert.Equal(t, "http://localhost:9000", awsv2.ToString(o.BaseEndpoint))
	assert.True(t, o.UsePathStyle)
	assert.True(t, IsS3URI("s3://a/b"))
	assert.False(t, IsS3URI("./b"))
}
