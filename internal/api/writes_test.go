// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/mthctl/internal/project"
)

func TestAddSeason_InvalidatesSeasons(t *testing.T) {
	routes := map[string]string{
		"GET /api/seasons":               `["24-25"]`,
		"POST /api/seasons":              `{"message":"created"}`,
		"GET /api/projects/season/24-25": `[]`,
	}
	b := newBackend(t, routes)
	c := b.client(newFakeClock())
	ctx := context.Background()

	_, err := c.Seasons(ctx)
	require.NoError(t, err)
	_, err = c.ProjectsBySeason(ctx, "24-25")
	require.NoError(t, err)

	res, err := c.AddSeason(ctx, " 25-26 ")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "created", res.Message)

	_, err = c.Seasons(ctx)
	require.NoError(t, err)
	_, err = c.ProjectsBySeason(ctx, "24-25")
	require.NoError(t, err)

	assert.Equal(t, 2, b.count("GET /api/seasons"))
	assert.Equal(t, 2, b.count("GET /api/projects/season/24-25"))

	_, err = c.AddSeason(ctx, "")
	assert.ErrorIs(t, err, ErrSeasonRequired)
}

func TestDeleteSeason(t *testing.T) {
	b := newBackend(t, map[string]string{"DELETE /api/seasons/23-24": `{"success":true}`})
	c := b.client(newFakeClock())

	res, err := c.DeleteSeason(context.Background(), "23-24")
	require.NoError(t, err)
	assert.True(t, res.Success)

	_, err = c.DeleteSeason(context.Background(), "99-00")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), `failed to delete season "99-00"`)
}

func TestCreateProject(t *testing.T) {
	var posted atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /projects":
			posted.Add(1)
			var got map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, "Hill", got["ownerLastName"])
			assert.EqualValues(t, 7, got["siteNumber"])
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":"recNew","ownerLastName":"Hill"}`)
		case "GET /projects/season/24-25":
			_, _ = io.WriteString(w, `[]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	ctx := context.Background()

	_, err := c.CreateProject(ctx, project.Draft{Season: "24-25"})
	require.Error(t, err)
	assert.ErrorIs(t, err, project.ErrMissingFields)
	assert.Contains(t, err.Error(), "ownerLastName")
	assert.Equal(t, int32(0), posted.Load(), "invalid drafts never reach the server")

	_, err = c.ProjectsBySeason(ctx, "24-25")
	require.NoError(t, err)
	require.Len(t, c.CacheState().Entries, 1)

	p, err := c.CreateProject(ctx, project.Draft{
		Season:        "24-25",
		OwnerLastName: "Hill",
		Address:       "1 Elm St",
		PropertyID:    "P-1",
		SiteNumber:    7,
	})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "recNew", p.ID)
	assert.Equal(t, "24-25", p.Season)
	assert.Equal(t, int32(1), posted.Load())
	assert.Empty(t, c.CacheState().Entries, "the season list must be dropped")
}

func TestUpdateProject(t *testing.T) {
	routes := map[string]string{
		"GET /api/projects/details/rec1":   `{"id":"rec1","status":"Planned"}`,
		"PATCH /api/projects/rec1":         `{"id":"rec1","status":"Planted"}`,
		"GET /api/projects/season/24-25":   `[]`,
		"DELETE /api/projects/rec1":        `{"message":"deleted"}`,
		"GET /api/projects/details/recOth": `{"id":"recOth"}`,
	}
	b := newBackend(t, routes)
	c := b.client(newFakeClock())
	ctx := context.Background()

	_, err := c.UpdateProject(ctx, "rec1", nil)
	assert.ErrorIs(t, err, ErrNoFields)
	_, err = c.UpdateProject(ctx, "", map[string]any{"status": "x"})
	assert.ErrorIs(t, err, ErrIDRequired)

	_, err = c.ProjectByID(ctx, "rec1")
	require.NoError(t, err)
	_, err = c.ProjectByID(ctx, "recOth")
	require.NoError(t, err)

	p, err := c.UpdateProject(ctx, "rec1", map[string]any{"status": "Planted"})
	require.NoError(t, err)
	assert.Equal(t, "Planted", p.Status)

	_, err = c.ProjectByID(ctx, "rec1")
	require.NoError(t, err)
	_, err = c.ProjectByID(ctx, "recOth")
	require.NoError(t, err)
	assert.Equal(t, 2, b.count("GET /api/projects/details/rec1"))
	assert.Equal(t, 1, b.count("GET /api/projects/details/recOth"))

	res, err := c.DeleteProject(ctx, "rec1")
	require.NoError(t, err)
	assert.Equal(t, "deleted", res.Message)
}

func TestUploadDocument(t *testing.T) {
	var gotPayload uploadPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects/rec1/documents":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
			_, _ = io.WriteString(w, `{"success":true,"message":"uploaded"}`)
		case "/projects/big/documents":
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			_, _ = io.WriteString(w, `{"message":"payload too large"}`)
		case "/projects/rec1/documents/draftMap":
			assert.Equal(t, http.MethodDelete, r.Method)
			_, _ = io.WriteString(w, `{"success":true}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	ctx := context.Background()

	res, err := c.UploadDocument(ctx, "rec1", "draftMap", Document{Filename: "map.pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, "uploaded", res.Message)
	assert.Equal(t, "draftMap", gotPayload.DocumentType)
	assert.Equal(t, DefaultContentType, gotPayload.ContentType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF")), gotPayload.Data)

	_, err = c.UploadDocument(ctx, "big", "draftMap", Document{Filename: "huge.pdf", Data: []byte("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentTooLarge)
	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusRequestEntityTooLarge, he.Status)

	_, err = c.UploadDocument(ctx, "rec1", "draftMap", Document{Filename: "none"})
	assert.Error(t, err)

	_, err = c.DeleteDocument(ctx, "rec1", "draftMap")
	require.NoError(t, err)
	_, err = c.DeleteDocument(ctx, "rec1", "")
	assert.Error(t, err)
}

func TestAddDraftMapComment(t *testing.T) {
	routes := map[string]string{
		"POST /api/projects/ok/draft-map/comments":   `{"success":true,"project":{"id":"ok","draftMapComments":"looks good"}}`,
		"POST /api/projects/nope/draft-map/comments": `{"success":false,"message":"comments closed"}`,
		"POST /api/projects/bare/draft-map/comments": `{}`,
	}
	c := newBackend(t, routes).client(newFakeClock())
	ctx := context.Background()

	p, err := c.AddDraftMapComment(ctx, "ok", "looks good")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "looks good", p.DraftMapComments)

	_, err = c.AddDraftMapComment(ctx, "nope", "hello")
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "comments closed")

	_, err = c.AddDraftMapComment(ctx, "bare", "hello")
	assert.ErrorIs(t, err, ErrRejected)

	_, err = c.AddDraftMapComment(ctx, "ok", "   ")
	assert.Error(t, err)
}

func TestLandownerViews(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		c := newBackend(t, map[string]string{
			"GET /api/projects/my-project":  `{"id":"mine"}`,
			"GET /api/projects/my-projects": `[{"id":"mine"},{"id":"other"}]`,
		}).client(newFakeClock())

		p, err := c.MyProject(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "mine", p.ID)

		ps, err := c.MyProjects(context.Background())
		require.NoError(t, err)
		assert.Len(t, ps, 2)
	})

	t.Run("absent", func(t *testing.T) {
		c := newBackend(t, map[string]string{}).client(newFakeClock())

		p, err := c.MyProject(context.Background())
		require.NoError(t, err)
		assert.Nil(t, p)

		ps, err := c.MyProjects(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, ps)
		assert.Empty(t, ps)
	})
}

func TestHealthCheck(t *testing.T) {
	var path, auth, reqID atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		auth.Store(r.Header.Get("Authorization"))
		reqID.Store(r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	c := NewClient(WithBaseURL(srv.URL+"/api"), WithToken("tok"))
	assert.True(t, c.HealthCheck(context.Background()), "any status counts as reachable")
	assert.Equal(t, "/", path.Load())
	assert.Equal(t, "Bearer tok", auth.Load())
	assert.NotEmpty(t, reqID.Load())

	srv.Close()
	assert.False(t, c.HealthCheck(context.Background()))
}
