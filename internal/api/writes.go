// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/mthctl/internal/project"
)

// Result is the acknowledgement returned by mutating endpoints.
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

// newResult reads an acknowledgement body. A missing body or a body without
// a success field counts as success, since the status was already 2xx.
func newResult(data json.RawMessage) Result {
	r := gjson.ParseBytes(data)
	res := Result{
		Success: true,
		Message: r.Get("message").String(),
		Raw:     data,
	}
	if s := r.Get("success"); s.Exists() {
		res.Success = s.Bool()
	}
	return res
}

// invalidateProjects drops every cached season list and, when ids are given,
// the detail entries of those projects.
func (c *Client) invalidateProjects(ids ...string) {
	n := c.invalidatePrefix(seasonListPrefix)
	for _, id := range ids {
		c.invalidate(detailPrefix + id)
	}
	log.Debugf("invalidated %d season lists and %d project details", n, len(ids))
}

// AddSeason adds a season option.
func (c *Client) AddSeason(ctx context.Context, name string) (Result, error) {
	s, err := NormalizeSeason(name)
	if err != nil {
		return Result{}, err
	}

	data, err := c.Fetch(ctx, "/seasons",
		WithMethod(http.MethodPost),
		WithJSONBody(map[string]string{"seasonName": s}),
	)
	if err != nil {
		return Result{}, fmt.Errorf("failed to add season %q: %w", s, err)
	}

	c.invalidate(seasonsKey)
	c.invalidateProjects()
	return newResult(data), nil
}

// DeleteSeason removes a season option.
func (c *Client) DeleteSeason(ctx context.Context, season string) (Result, error) {
	s, err := NormalizeSeason(season)
	if err != nil {
		return Result{}, err
	}

	data, err := c.Fetch(ctx, "/seasons/"+url.PathEscape(s), WithMethod(http.MethodDelete))
	if err != nil {
		return Result{}, fmt.Errorf("failed to delete season %q: %w", s, err)
	}

	c.invalidate(seasonsKey)
	c.invalidateProjects()
	return newResult(data), nil
}

// CreateProject validates draft and creates the project. The cached list of
// the draft's season is dropped.
func (c *Client) CreateProject(ctx context.Context, draft project.Draft) (*project.Project, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	draft.Season = strings.TrimSpace(draft.Season)

	data, err := c.Fetch(ctx, "/projects",
		WithMethod(http.MethodPost),
		WithJSONBody(draft),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	c.invalidate(seasonListPrefix + draft.Season)

	if data == nil {
		return nil, nil
	}
	p := project.Parse(data, draft.Season)
	return &p, nil
}

// UpdateProject patches the given fields of a project.
func (c *Client) UpdateProject(ctx context.Context, id string, fields map[string]any) (*project.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrIDRequired
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	data, err := c.Fetch(ctx, "/projects/"+url.PathEscape(id),
		WithMethod(http.MethodPatch),
		WithJSONBody(fields),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update project %s: %w", id, err)
	}

	c.invalidateProjects(id)

	if data == nil {
		return nil, nil
	}
	p := project.Parse(data)
	return &p, nil
}

// DeleteProject deletes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) (Result, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Result{}, ErrIDRequired
	}

	data, err := c.Fetch(ctx, "/projects/"+url.PathEscape(id), WithMethod(http.MethodDelete))
	if err != nil {
		return Result{}, fmt.Errorf("failed to delete project %s: %w", id, err)
	}

	c.invalidateProjects(id)
	return newResult(data), nil
}

// AddDraftMapComment attaches a comment to the draft map of a project and
// returns the updated project. A reply with success=false is an error
// matching ErrRejected.
func (c *Client) AddDraftMapComment(ctx context.Context, id, comment string) (*project.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("comment must not be empty: %w", ErrNoFields)
	}

	data, err := c.Fetch(ctx, "/projects/"+url.PathEscape(id)+"/draft-map/comments",
		WithMethod(http.MethodPost),
		WithJSONBody(map[string]string{"comment": comment}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to submit comment: %w", err)
	}

	res := newResult(data)
	if !res.Success || !gjson.GetBytes(data, "success").Exists() {
		msg := res.Message
		if msg == "" {
			msg = "failed to add comment"
		}
		return nil, fmt.Errorf("%w: %s", ErrRejected, msg)
	}

	c.invalidate(detailPrefix + id)

	pj := gjson.GetBytes(data, "project")
	if !pj.Exists() || pj.Type == gjson.Null {
		return nil, nil
	}
	p := project.Parse([]byte(pj.Raw))
	return &p, nil
}
