// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/mthctl/internal/project"
)

// Resource keys. Each cached read is stored under the key of its logical
// call so that invalidation can target one resource or a whole family.
const (
	seasonsKey       = "seasons"
	seasonListPrefix = "projects/season/"
	detailPrefix     = "projects/details/"
)

// allProjectsLimit bounds the concurrent per-season fetches in AllProjects.
const allProjectsLimit = 4

type callOptions struct {
	skipCache bool
}

// CallOption customizes a cached read.
type CallOption func(*callOptions)

// SkipCache forces a fetch and overwrites the cached entry with the result.
func SkipCache() CallOption {
	return func(o *callOptions) { o.skipCache = true }
}

// cached serves key from the cache or fetches endpoint and stores the result.
// Concurrent misses for the same key share one request. The shared request
// does not inherit the cancellation of whichever caller started it; each
// caller stops waiting when its own ctx is done. A result that raced with an
// invalidation is returned but not stored.
func (c *Client) cached(ctx context.Context, key, endpoint string, opts []CallOption) (json.RawMessage, error) {
	var co callOptions
	for _, opt := range opts {
		opt(&co)
	}

	if !co.skipCache {
		if data, ok := c.cache.Get(key); ok {
			return data, nil
		}
	}

	ch := c.group.DoChan(key, func() (any, error) {
		c.track(key, 1)
		defer c.track(key, -1)

		gen := c.cache.Generation()
		data, err := c.Fetch(context.WithoutCancel(ctx), endpoint)
		if err != nil {
			return nil, err
		}
		c.cache.SetIfGeneration(key, data, gen)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("GET %s%s: %w", c.baseURL, endpoint, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debugf("shared in-flight fetch: %s", key)
		}
		data, _ := res.Val.(json.RawMessage)
		return data, nil
	}
}

// NormalizeSeason trims a season key and rejects an empty one.
func NormalizeSeason(season string) (string, error) {
	s := strings.TrimSpace(season)
	if s == "" {
		return "", ErrSeasonRequired
	}
	return s, nil
}

// Seasons returns every season identifier, newest first. Blank identifiers
// are dropped.
func (c *Client) Seasons(ctx context.Context, opts ...CallOption) ([]string, error) {
	data, err := c.cached(ctx, seasonsKey, "/seasons", opts)
	if err != nil {
		return nil, err
	}

	var seasons []string
	for _, v := range gjson.ParseBytes(data).Array() {
		if s := strings.TrimSpace(v.String()); s != "" {
			seasons = append(seasons, s)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(seasons)))
	return seasons, nil
}

// ProjectsBySeason returns the projects of season.
func (c *Client) ProjectsBySeason(ctx context.Context, season string, opts ...CallOption) ([]project.Project, error) {
	s, err := NormalizeSeason(season)
	if err != nil {
		return nil, err
	}

	data, err := c.cached(ctx, seasonListPrefix+s, "/projects/season/"+url.PathEscape(s), opts)
	if err != nil {
		return nil, err
	}

	projects := project.ParseList(data, s)
	if projects == nil {
		projects = []project.Project{}
	}
	return projects, nil
}

// ProjectByID returns the detailed record of one project. A project the
// server does not know is reported as an *HTTPError with status 404; see
// IsNotFound.
func (c *Client) ProjectByID(ctx context.Context, id string, opts ...CallOption) (*project.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrIDRequired
	}

	data, err := c.cached(ctx, detailPrefix+id, "/projects/details/"+url.PathEscape(id), opts)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	p := project.Parse(data)
	return &p, nil
}

// AllProjects returns the projects of every season. A season that fails to
// load is logged and skipped.
func (c *Client) AllProjects(ctx context.Context) ([]project.Project, error) {
	seasons, err := c.Seasons(ctx)
	if err != nil {
		return nil, err
	}

	lists := make([][]project.Project, len(seasons))

	var g errgroup.Group
	g.SetLimit(allProjectsLimit)
	for i, season := range seasons {
		g.Go(func() error {
			projects, err := c.ProjectsBySeason(ctx, season)
			if err != nil {
				log.WithError(err).Warnf("failed to fetch projects for season %s", season)
				return nil
			}
			lists[i] = projects
			return nil
		})
	}
	_ = g.Wait()

	all := []project.Project{}
	for _, l := range lists {
		all = append(all, l...)
	}
	return all, nil
}
