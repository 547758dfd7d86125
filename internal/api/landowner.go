// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/mthctl/internal/project"
)

// MyProject returns the primary project of the authenticated landowner, or
// nil when there is none. Landowner views are never cached since they depend
// on the token.
func (c *Client) MyProject(ctx context.Context) (*project.Project, error) {
	data, err := c.Fetch(ctx, "/projects/my-project")
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch landowner project: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	p := project.Parse(data)
	return &p, nil
}

// MyProjects returns every project tied to the authenticated landowner.
func (c *Client) MyProjects(ctx context.Context) ([]project.Project, error) {
	data, err := c.Fetch(ctx, "/projects/my-projects")
	if err != nil {
		if IsNotFound(err) {
			return []project.Project{}, nil
		}
		return nil, fmt.Errorf("failed to fetch landowner projects: %w", err)
	}

	projects := project.ParseList(data)
	if projects == nil {
		projects = []project.Project{}
	}
	return projects, nil
}

// HealthCheck reports whether the server behind the base URL answers at all.
// The "/api" suffix is dropped so the probe hits the server root; any HTTP
// status counts as reachable.
func (c *Client) HealthCheck(ctx context.Context) bool {
	root := strings.TrimSuffix(c.baseURL, "/api")
	req, reqID, err := c.newRequest(ctx, http.MethodGet, root, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Debugf("health check %s failed", reqID)
		return false
	}
	_ = resp.Body.Close()
	log.Debugf("health check %s status=%d", reqID, resp.StatusCode)
	return true
}
