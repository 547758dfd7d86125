// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/api"
	"github.com/staranto/mthctl/internal/meta"
	"github.com/staranto/mthctl/internal/output"
	"github.com/staranto/mthctl/internal/project"
)

// ParseAssignments turns --set values into an update payload. "key=value"
// sets a string; "key:=value" sets a raw JSON value such as 12, true or null.
func ParseAssignments(sets []string) (map[string]any, error) {
	fields := make(map[string]any, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("invalid assignment %q, want key=value", s)
		}

		raw := strings.HasSuffix(key, ":")
		key = strings.TrimSpace(strings.TrimSuffix(key, ":"))
		if key == "" {
			return nil, fmt.Errorf("invalid assignment %q, empty key", s)
		}

		if !raw {
			fields[key] = value
			continue
		}

		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return nil, fmt.Errorf("invalid JSON value for %s: %w", key, err)
		}
		fields[key] = v
	}
	return fields, nil
}

func UpdateCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "update") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(project.Project{})) {
		return nil
	}

	id := cmd.Args().First()
	fields, err := ParseAssignments(cmd.StringSlice("set"))
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return api.ErrNoFields
	}
	log.Debugf("update %s: %v", id, fields)

	if !cmd.Bool("diff") {
		runner := QueryActionRunner[project.Project]{
			CommandName:  "update",
			DefaultAttrs: detailAttrs,
			FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) ([]project.Project, error) {
				p, err := client.UpdateProject(ctx, id, fields)
				if err != nil || p == nil {
					return nil, err
				}
				return []project.Project{*p}, nil
			},
		}
		return runner.Run(ctx, cmd)
	}

	client := NewClient(cmd)
	before, err := client.ProjectByID(ctx, id, api.SkipCache())
	if err != nil {
		return err
	}
	after, err := client.UpdateProject(ctx, id, fields)
	if err != nil {
		return err
	}

	return diffProjects(cmd, before, after)
}

// diffProjects prints the difference between two project snapshots.
func diffProjects(cmd *cli.Command, before, after *project.Project) error {
	if before == nil {
		before = &project.Project{}
	}
	if after == nil {
		after = &project.Project{}
	}

	left, err := json.Marshal(before)
	if err != nil {
		return err
	}
	right, err := json.Marshal(after)
	if err != nil {
		return err
	}

	changed, err := output.Diff(writer(cmd), left, right, cmd.Bool("color"))
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(writer(cmd), "no changes")
	}
	return nil
}

func UpdateCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "update",
		Usage:     "update fields of a project",
		UsageText: `mthctl update ID --set key=value [--set key:=json ...] [options]`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "field assignment, repeatable",
			},
			&cli.BoolFlag{
				Name:  "diff",
				Usage: "print the change instead of the updated project",
			},
		},
		Action: UpdateCommandAction,
		Meta:   meta,
	}).Build()
}
