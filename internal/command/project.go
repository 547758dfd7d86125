// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/api"
	"github.com/staranto/mthctl/internal/meta"
	"github.com/staranto/mthctl/internal/project"
)

// detailAttrs are the default columns of a single project.
var detailAttrs = []string{
	"id", "season", "landowner", "status", "address", "city", "phone", "email",
	"totalAcres", "totalTrees", "plantingDate",
}

func ProjectCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := QueryActionRunner[project.Project]{
		CommandName:  "project",
		SchemaType:   reflect.TypeOf(project.Project{}),
		DefaultAttrs: detailAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) ([]project.Project, error) {
			p, err := client.ProjectByID(ctx, cmd.Args().First(), ReadOptions(cmd)...)
			if err != nil || p == nil {
				return nil, err
			}
			return []project.Project{*p}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func ProjectCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "project",
		Usage:     "show one project",
		UsageText: `mthctl project ID [options]`,
		Action:    ProjectCommandAction,
		Meta:      meta,
	}).Build()
}
