// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/api"
	"github.com/staranto/mthctl/internal/meta"
	"github.com/staranto/mthctl/internal/project"
)

// ErrTokenRequired is returned by landowner views run without a token.
var ErrTokenRequired = errors.New("a landowner token is required, set --token or MTHCTL_TOKEN")

func MineCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := QueryActionRunner[project.Project]{
		CommandName:  "mine",
		SchemaType:   reflect.TypeOf(project.Project{}),
		DefaultAttrs: listAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) ([]project.Project, error) {
			if cmd.String("token") == "" {
				return nil, ErrTokenRequired
			}
			if cmd.Bool("all") {
				return client.MyProjects(ctx)
			}
			p, err := client.MyProject(ctx)
			if err != nil || p == nil {
				return nil, err
			}
			return []project.Project{*p}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func MineCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "mine",
		Usage:     "show the projects of the signed in landowner",
		UsageText: `mthctl mine [--all] [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "every project of the landowner, not just the primary one",
			},
		},
		Action: MineCommandAction,
		Meta:   meta,
	}).Build()
}
