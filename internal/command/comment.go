// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/api"
	"github.com/staranto/mthctl/internal/meta"
	"github.com/staranto/mthctl/internal/project"
)

func CommentCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := QueryActionRunner[project.Project]{
		CommandName:  "comment",
		DefaultAttrs: []string{"id", "landowner", "draftMapComments:comments"},
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) ([]project.Project, error) {
			args := cmd.Args().Slice()
			var id, text string
			if len(args) > 0 {
				id = args[0]
				text = strings.Join(args[1:], " ")
			}

			p, err := client.AddDraftMapComment(ctx, id, text)
			if err != nil || p == nil {
				return nil, err
			}
			return []project.Project{*p}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func CommentCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "comment",
		Usage:     "comment on the draft map of a project",
		UsageText: `mthctl comment ID TEXT... [options]`,
		Action:    CommentCommandAction,
		Meta:      meta,
	}).Build()
}
