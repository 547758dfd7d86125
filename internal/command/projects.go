// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/api"
	"github.com/staranto/mthctl/internal/meta"
	"github.com/staranto/mthctl/internal/project"
)

// ErrNoSeasons is returned when a season has to be inferred and the backend
// has none.
var ErrNoSeasons = errors.New("no seasons found")

// listAttrs are the default columns of every project listing.
var listAttrs = []string{"id", "season", "landowner", "status", "location", "totalTrees"}

// resolveSeason returns the season named on the command line, or the newest
// season when none is given.
func resolveSeason(ctx context.Context, cmd *cli.Command, client *api.Client) (string, error) {
	if s := cmd.Args().First(); s != "" {
		return s, nil
	}

	seasons, err := client.Seasons(ctx, ReadOptions(cmd)...)
	if err != nil {
		return "", err
	}
	if len(seasons) == 0 {
		return "", ErrNoSeasons
	}
	log.Debugf("defaulting to newest season %s", seasons[0])
	return seasons[0], nil
}

func ProjectsCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := QueryActionRunner[project.Project]{
		CommandName:  "projects",
		SchemaType:   reflect.TypeOf(project.Project{}),
		DefaultAttrs: listAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) ([]project.Project, error) {
			if cmd.Bool("all") {
				if cmd.Bool("refresh") {
					client.ClearCache()
				}
				return client.AllProjects(ctx)
			}

			season, err := resolveSeason(ctx, cmd, client)
			if err != nil {
				return nil, err
			}
			return client.ProjectsBySeason(ctx, season, ReadOptions(cmd)...)
		},
	}
	return runner.Run(ctx, cmd)
}

func ProjectsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "projects",
		Usage:     "list the projects of a season",
		UsageText: `mthctl projects [SEASON] [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "list the projects of every season",
			},
		},
		Action: ProjectsCommandAction,
		Meta:   meta,
	}).Build()
}
