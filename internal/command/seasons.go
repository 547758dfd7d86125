// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/api"
	"github.com/staranto/mthctl/internal/meta"
)

// seasonRow is one line of seasons output.
type seasonRow struct {
	Season string `json:"season"`
}

func SeasonsCommandAction(ctx context.Context, cmd *cli.Command) error {
	if err := ExclusiveFlagsValidator(cmd, "add", "rm"); err != nil {
		return err
	}

	if name := cmd.String("add"); name != "" {
		res, err := NewClient(cmd).AddSeason(ctx, name)
		if err != nil {
			return err
		}
		return EmitResult(cmd, res, fmt.Sprintf("added season %s", name))
	}

	if name := cmd.String("rm"); name != "" {
		res, err := NewClient(cmd).DeleteSeason(ctx, name)
		if err != nil {
			return err
		}
		return EmitResult(cmd, res, fmt.Sprintf("deleted season %s", name))
	}

	runner := QueryActionRunner[seasonRow]{
		CommandName:  "seasons",
		SchemaType:   reflect.TypeOf(seasonRow{}),
		DefaultAttrs: []string{"season"},
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) ([]seasonRow, error) {
			seasons, err := client.Seasons(ctx, ReadOptions(cmd)...)
			if err != nil {
				return nil, err
			}
			log.Debugf("seasons: %v", seasons)

			rows := make([]seasonRow, 0, len(seasons))
			for _, s := range seasons {
				rows = append(rows, seasonRow{Season: s})
			}
			return rows, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func SeasonsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "seasons",
		Usage:     "list, add or remove seasons",
		UsageText: `mthctl seasons [--add SEASON | --rm SEASON] [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "add",
				Usage: "add a season, such as 25-26",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
			&cli.StringFlag{
				Name:  "rm",
				Usage: "remove a season",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
		},
		Action: SeasonsCommandAction,
		Meta:   meta,
	}).Build()
}
