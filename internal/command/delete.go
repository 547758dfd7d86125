// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/meta"
)

func DeleteCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "delete") {
		return nil
	}
	if err := FlagValidators(cmd.Bool("yes"), MustBeTrueValidator); err != nil {
		return fmt.Errorf("--yes %w to delete a project", err)
	}

	id := cmd.Args().First()
	res, err := NewClient(cmd).DeleteProject(ctx, id)
	if err != nil {
		return err
	}
	return EmitResult(cmd, res, fmt.Sprintf("deleted project %s", id))
}

func DeleteCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "delete",
		Usage:     "delete a project",
		UsageText: `mthctl delete ID --yes`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "confirm the deletion",
			},
		},
		Action: DeleteCommandAction,
		Meta:   meta,
	}).Build()
}
