// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/api"
	"github.com/staranto/mthctl/internal/meta"
)

func HealthCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "health") {
		return nil
	}

	client := NewClient(cmd)
	if !client.HealthCheck(ctx) {
		return fmt.Errorf("%w: %s", api.ErrUnreachable, client.BaseURL())
	}
	_, err := fmt.Fprintf(writer(cmd), "ok %s\n", client.BaseURL())
	return err
}

func HealthCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "health",
		Usage:     "check that the backend is reachable",
		UsageText: `mthctl health [options]`,
		Action:    HealthCommandAction,
		Meta:      meta,
	}).Build()
}
