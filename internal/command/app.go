// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/staranto/mthctl/internal/config"
	"github.com/staranto/mthctl/internal/meta"
	"github.com/urfave/cli/v3"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the mthctl
	// subcommand and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}
	config.SetNamespace(ns)

	meta := meta.Meta{
		Args:        args,
		Config:      config.Config,
		Context:     ctx,
		Namespace:   ns,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "mthctl",
		Usage: "Magic Tree House project control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "mthctl version info",
				HideDefault: true,
			},
		},
		// --set values routinely carry commas.
		DisableSliceFlagSeparator: true,
	}

	app.Commands = append(app.Commands,
		SeasonsCommandBuilder(app, meta),
		ProjectsCommandBuilder(app, meta),
		ProjectCommandBuilder(app, meta),
		CreateCommandBuilder(app, meta),
		UpdateCommandBuilder(app, meta),
		DeleteCommandBuilder(app, meta),
		MineCommandBuilder(app, meta),
		DocsCommandBuilder(app, meta),
		CommentCommandBuilder(app, meta),
		WatchCommandBuilder(app, meta),
		HealthCommandBuilder(app, meta),
		CompletionCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
