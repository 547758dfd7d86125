// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/api"
	"github.com/staranto/mthctl/internal/meta"
	"github.com/staranto/mthctl/internal/output"
)

// defaultInterval is the watch polling period.
const defaultInterval = 30 * time.Second

// snapshot fetches season and keys its projects by id.
func snapshot(ctx context.Context, client *api.Client, season string) ([]byte, int, error) {
	projects, err := client.ProjectsBySeason(ctx, season, api.SkipCache())
	if err != nil {
		return nil, 0, err
	}
	raw, err := json.Marshal(projects)
	if err != nil {
		return nil, 0, err
	}
	keyed, err := output.KeyBy(raw, "id")
	return keyed, len(projects), err
}

func WatchCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "watch") {
		return nil
	}

	client := NewClient(cmd)
	season, err := resolveSeason(ctx, cmd, client)
	if err != nil {
		return err
	}

	interval := cmd.Duration("interval")
	if interval <= 0 {
		interval = defaultInterval
	}
	limit := int(cmd.Int("count"))
	w := writer(cmd)

	prev, n, err := snapshot(ctx, client, season)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "watching season %s: %d projects, every %s\n", season, n, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for polls := 0; limit == 0 || polls < limit; polls++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		cur, _, err := snapshot(ctx, client, season)
		if err != nil {
			// A failed poll is not fatal, the next tick tries again.
			log.WithError(err).Warnf("poll of season %s failed", season)
			continue
		}

		var diff bytes.Buffer
		changed, err := output.Diff(&diff, prev, cur, cmd.Bool("color"))
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(w, "--- %s season %s changed\n", time.Now().Format(time.RFC3339), season)
			_, _ = w.Write(diff.Bytes())
			prev = cur
		}
	}
	return nil
}

func WatchCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "watch",
		Usage:     "poll a season and print what changed",
		UsageText: `mthctl watch [SEASON] [--interval 30s] [--count N] [options]`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "time between polls",
				Value: defaultInterval,
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "stop after this many polls following the initial snapshot, 0 runs until interrupted",
			},
		},
		Action: WatchCommandAction,
		Meta:   meta,
	}).Build()
}
