// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestRenderMarkdown(t *testing.T) {
	cmd := &cli.Command{
		Name:      "seasons",
		Usage:     "list, add or remove seasons",
		UsageText: "mthctl seasons [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "add", Usage: "add a season"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output format"},
			&cli.BoolFlag{Name: "secret", Usage: "hidden", Hidden: true},
		},
	}

	md := string(renderMarkdown(cmd, examples["seasons"]))
	assert.Contains(t, md, "# mthctl-seasons 1")
	assert.Contains(t, md, "mthctl-seasons - list, add or remove seasons")
	assert.Contains(t, md, "`mthctl seasons [options]`")
	assert.Contains(t, md, "- `--add`: add a season")
	assert.Contains(t, md, "- `--output`, `-o`: output format")
	assert.NotContains(t, md, "secret")
	assert.Contains(t, md, "mthctl seasons --add 25-26")

	man := string(md2man.Render([]byte(md)))
	assert.Contains(t, man, ".TH")
}

func TestBuildTLDR(t *testing.T) {
	got := buildTLDR("health", "check that the backend is reachable", []example{
		{Desc: "Check the backend", Cmd: "mthctl   health"},
	})
	assert.Equal(t, "# mthctl-health\n\n"+
		"> Check that the backend is reachable.\n"+
		"> More information: `mthctl health --help`.\n\n"+
		"- Check the backend:\n\n"+
		"`mthctl health`\n", got)

	got = buildTLDR("bare", "", nil)
	assert.Contains(t, got, "`mthctl bare --help`")
}

func TestWriteFileIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.1")

	require.NoError(t, writeFileIfChanged(path, []byte("one\n"), true))
	before, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, writeFileIfChanged(path, []byte("one"), true))
	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime(), "unchanged content is not rewritten")

	require.NoError(t, writeFileIfChanged(path, []byte("two"), true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestExamplesCoverCommands(t *testing.T) {
	for name, exs := range examples {
		for _, ex := range exs {
			assert.Contains(t, ex.Cmd, "mthctl", "example of %s", name)
		}
	}
}
