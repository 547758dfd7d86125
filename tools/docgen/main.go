// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/command"
)

// Minimal doc generator. Walks the mthctl command tree and generates:
//   - docs/commands/mthctl-<cmd>.md, the canonical markdown
//   - docs/man/share/man1/mthctl-<cmd>.1 via md2man
//   - docs/tldr/mthctl-<cmd>.md from the examples below

type example struct {
	Desc string
	Cmd  string
}

var examples = map[string][]example{
	"seasons": {
		{"List every season, newest first", "mthctl seasons"},
		{"Add a season", "mthctl seasons --add 25-26"},
	},
	"projects": {
		{"List the projects of the newest season", "mthctl projects"},
		{"List planted projects of a season, sorted by landowner", "mthctl projects 24-25 --filter status=Planted --sort landowner"},
		{"List the projects of every season as JSON", "mthctl projects --all -o json"},
	},
	"project": {
		{"Show one project", "mthctl project rec123"},
		{"Add the acreage split to the output", "mthctl project rec123 --attrs wetlandAcres,uplandAcres"},
	},
	"create": {
		{"Create a project", "mthctl create --season 24-25 --last-name Hill --address '1 Main St' --property-id P-1 --site-number 3"},
	},
	"update": {
		{"Set the status of a project and show what changed", "mthctl update rec123 --set status=Planted --diff"},
		{"Set a numeric field", "mthctl update rec123 --set totalTrees:=1500"},
	},
	"delete": {
		{"Delete a project", "mthctl delete rec123 --yes"},
	},
	"mine": {
		{"Show the primary project of the signed in landowner", "mthctl mine --token $MTHCTL_TOKEN"},
	},
	"docs": {
		{"List the documents of a project", "mthctl docs rec123"},
		{"Upload a draft map from S3", "mthctl docs rec123 --type draftMap --upload s3://maps/rec123.pdf"},
		{"Remove the final map", "mthctl docs rec123 --type finalMap --rm"},
	},
	"comment": {
		{"Comment on a draft map", "mthctl comment rec123 please move the north boundary"},
	},
	"watch": {
		{"Print changes to a season every minute", "mthctl watch 24-25 --interval 1m"},
	},
	"health": {
		{"Check the backend", "mthctl health --base-url https://mth.example.org/api"},
	},
	"completion": {
		{"Load bash completion", "source <(mthctl completion bash)"},
	},
}

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	commandsDir := filepath.Join(repoRoot, "docs", "commands")
	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")

	for _, dir := range []string{commandsDir, manOutDir, tldrOutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fatalf("creating output dir %s: %v", dir, err)
		}
	}

	app, err := command.InitApp(context.Background(), []string{"mthctl"})
	if err != nil {
		fatalf("building command tree: %v", err)
	}

	var processed int
	for _, cmd := range app.Commands {
		name := "mthctl-" + cmd.Name
		md := renderMarkdown(cmd, examples[cmd.Name])

		mdPath := filepath.Join(commandsDir, name+".md")
		if err := writeFileIfChanged(mdPath, md, writeOnlyIfChanged); err != nil {
			fatalf("writing markdown for %s: %v", cmd.Name, err)
		}

		manPath := filepath.Join(manOutDir, name+".1")
		if err := writeFileIfChanged(manPath, md2man.Render(md), writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", cmd.Name, err)
		}

		tldr := buildTLDR(cmd.Name, cmd.Usage, examples[cmd.Name])
		tldrPath := filepath.Join(tldrOutDir, name+".md")
		if err := writeFileIfChanged(tldrPath, []byte(tldr), writeOnlyIfChanged); err != nil {
			fatalf("writing TLDR for %s: %v", cmd.Name, err)
		}

		processed++
	}

	if processed == 0 {
		fatalf("no commands found")
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

// renderMarkdown writes the man page source of one command in the heading
// layout md2man expects.
func renderMarkdown(cmd *cli.Command, exs []example) []byte {
	var b bytes.Buffer
	name := "mthctl-" + cmd.Name

	fmt.Fprintf(&b, "# %s 1\n\n", name)
	fmt.Fprintf(&b, "## NAME\n\n%s - %s\n\n", name, cmd.Usage)

	if cmd.UsageText != "" {
		fmt.Fprintf(&b, "## SYNOPSIS\n\n`%s`\n\n", cmd.UsageText)
	}

	if opts := flagLines(cmd.Flags); len(opts) > 0 {
		b.WriteString("## OPTIONS\n\n")
		for _, o := range opts {
			b.WriteString(o + "\n")
		}
		b.WriteString("\n")
	}

	if len(exs) > 0 {
		b.WriteString("## EXAMPLES\n\n")
		for _, ex := range exs {
			fmt.Fprintf(&b, "%s:\n\n    %s\n\n", ex.Desc, sanitizeCommand(ex.Cmd))
		}
	}

	return b.Bytes()
}

// flagLines renders one list item per visible flag.
func flagLines(flags []cli.Flag) []string {
	var lines []string
	for _, f := range flags {
		if v, ok := f.(interface{ IsVisible() bool }); ok && !v.IsVisible() {
			continue
		}

		names := make([]string, 0, len(f.Names()))
		for _, n := range f.Names() {
			if len(n) == 1 {
				names = append(names, "`-"+n+"`")
			} else {
				names = append(names, "`--"+n+"`")
			}
		}

		usage := ""
		if u, ok := f.(interface{ GetUsage() string }); ok {
			usage = u.GetUsage()
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", strings.Join(names, ", "), usage))
	}
	return lines
}

func buildTLDR(cmd, short string, exs []example) string {
	var b strings.Builder
	// Header
	b.WriteString("# mthctl-" + cmd + "\n\n")
	if short != "" {
		b.WriteString("> " + strings.ToUpper(short[:1]) + short[1:] + ".\n")
	} else {
		b.WriteString("> mthctl " + cmd + "\n")
	}
	b.WriteString("> More information: `mthctl " + cmd + " --help`.\n\n")

	if len(exs) == 0 {
		// Fallback examples
		b.WriteString("- Show help for the command:\n\n")
		b.WriteString("`mthctl " + cmd + " --help`\n")
		b.WriteString("\n")
		return b.String()
	}

	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + strings.TrimSpace(ex.Desc) + ":\n\n")
		b.WriteString("`" + sanitizeCommand(ex.Cmd) + "`\n")
	}
	return b.String()
}

func sanitizeCommand(s string) string {
	// For now, just compress runs of whitespace
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
