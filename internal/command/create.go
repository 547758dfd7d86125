// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/api"
	"github.com/staranto/mthctl/internal/meta"
	"github.com/staranto/mthctl/internal/project"
)

// draftFlags maps each string flag of create onto the Draft field it fills.
var draftFlags = []struct {
	name  string
	usage string
	set   func(*project.Draft, string)
}{
	{"season", "season of the project (required)", func(d *project.Draft, v string) { d.Season = v }},
	{"last-name", "landowner last name (required)", func(d *project.Draft, v string) { d.OwnerLastName = v }},
	{"first-name", "landowner first name", func(d *project.Draft, v string) { d.OwnerFirstName = v }},
	{"address", "property address (required)", func(d *project.Draft, v string) { d.Address = v }},
	{"city", "property city", func(d *project.Draft, v string) { d.City = v }},
	{"zip", "property zip code", func(d *project.Draft, v string) { d.ZipCode = v }},
	{"county", "property county", func(d *project.Draft, v string) { d.County = v }},
	{"property-id", "county property id (required)", func(d *project.Draft, v string) { d.PropertyID = v }},
	{"phone", "landowner phone", func(d *project.Draft, v string) { d.Phone = v }},
	{"email", "landowner email", func(d *project.Draft, v string) { d.Email = v }},
	{"status", "initial status", func(d *project.Draft, v string) { d.Status = v }},
	{"land-region", "land region", func(d *project.Draft, v string) { d.LandRegion = v }},
	{"contact-date", "first contact date", func(d *project.Draft, v string) { d.ContactDate = v }},
	{"planting-date", "planned planting date", func(d *project.Draft, v string) { d.PlantingDate = v }},
}

// draftFromCommand collects a Draft from the create flags.
func draftFromCommand(cmd *cli.Command) project.Draft {
	var d project.Draft
	for _, f := range draftFlags {
		f.set(&d, cmd.String(f.name))
	}
	d.SiteNumber = int(cmd.Int("site-number"))
	return d
}

func CreateCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := QueryActionRunner[project.Project]{
		CommandName:  "create",
		SchemaType:   reflect.TypeOf(project.Draft{}),
		DefaultAttrs: []string{"id", "season", "landowner", "status"},
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) ([]project.Project, error) {
			p, err := client.CreateProject(ctx, draftFromCommand(cmd))
			if err != nil || p == nil {
				return nil, err
			}
			return []project.Project{*p}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func CreateCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:  "site-number",
			Usage: "site number (required)",
		},
	}
	for _, f := range draftFlags {
		flags = append(flags, &cli.StringFlag{
			Name:  f.name,
			Usage: f.usage,
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		})
	}

	return (&QueryCommandBuilder{
		Name:      "create",
		Usage:     "create a project",
		UsageText: `mthctl create --season SEASON --last-name NAME --address ADDR --property-id ID --site-number N [options]`,
		Flags:     flags,
		Action:    CreateCommandAction,
		Meta:      meta,
	}).Build()
}
