// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/api"
	"github.com/staranto/mthctl/internal/attachment"
	"github.com/staranto/mthctl/internal/aws"
	"github.com/staranto/mthctl/internal/meta"
	"github.com/staranto/mthctl/internal/project"
)

// docRow is one attached document of a project.
type docRow struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// documentRows lists every attached document of p, slot by slot.
func documentRows(p project.Project) ([]docRow, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	var rows []docRow
	for _, slot := range attachment.Slots {
		for _, u := range gjson.GetBytes(raw, slot.Field).Array() {
			rows = append(rows, docRow{Type: slot.Key, Label: slot.Label, URL: u.String()})
		}
	}
	return rows, nil
}

// s3Factory returns the S3 client constructor for the aws flags of cmd.
func s3Factory(cmd *cli.Command) func(context.Context) (aws.ObjectGetter, error) {
	return func(ctx context.Context) (aws.ObjectGetter, error) {
		cfg, err := aws.LoadAWSConfig(ctx,
			aws.WithProfile(cmd.String("aws-profile")),
			aws.WithRegion(cmd.String("aws-region")),
		)
		if err != nil {
			return nil, err
		}
		return aws.NewS3(cfg, aws.WithS3Endpoint(cmd.String("s3-endpoint"))), nil
	}
}

func DocsCommandAction(ctx context.Context, cmd *cli.Command) error {
	if err := ExclusiveFlagsValidator(cmd, "upload", "rm"); err != nil {
		return err
	}

	id := cmd.Args().First()
	upload, rm := cmd.String("upload"), cmd.Bool("rm")

	if upload == "" && !rm {
		runner := QueryActionRunner[docRow]{
			CommandName:  "docs",
			SchemaType:   reflect.TypeOf(docRow{}),
			DefaultAttrs: []string{"type", "url"},
			FetchFn: func(ctx context.Context, cmd *cli.Command, client *api.Client) ([]docRow, error) {
				p, err := client.ProjectByID(ctx, id, ReadOptions(cmd)...)
				if err != nil || p == nil {
					return nil, err
				}
				return documentRows(*p)
			},
		}
		return runner.Run(ctx, cmd)
	}

	if cmd.String("type") == "" {
		return errors.New("--type is required to change a document")
	}
	slot, err := attachment.LookupSlot(cmd.String("type"))
	if err != nil {
		return fmt.Errorf("%w, want one of %v", err, attachment.SlotKeys())
	}

	client := NewClient(cmd)

	if rm {
		res, err := client.DeleteDocument(ctx, id, slot.Key)
		if err != nil {
			return err
		}
		return EmitResult(cmd, res, fmt.Sprintf("removed %s from %s", slot.Label, id))
	}

	loader := attachment.Loader{
		S3:      s3Factory(cmd),
		MaxSize: int(cmd.Int("max-size")),
	}
	doc, err := loader.Load(ctx, upload, cmd.String("name"), cmd.String("content-type"))
	if err != nil {
		return err
	}
	log.Debugf("uploading %s as %s to %s", doc.Filename, slot.Key, id)

	res, err := client.UploadDocument(ctx, id, slot.Key, doc)
	if err != nil {
		return err
	}
	return EmitResult(cmd, res, fmt.Sprintf("uploaded %s as %s to %s", doc.Filename, slot.Label, id))
}

func DocsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "type",
			Usage: fmt.Sprintf("document type, one of %v", attachment.SlotKeys()),
		},
		&cli.StringFlag{
			Name:  "upload",
			Usage: "upload a local file or s3://bucket/key",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolFlag{
			Name:  "rm",
			Usage: "remove the document of --type",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "file name to upload as",
		},
		&cli.StringFlag{
			Name:  "content-type",
			Usage: "content type to upload as",
		},
		&cli.IntFlag{
			Name:  "max-size",
			Usage: "largest file in bytes that is sent",
			Value: attachment.DefaultMaxSize,
		},
	}

	return (&QueryCommandBuilder{
		Name:      "docs",
		Usage:     "list, upload or remove project documents",
		UsageText: `mthctl docs ID [--type TYPE (--upload SRC | --rm)] [options]`,
		Flags:     append(flags, NewAWSFlags("docs")...),
		Action:    DocsCommandAction,
		Meta:      meta,
	}).Build()
}
