// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/api"
	"github.com/staranto/mthctl/internal/attrs"
	"github.com/staranto/mthctl/internal/meta"
	"github.com/staranto/mthctl/internal/output"
	"github.com/staranto/mthctl/internal/version"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr mthctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "mthctl", subcmd)
			c.Stdout = writer(cmd)
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// DumpSchemaIfRequested prints the attribute schema for the provided type when
// --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if t != nil && cmd.Bool("schema") {
		output.DumpSchema(writer(cmd), t)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// Emit marshals results and passes them to the common output routine.
func Emit(results any, al attrs.AttrList, cmd *cli.Command, parent string) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return output.SliceDiceSpit(raw, al, output.OptionsFromCommand(cmd), parent, writer(cmd))
}

// EmitResult prints the acknowledgement of a mutation, falling back to
// fallback when the server sent no message.
func EmitResult(cmd *cli.Command, res api.Result, fallback string) error {
	if cmd.String("output") != output.FormatTable {
		return Emit(res, attrs.Defaults("success", "message"), cmd, "")
	}
	msg := res.Message
	if msg == "" {
		msg = fallback
	}
	_, err := fmt.Fprintln(writer(cmd), msg)
	return err
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// NewClient builds a backend client from the client flags of cmd.
func NewClient(cmd *cli.Command) *api.Client {
	return api.NewClient(
		api.WithBaseURL(cmd.String("base-url")),
		api.WithToken(cmd.String("token")),
		api.WithTTL(cmd.Duration("cache-ttl")),
		api.WithHTTPClient(&http.Client{Timeout: cmd.Duration("timeout")}),
		api.WithUserAgent("mthctl/"+version.Version),
	)
}

// ReadOptions maps --refresh onto the cached read options.
func ReadOptions(cmd *cli.Command) []api.CallOption {
	if cmd.Bool("refresh") {
		return []api.CallOption{api.SkipCache()}
	}
	return nil
}

// writer is where command output goes. Tests swap the root Writer.
func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// QueryCommandBuilder is a helper that constructs a cli.Command for
// subcommands using a consistent pattern. It accepts the command name, usage
// text, optional UsageText, custom flags, the action handler, and meta. The
// builder automatically wires metadata, adds tldr/schema flags, applies
// global and client flags, and sets up validators.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	flags := append([]cli.Flag{}, qcb.Flags...)
	flags = append(flags, newTLDRFlag(), newSchemaFlag())
	flags = append(flags, NewGlobalFlags(qcb.Name)...)
	flags = append(flags, NewClientFlags(qcb.Name)...)

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}

// QueryActionRunner[T] encapsulates the common query action pattern. It
// handles GetMeta, the short-circuit checks, BuildAttrs, client construction
// and output emission, with the data fetching provided by FetchFn.
type QueryActionRunner[T any] struct {
	CommandName  string
	SchemaType   reflect.Type
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command, *api.Client) ([]T, error)
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner[T]) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	// Step 1: GetMeta + debug.
	m := GetMeta(cmd)
	if len(m.Args) > 1 {
		log.Debugf("Executing action for %v", m.Args[1:])
	}

	// Step 2: Short-circuit checks.
	if ShortCircuitTLDR(ctx, cmd, qar.CommandName) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, qar.SchemaType) {
		return nil
	}

	// Step 3: BuildAttrs + debug.
	attrs := BuildAttrs(cmd, qar.DefaultAttrs...)
	log.Debugf("attrs: %v", attrs.String())

	// Step 4: Fetch data.
	client := NewClient(cmd)
	results, err := qar.FetchFn(ctx, cmd, client)
	if err != nil {
		return err
	}
	if results == nil {
		results = []T{}
	}

	state := client.CacheState()
	log.Debugf("cache: %d entries, %d hits, %d misses, ttl %s",
		len(state.Entries), state.Hits, state.Misses, state.TTL)

	// Step 5: Emit + return.
	return Emit(results, attrs, cmd, "")
}
