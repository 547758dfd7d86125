// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/filters"
	"github.com/staranto/mthctl/internal/output"
)

// GlobalFlagsValidator checks the flags every command shares.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	for _, name := range []string{"attrs", "filter", "sort"} {
		if err := FlagValidators(c.String(name), JammedFlagValidator); err != nil {
			return fmt.Errorf("--%s %w", name, err)
		}
	}
	if _, err := filters.Parse(c.String("filter")); err != nil {
		return fmt.Errorf("--filter: %w", err)
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func MustBeTrueValidator(value any) error {
	if !value.(bool) {
		return errors.New("must be true")
	}
	return nil
}

func OutputValidator(value any) error {
	if !slices.Contains(output.Formats, value.(string)) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

// ExclusiveFlagsValidator fails when more than one of names is set.
func ExclusiveFlagsValidator(c *cli.Command, names ...string) error {
	var set []string
	for _, n := range names {
		if c.IsSet(n) {
			set = append(set, "--"+n)
		}
	}
	if len(set) > 1 {
		return fmt.Errorf("%s are mutually exclusive", strings.Join(set, " and "))
	}
	return nil
}
