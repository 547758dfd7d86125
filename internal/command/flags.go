// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/api"
	"github.com/staranto/mthctl/internal/cache"
	"github.com/staranto/mthctl/internal/config"
	"github.com/staranto/mthctl/internal/output"
)

func init() {
	cfg, _ = config.Load()
}

var cfg config.Type

// newSchemaFlag and newTLDRFlag return fresh flags for every command so that
// parsed state is never shared between commands.
func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the schema",
		HideDefault: true,
	}
}

func newTLDRFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewGlobalFlags returns the output shaping flags shared by every command.
// params[0] is the config namespace, usually the command name.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: output.ColorDefault(),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("MTHCTL_FILTER"),
			),
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "show timestamps in the local timezone",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"local", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("local", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: output.FormatTable,
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with table output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewClientFlags returns the flags that shape the backend client. params[0]
// is the config namespace.
func NewClientFlags(params ...string) []cli.Flag {
	baseURL := &cli.StringFlag{
		Name:    "base-url",
		Aliases: []string{"u"},
		Usage:   "backend API root",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar(api.BaseURLEnv),
		),
		Value: api.DefaultBaseURL,
	}
	baseURL = NameSpacedValueChainFlagFromConfigFile(params[0], cfg.Source, baseURL, "base_url")

	token := &cli.StringFlag{
		Name:  "token",
		Usage: "bearer token for authenticated endpoints",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("MTHCTL_TOKEN"),
		),
	}
	token = NameSpacedValueChainFlagFromConfigFile(params[0], cfg.Source, token)

	return []cli.Flag{
		baseURL,
		token,
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "timeout for a single request",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"timeout", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("timeout", altsrc.StringSourcer(cfg.Source)),
			),
			Value: api.DefaultTimeout,
		},
		&cli.DurationFlag{
			Name:  "cache-ttl",
			Usage: "how long reads are reused within one invocation",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("cache_ttl", altsrc.StringSourcer(cfg.Source)),
			),
			Value: cache.DefaultTTL,
		},
		&cli.BoolFlag{
			Name:  "refresh",
			Usage: "ignore cached reads",
		},
	}
}

// NewAWSFlags returns the flags used to reach S3 document sources.
func NewAWSFlags(params ...string) []cli.Flag {
	profile := &cli.StringFlag{
		Name:  "aws-profile",
		Usage: "AWS profile for s3:// sources",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWS_PROFILE"),
		),
	}
	region := &cli.StringFlag{
		Name:  "aws-region",
		Usage: "AWS region for s3:// sources",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWS_REGION"),
		),
	}
	endpoint := &cli.StringFlag{
		Name:  "s3-endpoint",
		Usage: "alternate S3 endpoint, such as a local MinIO",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("MTHCTL_S3_ENDPOINT"),
		),
	}

	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(params[0], cfg.Source, profile, "aws_profile"),
		NameSpacedValueChainFlagFromConfigFile(params[0], cfg.Source, region, "aws_region"),
		NameSpacedValueChainFlagFromConfigFile(params[0], cfg.Source, endpoint, "s3_endpoint"),
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain. The config key defaults to the
// flag name.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag, key ...string) *cli.StringFlag {
	k := flag.Name
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}

	src := yaml.YAML(ns+"."+k, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(k, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
