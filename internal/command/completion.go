// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/mthctl/internal/meta"
)

const bashCompletionScript = `# bash completion for mthctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_mthctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "seasons projects project create update delete mine docs comment watch health completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --local -l --output -o --sort -s --titles -t --tldr --schema --base-url -u --token --timeout --cache-ttl --refresh"

    case "$cmd" in
        seasons)
            local opts="$common --add --rm"
            ;;
        projects|mine)
            local opts="$common --all"
            ;;
        create)
            local opts="$common --season --last-name --first-name --address --city --zip --county --property-id --site-number --phone --email --status --land-region --contact-date --planting-date"
            ;;
        update)
            local opts="$common --set --diff"
            ;;
        delete)
            local opts="$common --yes -y"
            ;;
        docs)
            local opts="$common --type --upload --rm --name --content-type --max-size --aws-profile --aws-region --s3-endpoint"
            ;;
        watch)
            local opts="$common --interval --count"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "table json yaml raw" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--type" ]]; then
        COMPREPLY=( $(compgen -W "carbonDocs draftMap finalMap replantingMap otherAttachments postPlantingReports" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--upload" ]]; then
        COMPREPLY=( $(compgen -f -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _mthctl mthctl
`

const zshCompletionScript = `#compdef mthctl

_mthctl() {
  local -a cmds
  cmds=(
    'seasons:list, add or remove seasons'
    'projects:list the projects of a season'
    'project:show one project'
    'create:create a project'
    'update:update fields of a project'
    'delete:delete a project'
    'mine:show the projects of the signed in landowner'
    'docs:list, upload or remove project documents'
    'comment:comment on the draft map of a project'
    'watch:poll a season and print what changed'
    'health:check that the backend is reachable'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-l --local)'{-l,--local}'[local timestamps]'
  '(-o --output)'{-o,--output}'[output format]:format:(table json yaml raw)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '(-u --base-url)'{-u,--base-url}'[backend API root]:url'
  '--token[bearer token]:token'
  '--timeout[request timeout]:duration'
  '--cache-ttl[read cache ttl]:duration'
  '--refresh[ignore cached reads]'
  '--schema[dump schema]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'mthctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    seasons)
      _arguments -C $common '--add[add a season]:season' '--rm[remove a season]:season'
      ;;
    projects|mine)
      _arguments -C $common '--all[every season]' '::season'
      ;;
    update)
      _arguments -C $common '*--set[field assignment]:assignment' '--diff[print the change]' ':id'
      ;;
    delete)
      _arguments -C $common '(-y --yes)'{-y,--yes}'[confirm]' ':id'
      ;;
    docs)
      _arguments -C $common \
        '--type[document type]:type:(carbonDocs draftMap finalMap replantingMap otherAttachments postPlantingReports)' \
        '--upload[source]:file:_files' \
        '--rm[remove the document]' \
        '--name[file name]:name' \
        '--content-type[content type]:type' \
        '--max-size[largest file]:bytes' \
        '--aws-profile[AWS profile]:profile' \
        '--aws-region[AWS region]:region' \
        '--s3-endpoint[S3 endpoint]:url' \
        ':id'
      ;;
    watch)
      _arguments -C $common '--interval[time between polls]:duration' '--count[polls]:count' '::season'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:arg'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _mthctl mthctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	w := writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: mthctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "mthctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
