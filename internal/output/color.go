// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"os"

	"golang.org/x/term"
)

// ColorDefault reports whether colored output should be on when --color is
// not given: only for a terminal, and never when NO_COLOR is set.
func ColorDefault() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
