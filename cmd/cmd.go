// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package cmd defines the command interface multiplexed by nvmecheck.
package cmd

import (
	"strings"

	"github.com/platinasystems/nvmecheck/lang"
)

// Helpers are the multiplexer's own commands.
var Helpers = map[string]bool{
	"apropos": true,
	"help":    true,
	"man":     true,
	"usage":   true,
}

// Swap rewrites "COMMAND -[-]HELPER ARGS..." as "HELPER COMMAND ARGS..."
// and "-[-]HELPER ARGS..." as "HELPER ARGS...".
func Swap(args []string) {
	for i := 0; i < len(args) && i < 2; i++ {
		if !strings.HasPrefix(args[i], "-") {
			continue
		}
		h := strings.TrimLeft(args[i], "-")
		if Helpers[h] {
			copy(args[1:i+1], args[:i])
			args[0] = h
		}
		return
	}
}

type Cmd interface {
	Apropos() lang.Alt
	Main(...string) error
	// String returns the command name.
	String() string
	Usage() string
	/* Optional
	Kind() Kind
	Man() lang.Alt
	*/
}
