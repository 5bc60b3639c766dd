// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cmd

import (
	"strings"
	"testing"

	"github.com/platinasystems/nvmecheck/internal/test"
	"github.com/platinasystems/nvmecheck/lang"
)

type hw struct{}

func (hw) Apropos() lang.Alt    { return lang.Alt{lang.EnUS: "hw"} }
func (hw) Main(...string) error { return nil }
func (hw) String() string       { return "hw" }
func (hw) Usage() string        { return "hw" }
func (hw) Kind() Kind           { return Hardware }

func TestSwap(t *testing.T) {
	assert := test.Assert{TB: t}
	for _, tc := range []struct{ in, out string }{
		{"queues -man", "man queues"},
		{"queues --help -v", "help queues -v"},
		{"-apropos", "apropos"},
		{"queues -v", "queues -v"},
		{"-sim queues", "-sim queues"},
	} {
		args := strings.Fields(tc.in)
		Swap(args)
		assert.Equal(strings.Join(args, " "), tc.out)
	}
}

func TestKind(t *testing.T) {
	assert := test.Assert{TB: t}
	k := WhatKind(hw{})
	assert.True(k.IsHardware())
	assert.False(k.IsHidden())
	assert.Equal(k.String(), "hardware")
	assert.Equal(Kind(0).String(), "builtin")
	assert.Equal((Hidden | Hardware).String(), "unknown")
}
