// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pciregs

import (
	"bytes"
	"io"
	"testing"

	"github.com/platinasystems/nvmecheck/cmd/internal/setup"
	"github.com/platinasystems/nvmecheck/internal/test"
)

func TestSim(t *testing.T) {
	assert := test.Assert{TB: t}
	buf := new(bytes.Buffer)
	defer func(w io.Writer) { setup.Out = w }(setup.Out)
	setup.Out = buf
	assert.Nil(Command{}.Main("-sim", "-l", t.TempDir()))
	assert.Match(buf.String(), `^PASS pciregs/allPciRegs \(.*\)\n1 of 1 passed\n$`)
}

func TestArgs(t *testing.T) {
	assert := test.Assert{TB: t}
	err := Command{}.Main("-sim", "-l", t.TempDir(), "bogus")
	assert.Match(err.Error(), `^\[bogus\]: unexpected$`)
	err = Command{}.Main("-d", "nvme0", "-l", t.TempDir())
	assert.Match(err.Error(), "invalid bus address")
}
