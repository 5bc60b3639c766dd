// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ctrlr

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
	assert.Match(buf.String(), "^CAP\t0x[0-9a-f]{16} \\(MQES 64")
	assert.Match(buf.String(), "\nCC\t0x00000000 \\(EN false, CSS NVM\\)\n")
}
