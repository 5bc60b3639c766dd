// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package setup

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/platinasystems/nvmecheck/grp"
	"github.com/platinasystems/nvmecheck/internal/report"
	"github.com/platinasystems/nvmecheck/internal/test"
)

func TestConfig(t *testing.T) {
	assert := test.Assert{TB: t}
	dir := t.TempDir()
	cfg, args, err := Config([]string{"-sim", "-v", "-l", dir, "-w=1s",
		"extra"})
	assert.Nil(err)
	assert.True(cfg.Sim)
	assert.True(cfg.Verbose)
	assert.False(cfg.KeepGoing)
	assert.Equal(cfg.LogDir, dir)
	assert.True(cfg.CmdWait == time.Second)
	assert.Int(len(args), 1)
	assert.Equal(args[0], "extra")
}

func TestConfigFile(t *testing.T) {
	assert := test.Assert{TB: t}
	fn := filepath.Join(t.TempDir(), "nvmecheck.yaml")
	assert.Nil(os.WriteFile(fn, []byte("device: \"0000:03:00.0\"\n"), 0644))
	cfg, _, err := Config([]string{"-c", fn, "-d", "0000:04:00.0", "-k"})
	assert.Nil(err)
	assert.Equal(cfg.Device, "0000:04:00.0")
	assert.True(cfg.KeepGoing)
	assert.False(cfg.Sim)

	// a file without a device is completed by the parameters
	nodev := filepath.Join(t.TempDir(), "nodev.yaml")
	dir := t.TempDir()
	assert.Nil(os.WriteFile(nodev, []byte("logdir: "+dir+"\n"), 0644))
	cfg, _, err = Config([]string{"-c", nodev, "-sim"})
	assert.Nil(err)
	assert.True(cfg.Sim)
	assert.Equal(cfg.LogDir, dir)
	cfg, _, err = Config([]string{"-c", nodev, "-d", "0000:03:00.0"})
	assert.Nil(err)
	assert.Equal(cfg.Device, "0000:03:00.0")
	_, _, err = Config([]string{"-c", nodev})
	assert.Match(err.Error(), "^device: missing$")

	_, _, err = Config([]string{"-c", fn, "-d", "nvme0"})
	assert.Match(err.Error(), "invalid bus address")
	_, _, err = Config([]string{"-sim", "-w", "soon"})
	assert.Match(err.Error(), "^-w: ")
}

func TestReport(t *testing.T) {
	assert := test.Assert{TB: t}
	buf := new(bytes.Buffer)
	defer func(w io.Writer) { Out = w }(Out)
	Out = buf
	assert.Nil(Report([]grp.Result{{Group: "g", Test: "t"}}))
	err := Report([]grp.Result{{Group: "g", Test: "t",
		Err: errors.New("g/t: bad")}})
	assert.Error(err, report.ErrFailed)
	assert.Match(buf.String(), "^PASS g/t \\(0s\\)\n1 of 1 passed\nFAIL g/t: bad\n")
}
