// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package nvmecheck

import (
	"errors"
	"io"
	"testing"

	"github.com/platinasystems/nvmecheck/cmd"
	"github.com/platinasystems/nvmecheck/internal/test"
	"github.com/platinasystems/nvmecheck/lang"
)

var errEcho = errors.New("echo")

type echo struct{ args []string }

func (*echo) Apropos() lang.Alt { return lang.Alt{lang.EnUS: "echo args"} }
func (*echo) String() string    { return "echo" }
func (*echo) Usage() string     { return "echo [ARG]..." }

func (e *echo) Main(args ...string) error {
	e.args = args
	if len(args) == 0 {
		return errEcho
	}
	return nil
}

type secret struct{ echo }

func (*secret) Kind() cmd.Kind { return cmd.Hidden }

func newGoes() (*Goes, *echo) {
	e := new(echo)
	return &Goes{
		NAME: "test",
		Out:  io.Discard,
		ByName: map[string]cmd.Cmd{
			"echo":   e,
			"secret": new(secret),
		},
	}, e
}

func TestDispatch(t *testing.T) {
	assert := test.Assert{TB: t}
	g, e := newGoes()
	assert.Nil(g.Main("echo", "a", "b"))
	assert.Int(len(e.args), 2)
	assert.Error(g.Main("echo"), errEcho)
	assert.Error(g.Main("nope"), "nope: command not found")
	assert.Nil(g.Main())
}

func TestHelpers(t *testing.T) {
	assert := test.Assert{TB: t}
	g, e := newGoes()
	assert.Nil(g.Main("echo", "-man"))
	assert.Nil(g.Main("echo", "--usage"))
	assert.Int(len(e.args), 0)
	assert.Nil(g.Main("apropos"))
	assert.Nil(g.Main("-man"))
	assert.Error(g.Main("man", "nope"), "nope: not found")
	assert.Error(g.Main("usage", "nope"), "nope: not found")
	assert.Equal(g.Help("echo"), "usage:\techo [ARG]...")
	assert.Match(g.Help(), "^usage:\tnvmecheck COMMAND")
}

func TestNames(t *testing.T) {
	assert := test.Assert{TB: t}
	g, _ := newGoes()
	names := g.Names()
	assert.Int(len(names), 2)
	assert.Equal(names[0], "echo")
	assert.Equal(names[1], "secret")
}
