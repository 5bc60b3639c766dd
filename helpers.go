// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package nvmecheck

import (
	"fmt"
	"strings"

	"github.com/platinasystems/nvmecheck/cmd"
	"github.com/platinasystems/nvmecheck/lang"
)

type helper interface {
	Help(...string) string
}

type maner interface {
	Man() lang.Alt
}

var section = struct {
	name, synopsis, kind lang.Alt
}{
	name:     lang.Alt{lang.EnUS: "NAME"},
	synopsis: lang.Alt{lang.EnUS: "SYNOPSIS"},
	kind:     lang.Alt{lang.EnUS: "DEVICE ACCESS"},
}

var hardwareNote = lang.Alt{
	lang.EnUS: "Reads and writes DEVICE unless run with -sim.",
}

func Usage(v cmd.Cmd) string {
	return "usage:\t" + strings.TrimSpace(v.Usage())
}

// Help returns the named command's own help, if it has any, or its usage.
func (g *Goes) Help(args ...string) string {
	if len(args) > 0 {
		if v, found := g.ByName[args[0]]; found {
			if method, found := v.(helper); found {
				return method.Help(args[1:]...)
			}
			return Usage(v)
		}
	}
	return Usage(g)
}

// apropos lists every visible command or just those named.
func (g *Goes) apropos(args ...string) error {
	w := g.out()
	names := args
	if len(names) == 0 {
		for _, name := range g.Names() {
			if !cmd.WhatKind(g.ByName[name]).IsHidden() {
				names = append(names, name)
			}
		}
	}
	for _, name := range names {
		v, err := g.lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-15s %v\n", name, v.Apropos())
	}
	return nil
}

func (g *Goes) usage(args ...string) error {
	var v cmd.Cmd = g
	if len(args) > 0 {
		var err error
		if v, err = g.lookup(args[0]); err != nil {
			return err
		}
	}
	fmt.Fprintln(g.out(), Usage(v))
	return nil
}

func (g *Goes) Man() lang.Alt {
	if g.MAN != nil {
		return g.MAN
	}
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Each COMMAND runs a group of conformance tests against an NVMe
	controller and prints one PASS or FAIL line per test.

SEE ALSO
	nvmecheck apropos [COMMAND], nvmecheck man COMMAND`,
	}
}

func (g *Goes) man(args ...string) error {
	cmds := []cmd.Cmd{g}
	if len(args) > 0 {
		cmds = cmds[:0]
		for _, name := range args {
			v, err := g.lookup(name)
			if err != nil {
				return err
			}
			cmds = append(cmds, v)
		}
	}
	w := g.out()
	for i, v := range cmds {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%v\n\t%v - %v\n\n%v\n\t%s\n", section.name, v,
			v.Apropos(), section.synopsis, strings.TrimSpace(v.Usage()))
		if method, found := v.(maner); found {
			fmt.Fprintln(w, strings.TrimRight(method.Man().String(), "\n"))
		}
		if cmd.WhatKind(v).IsHardware() {
			fmt.Fprintf(w, "\n%v\n\t%v\n", section.kind, hardwareNote)
		}
	}
	return nil
}
