// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package nvmecheck multiplexes the conformance commands by name.
package nvmecheck

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/platinasystems/nvmecheck/cmd"
	"github.com/platinasystems/nvmecheck/lang"
)

const defaultUsage = `
	nvmecheck COMMAND [ ARGS ]...
	nvmecheck COMMAND -[-]HELPER [ ARGS ]...
	nvmecheck HELPER [ COMMAND ] [ ARGS ]...

	HELPER := { apropos | help | man | usage }`

type Goes struct {
	NAME    string
	USAGE   string
	APROPOS lang.Alt
	MAN     lang.Alt
	ByName  map[string]cmd.Cmd

	// Helper output, default os.Stdout.
	Out io.Writer

	cache struct {
		sync.Mutex
		names []string
	}
}

func (g *Goes) String() string { return g.NAME }

func (g *Goes) Usage() string {
	if len(g.USAGE) == 0 {
		return defaultUsage
	}
	return g.USAGE
}

func (g *Goes) Apropos() lang.Alt {
	if g.APROPOS == nil {
		return lang.Alt{lang.EnUS: "NVM-Express conformance checker"}
	}
	return g.APROPOS
}

func (g *Goes) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// Names returns the sorted command names.
func (g *Goes) Names() []string {
	g.cache.Lock()
	defer g.cache.Unlock()
	if len(g.cache.names) != len(g.ByName) {
		g.cache.names = g.cache.names[:0]
		for k := range g.ByName {
			g.cache.names = append(g.cache.names, k)
		}
		sort.Strings(g.cache.names)
	}
	return g.cache.names
}

func (g *Goes) lookup(name string) (cmd.Cmd, error) {
	v, found := g.ByName[name]
	if !found {
		return nil, fmt.Errorf("%s: not found", name)
	}
	return v, nil
}

// Main runs the args[0] command or helper. Without args it prints usage.
func (g *Goes) Main(args ...string) error {
	if len(args) == 0 {
		return g.usage()
	}
	cmd.Swap(args)
	name, args := args[0], args[1:]
	switch name {
	case "apropos":
		return g.apropos(args...)
	case "help":
		fmt.Fprintln(g.out(), g.Help(args...))
		return nil
	case "man":
		return g.man(args...)
	case "usage":
		return g.usage(args...)
	}
	v, found := g.ByName[name]
	if !found {
		return fmt.Errorf("%s: command not found", name)
	}
	return v.Main(args...)
}
