// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cmd

const (
	// Hidden commands are left out of apropos listings.
	Hidden Kind = 1 << iota
	// Hardware commands touch the device under test unless simulated.
	Hardware
)

func WhatKind(v Cmd) Kind {
	if m, found := v.(kinder); found {
		return m.Kind()
	}
	return 0
}

type kinder interface {
	Kind() Kind
}

type Kind uint16

func (k Kind) IsHidden() bool   { return (k & Hidden) == Hidden }
func (k Kind) IsHardware() bool { return (k & Hardware) == Hardware }

func (k Kind) String() string {
	s := "unknown"
	switch k {
	case 0:
		s = "builtin"
	case Hidden:
		s = "hidden"
	case Hardware:
		s = "hardware"
	}
	return s
}
