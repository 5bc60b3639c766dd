// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pciregs

import (
	"fmt"

	"github.com/platinasystems/nvmecheck/cmd"
	"github.com/platinasystems/nvmecheck/cmd/internal/setup"
	checker "github.com/platinasystems/nvmecheck/grp/pciregs"
	"github.com/platinasystems/nvmecheck/lang"
	"github.com/platinasystems/nvmecheck/model"
	"github.com/platinasystems/nvmecheck/pci"
)

type Command struct{}

func (Command) String() string { return "pciregs" }

func (Command) Usage() string { return "pciregs " + setup.Usage }

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "check PCI register read-only defaults",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Compare the read-only, non vendor specific bits of every PCI header
	and capability register with their mandated defaults. Then write
	each register with its read-only bits flipped and compare again.
	Registers of capabilities the device doesn't advertise are skipped.

	Reading capability registers through sysfs requires root.
` + setup.Options,
	}
}

func (Command) Kind() cmd.Kind { return cmd.Hardware }

func (Command) Main(args ...string) error {
	cfg, args, err := setup.Config(args)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	var regs checker.Accessor
	if cfg.Sim {
		s, err := pci.NewSpace(model.New())
		if err != nil {
			return err
		}
		regs = s
	} else {
		a, err := pci.ParseBusAddress(cfg.Device)
		if err != nil {
			return err
		}
		d, err := pci.OpenDevice(a)
		if err != nil {
			return err
		}
		defer d.Close()
		regs = d
	}
	g := checker.NewGroup(regs)
	g.KeepGoing = cfg.KeepGoing
	return setup.Report(g.Run())
}
