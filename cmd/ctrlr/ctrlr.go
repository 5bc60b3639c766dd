// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ctrlr

import (
	"fmt"

	"github.com/platinasystems/nvmecheck/cmd"
	"github.com/platinasystems/nvmecheck/cmd/internal/setup"
	"github.com/platinasystems/nvmecheck/ctrlr"
	"github.com/platinasystems/nvmecheck/lang"
	"github.com/platinasystems/nvmecheck/model"
	"github.com/platinasystems/nvmecheck/pci"
)

type Command struct{}

func (Command) String() string { return "ctrlr" }

func (Command) Usage() string { return "ctrlr " + setup.Usage }

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "print the controller registers",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Print CAP, VS, CC, CSTS, AQA, ASQ and ACQ from the controller's
	BAR0 with their decoded fields. Nothing is written.
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
	var regs ctrlr.Regs
	if cfg.Sim {
		regs = model.New()
	} else {
		a, err := pci.ParseBusAddress(cfg.Device)
		if err != nil {
			return err
		}
		bar, err := ctrlr.MapBar0(a)
		if err != nil {
			return err
		}
		defer bar.Close()
		regs = bar
	}
	s, err := ctrlr.New(regs).Snapshot()
	if err != nil {
		return err
	}
	fmt.Fprint(setup.Out, s)
	return nil
}
