// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package queues

import (
	"errors"
	"fmt"
	"strings"

	"github.com/platinasystems/log"
	"github.com/platinasystems/nvmecheck/cmd"
	"github.com/platinasystems/nvmecheck/cmd/internal/setup"
	"github.com/platinasystems/nvmecheck/ctrlr"
	checker "github.com/platinasystems/nvmecheck/grp/queues"
	"github.com/platinasystems/nvmecheck/internal/config"
	"github.com/platinasystems/nvmecheck/lang"
	"github.com/platinasystems/nvmecheck/logfile"
	"github.com/platinasystems/nvmecheck/model"
	"github.com/platinasystems/nvmecheck/nvme"
	"github.com/platinasystems/nvmecheck/nvmeio"
	"github.com/platinasystems/nvmecheck/rsrc"
	"github.com/platinasystems/parms"
)

var ErrNoTransport = errors.New("admin queues need a kernel transport, use -sim")

type Command struct{}

func (Command) String() string { return "queues" }

func (Command) Usage() string {
	return "queues " + setup.Usage + " [-fault FAULT[,FAULT]...]"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "check admin queue pointers across enable cycles",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Create a five entry admin queue pair, then twice enable the
	controller, send an identify controller command, reap it, and
	disable the controller. After each reap the ASQ tail pointer, the
	ACQ head pointer, and the completion's SQ head pointer must all be
	one. Each violation is dumped to a file under the run's log
	directory.
` + setup.Options + `
	-fault FAULT[,FAULT]...
		with -sim, make the model misbehave; FAULT is one of
		` + strings.Join(model.FaultNames(), ", ") + `
		and may be given as NAME=N`,
	}
}

func (Command) Kind() cmd.Kind { return cmd.Hardware }

func (Command) Main(args ...string) error {
	parm, args := parms.New(args, "-fault")
	cfg, args, err := setup.Config(args)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	if !cfg.Sim {
		return fmt.Errorf("%s: %w", cfg.Device, ErrNoTransport)
	}
	d := model.New()
	if d.Faults, err = model.ParseFaults(parm.ByName["-fault"]); err != nil {
		return fmt.Errorf("-fault: %w", err)
	}
	return run(cfg, d)
}

func run(cfg *config.Config, d *model.Device) error {
	sink, err := logfile.New(cfg.LogDir)
	if err != nil {
		return err
	}
	m := rsrc.New(d.Factory)
	c := ctrlr.New(d)
	t := &checker.InitialStateAdmin{
		Grp:     checker.GrpName,
		Rsrc:    m,
		Ctrlr:   c,
		IO:      nvmeio.New(sink),
		Logs:    sink,
		CmdWait: cfg.CmdWait,
		Verbose: cfg.Verbose,
	}
	g := checker.NewGroup(t)
	g.KeepGoing = cfg.KeepGoing
	g.Init = func() error {
		return c.SetState(nvme.DisableCompletely)
	}
	g.Exit = func() {
		if err := c.SetState(nvme.DisableCompletely); err != nil {
			log.Print("err", err)
		}
		m.FreeAll()
	}
	return setup.Report(g.Run())
}
