// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package setup merges the configuration file with the options common to
// every conformance command and reports their results.
package setup

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/nvmecheck/grp"
	"github.com/platinasystems/nvmecheck/internal/config"
	"github.com/platinasystems/nvmecheck/internal/report"
	"github.com/platinasystems/parms"
)

const Usage = "[-sim] [-k] [-v] [-c FILE] [-d DEVICE] [-l DIR] [-w WAIT]"

const Options = `
OPTIONS
	-sim	run against the controller model instead of DEVICE
	-k	keep going after a failed test
	-v	dump every command's data buffer
	-c FILE
		configuration, default ` + config.DefaultPath + ` if present
	-d DEVICE
		PCI bus address of the controller, DDDD:BB:SS.F
	-l DIR	root of the per run dump directories
	-w WAIT	admin command timeout, e.g. 2s`

// Out receives the PASS/FAIL lines.
var Out io.Writer = os.Stdout

// Config returns the loaded configuration overridden by args and the
// remaining args.
func Config(args []string) (*config.Config, []string, error) {
	flag, args := flags.New(args, "-sim", "-k", "-v")
	parm, args := parms.New(args, "-c", "-d", "-l", "-w")
	fn := parm.ByName["-c"]
	if len(fn) == 0 {
		if _, err := os.Stat(config.DefaultPath); err == nil {
			fn = config.DefaultPath
		}
	}
	cfg, err := config.Load(fn)
	if err != nil {
		return nil, args, err
	}
	if s := parm.ByName["-d"]; len(s) > 0 {
		cfg.Device = s
	}
	if s := parm.ByName["-l"]; len(s) > 0 {
		cfg.LogDir = s
	}
	if s := parm.ByName["-w"]; len(s) > 0 {
		if cfg.CmdWait, err = time.ParseDuration(s); err != nil {
			return nil, args, fmt.Errorf("-w: %w", err)
		}
	}
	cfg.Sim = cfg.Sim || flag.ByName["-sim"]
	cfg.KeepGoing = cfg.KeepGoing || flag.ByName["-k"]
	cfg.Verbose = cfg.Verbose || flag.ByName["-v"]
	if err = cfg.Validate(); err != nil {
		return nil, args, err
	}
	return cfg, args, nil
}

// Report prints the results and returns report.ErrFailed if any failed.
func Report(results []grp.Result) error {
	var r *report.Report
	if f, ok := Out.(*os.File); ok {
		r = report.New(f)
	} else {
		r = report.NewWriter(Out, false)
	}
	r.Results(results)
	return r.Summary()
}
