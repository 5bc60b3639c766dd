// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package ctrlr drives the controller configuration registers: the command
// set selection and the CC.EN/CSTS.RDY state handshake.
package ctrlr

import (
	"errors"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/log"
	"github.com/platinasystems/nvmecheck/nvme"
)

var (
	ErrFatalStatus = errors.New("controller fatal status")
	ErrNotReady    = errors.New("CSTS.RDY timeout")
	ErrCSS         = errors.New("command set not supported")
)

// CAP.TO units
const TimeoutUnit = 500 * time.Millisecond

// Regs is the BAR0 controller register file.
type Regs interface {
	Read32(offset uint) (uint32, error)
	Write32(offset uint, v uint32) error
	Read64(offset uint) (uint64, error)
	Write64(offset uint, v uint64) error
}

type Config struct {
	Regs Regs
	// CSTS.RDY poll interval bounds
	PollMin, PollMax time.Duration
}

func New(regs Regs) *Config {
	return &Config{
		Regs:    regs,
		PollMin: time.Millisecond,
		PollMax: 50 * time.Millisecond,
	}
}

func (c *Config) CAP() (uint64, error) { return c.Regs.Read64(nvme.RegCAP) }

// Timeout is the worst case CSTS.RDY transition time the controller claims.
func (c *Config) Timeout() (time.Duration, error) {
	v, err := c.CAP()
	if err != nil {
		return 0, err
	}
	return TimeoutUnit * timeoutUnits(v), nil
}

// CAP.TO of zero is treated as one unit.
func timeoutUnits(v uint64) time.Duration {
	to := (v & nvme.CAPMaskTO) >> nvme.CAPShiftTO
	if to == 0 {
		to = 1
	}
	return time.Duration(to)
}

func (c *Config) IsStateEnabled() (bool, error) {
	cc, err := c.Regs.Read32(nvme.RegCC)
	if err != nil {
		return false, err
	}
	return cc&nvme.CCEnable != 0, nil
}

func (c *Config) GetCSS() (nvme.CSS, error) {
	cc, err := c.Regs.Read32(nvme.RegCC)
	if err != nil {
		return 0, err
	}
	return nvme.CSS((cc & nvme.CCMaskCSS) >> nvme.CCShiftCSS), nil
}

// SetCSS selects the I/O command set; the controller latches it on enable.
func (c *Config) SetCSS(css nvme.CSS) error {
	if css != nvme.CSSAdminOnly {
		v, err := c.CAP()
		if err != nil {
			return err
		}
		if v&(1<<(nvme.CAPShiftCSS+uint(css))) == 0 {
			return fmt.Errorf("CC.CSS %d: %w", css, ErrCSS)
		}
	}
	cc, err := c.Regs.Read32(nvme.RegCC)
	if err != nil {
		return err
	}
	if cc&nvme.CCEnable != 0 {
		log.Print("warning", "CC.CSS changed while enabled")
	}
	cc = cc&^nvme.CCMaskCSS | uint32(css)<<nvme.CCShiftCSS
	return c.Regs.Write32(nvme.RegCC, cc)
}

// SetState writes CC.EN and blocks until CSTS.RDY follows or CAP.TO
// expires. DisableCompletely also clears the admin queue attributes.
func (c *Config) SetState(s nvme.State) error {
	cc, err := c.Regs.Read32(nvme.RegCC)
	if err != nil {
		return err
	}
	switch s {
	case nvme.Enable:
		log.Print("debug", "enabling controller")
		err = c.Regs.Write32(nvme.RegCC, cc|nvme.CCEnable)
		if err == nil {
			err = c.waitReady(true)
		}
	case nvme.Disable, nvme.DisableCompletely:
		log.Print("debug", "disabling controller")
		err = c.Regs.Write32(nvme.RegCC, cc&^nvme.CCEnable)
		if err == nil {
			err = c.waitReady(false)
		}
		if err == nil && s == nvme.DisableCompletely {
			err = c.clearAdminQueues()
		}
	default:
		err = fmt.Errorf("%v: invalid state", s)
	}
	if err != nil {
		return fmt.Errorf("%v: %w", s, err)
	}
	return nil
}

func (c *Config) clearAdminQueues() error {
	if err := c.Regs.Write32(nvme.RegAQA, 0); err != nil {
		return err
	}
	if err := c.Regs.Write64(nvme.RegASQ, 0); err != nil {
		return err
	}
	return c.Regs.Write64(nvme.RegACQ, 0)
}

func (c *Config) waitReady(ready bool) error {
	to, err := c.Timeout()
	if err != nil {
		return err
	}
	b := &backoff.Backoff{
		Min:    c.PollMin,
		Max:    c.PollMax,
		Factor: 2,
		Jitter: false,
	}
	deadline := time.Now().Add(to)
	for {
		csts, err := c.Regs.Read32(nvme.RegCSTS)
		if err != nil {
			return err
		}
		// a fatal controller may still be disabled
		if ready && csts&nvme.CSTSFatalStatus != 0 {
			return fmt.Errorf("CSTS 0x%08x: %w", csts, ErrFatalStatus)
		}
		if (csts&nvme.CSTSReady != 0) == ready {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("CSTS.RDY != %v after %v: %w",
				ready, to, ErrNotReady)
		}
		time.Sleep(b.Duration())
	}
}
