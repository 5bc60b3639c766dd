// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package model

import (
	"fmt"

	"github.com/platinasystems/nvmecheck/nvme"
)

const (
	// CAP: MQES 63, CQR, TO 1 (500ms), NVM command set
	DefaultCAP = 63 | 1<<16 | 1<<nvme.CAPShiftTO | 1<<nvme.CAPShiftCSS
	// NVMe 1.0
	DefaultVS = 0x00010000

	bar0Size = nvme.RegSQ0TDBL + 8
	// CQ0 head doorbell with CAP.DSTRD 0
	regCQ0HDBL = nvme.RegSQ0TDBL + 4
)

type ctrl struct {
	cap  uint64
	vs   uint32
	cc   uint32
	csts uint32
	aqa  uint32
	asqa uint64
	acqa uint64

	readyIn int

	asq *SQ
	acq *CQ
}

func (d *Device) initCtrl() {
	d.cap = DefaultCAP
	d.vs = DefaultVS
}

// SetCAP replaces the controller capabilities register.
func (d *Device) SetCAP(v uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cap = v
}

func (d *Device) enabled() bool { return d.cc&nvme.CCEnable != 0 }

// Read32 implements ctrlr.Regs.
func (d *Device) Read32(offset uint) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if offset&3 != 0 || offset+4 > bar0Size {
		return 0, fmt.Errorf("BAR0 read 0x%x: out of range", offset)
	}
	switch offset {
	case nvme.RegCAP:
		return uint32(d.cap), nil
	case nvme.RegCAP + 4:
		return uint32(d.cap >> 32), nil
	case nvme.RegVS:
		return d.vs, nil
	case nvme.RegCC:
		return d.cc, nil
	case nvme.RegCSTS:
		d.tick()
		return d.csts, nil
	case nvme.RegAQA:
		return d.aqa, nil
	case nvme.RegASQ:
		return uint32(d.asqa), nil
	case nvme.RegASQ + 4:
		return uint32(d.asqa >> 32), nil
	case nvme.RegACQ:
		return uint32(d.acqa), nil
	case nvme.RegACQ + 4:
		return uint32(d.acqa >> 32), nil
	}
	return 0, nil
}

func (d *Device) Write32(offset uint, v uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if offset&3 != 0 || offset+4 > bar0Size {
		return fmt.Errorf("BAR0 write 0x%x: out of range", offset)
	}
	switch offset {
	case nvme.RegCC:
		d.writeCC(v)
	case nvme.RegAQA:
		d.aqa = v & 0x0fff0fff
	case nvme.RegASQ:
		d.asqa = d.asqa&^0xffffffff | uint64(v&^0xfff)
	case nvme.RegASQ + 4:
		d.asqa = d.asqa&0xffffffff | uint64(v)<<32
	case nvme.RegACQ:
		d.acqa = d.acqa&^0xffffffff | uint64(v&^0xfff)
	case nvme.RegACQ + 4:
		d.acqa = d.acqa&0xffffffff | uint64(v)<<32
	case nvme.RegSQ0TDBL:
		d.ringSQ(uint16(v))
	case regCQ0HDBL:
		d.ringCQ(uint16(v))
	}
	return nil
}

func (d *Device) Read64(offset uint) (uint64, error) {
	lo, err := d.Read32(offset)
	if err != nil {
		return 0, err
	}
	hi, err := d.Read32(offset + 4)
	if err != nil {
		return 0, err
	}
	return uint64(lo) | uint64(hi)<<32, nil
}

func (d *Device) Write64(offset uint, v uint64) error {
	if err := d.Write32(offset, uint32(v)); err != nil {
		return err
	}
	return d.Write32(offset+4, uint32(v>>32))
}

func (d *Device) writeCC(v uint32) {
	was := d.enabled()
	d.cc = v
	switch now := d.enabled(); {
	case !was && now:
		d.enable()
	case was && !now:
		d.disable()
	}
}

func (d *Device) enable() {
	if d.FailEnable || !d.adminQueuesValid() {
		d.csts |= nvme.CSTSFatalStatus
		return
	}
	if !d.KeepQueues {
		d.asq.reset()
		d.acq.reset()
	}
	d.readyIn = d.ReadyDelay
	d.tick()
}

func (d *Device) disable() {
	d.csts &^= nvme.CSTSReady | nvme.CSTSFatalStatus
	d.readyIn = 0
	if d.KeepQueues {
		return
	}
	if d.asq != nil {
		d.asq.reset()
	}
	if d.acq != nil {
		d.acq.reset()
	}
}

func (d *Device) tick() {
	if !d.enabled() || d.NeverReady || d.csts&nvme.CSTSFatalStatus != 0 {
		return
	}
	if d.readyIn > 0 {
		d.readyIn--
		return
	}
	d.csts |= nvme.CSTSReady
}

func (d *Device) adminQueuesValid() bool {
	switch {
	case d.asq == nil || d.acq == nil:
		return false
	case d.asqa == 0 || d.asqa != uint64(d.asq.mem.Addr()):
		return false
	case d.acqa == 0 || d.acqa != uint64(d.acq.mem.Addr()):
		return false
	case uint16(d.aqa&0xfff)+1 != d.asq.elements:
		return false
	case uint16(d.aqa>>16&0xfff)+1 != d.acq.elements:
		return false
	}
	return true
}

func (d *Device) ready() bool {
	return d.enabled() && d.csts&nvme.CSTSReady != 0
}
