// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package model simulates a conforming NVMe controller: its PCI config
// space, the BAR0 register file and the admin queue pair. Faults may be
// set to make it misbehave.
package model

import (
	"fmt"
	"io"
	"sync"

	"github.com/platinasystems/nvmecheck/pci"
)

// Config space layout: PM -> MSI -> MSI-X -> PCIe, then AER.
const (
	PMBase   = 0x40
	MSIBase  = 0x50
	MSIXBase = 0x60
	PCIEBase = 0x70
	AERBase  = pci.ConfigSize
)

// Identifiers reported through config space and identify data.
const (
	VendorID    = 0x1b36
	DeviceID    = 0x0010
	SubVendorID = 0x1af4
	SubDeviceID = 0x1100
)

type Faults struct {
	// Queue state survives CC.EN 1->0.
	KeepQueues bool
	// Enable sets CSTS.CFS instead of CSTS.RDY.
	FailEnable bool
	// CSTS.RDY never follows CC.EN.
	NeverReady bool
	// CSTS.RDY follows CC.EN after this many CSTS reads.
	ReadyDelay int
	// Commands are consumed but never completed.
	DropCompletions bool
	// Added to CE.SQHD.
	SQHDSkew int
}

type Device struct {
	mu sync.Mutex

	cfg   [pci.ExtConfigSize]byte
	wmask [pci.ExtConfigSize]byte
	caps  map[pci.Capability]uint

	ctrl

	Faults
}

func New() *Device {
	d := &Device{
		caps: map[pci.Capability]uint{
			pci.PowerManagement: PMBase,
			pci.MSI:             MSIBase,
			pci.MSIX:            MSIXBase,
			pci.PCIE:            PCIEBase,
		},
	}
	d.initConfig()
	d.initCtrl()
	return d
}

var defaults = [pci.NSpc]uint64{
	pci.ID:      DeviceID<<16 | VendorID,
	pci.CMD:     0x0006,
	pci.STS:     0x0010,
	pci.RID:     0x02,
	pci.CC:      0x010802,
	pci.MLBAR:   0xfebf0004,
	pci.SS:      SubDeviceID<<16 | SubVendorID,
	pci.CAP:     PMBase,
	pci.INTR:    0x0100,
	pci.PID:     MSIBase<<8 | uint64(pci.PowerManagement),
	pci.PC:      0x0003,
	pci.PMCS:    0x0008,
	pci.MID:     MSIXBase<<8 | uint64(pci.MSI),
	pci.MC:      0x0080,
	pci.MXID:    PCIEBase<<8 | uint64(pci.MSIX),
	pci.MXC:     0x003f,
	pci.MTAB:    0x00002000,
	pci.MPBA:    0x00003000,
	pci.PXID:    uint64(pci.PCIE),
	pci.PXCAP:   0x0002,
	pci.PXDCAP:  0x10008001,
	pci.PXLCAP:  0x00000041,
	pci.PXLS:    0x0041,
	pci.PXDCAP2: 0x00000010,
	pci.AERID:   0x00020001,
	pci.AERCC:   0x000000a0,
}

func (d *Device) offset(r *pci.Reg) uint {
	switch {
	case r.Cap != 0:
		return d.caps[r.Cap] + r.Offset
	case r.ExtCap != 0:
		return AERBase + r.Offset
	}
	return r.Offset
}

func (d *Device) initConfig() {
	for i := range pci.Regs {
		r := &pci.Regs[i]
		o := d.offset(r)
		w := r.WidthMask() &^ r.ROMask
		for b := uint(0); b < r.Size; b++ {
			d.cfg[o+b] = byte(defaults[i] >> (8 * b))
			d.wmask[o+b] = byte(w >> (8 * b))
		}
	}
}

// ReadAt implements pci.ReadWriterAt over the simulated config space.
func (d *Device) ReadAt(p []byte, off int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if off < 0 || off >= int64(len(d.cfg)) {
		return 0, io.EOF
	}
	n := copy(p, d.cfg[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt only changes bits the register catalog marks writable.
func (d *Device) WriteAt(p []byte, off int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if off < 0 || off+int64(len(p)) > int64(len(d.cfg)) {
		return 0, fmt.Errorf("config write 0x%x+%d: %w", off, len(p),
			io.ErrShortWrite)
	}
	for i, b := range p {
		o := int(off) + i
		d.cfg[o] = d.cfg[o]&^d.wmask[o] | b&d.wmask[o]
	}
	return len(p), nil
}

// Poke stores v in a cataloged register regardless of its RO mask.
func (d *Device) Poke(spc pci.Spc, v uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r := spc.Reg()
	o := d.offset(r)
	for b := uint(0); b < r.Size; b++ {
		d.cfg[o+b] = byte(v >> (8 * b))
	}
}

func (d *Device) Peek(spc pci.Spc) (v uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r := spc.Reg()
	o := d.offset(r)
	for b := uint(0); b < r.Size; b++ {
		v |= uint64(d.cfg[o+b]) << (8 * b)
	}
	return
}

// MakeWritable lets host writes reach the register's RO bits.
func (d *Device) MakeWritable(spc pci.Spc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r := spc.Reg()
	o := d.offset(r)
	for b := uint(0); b < r.Size; b++ {
		d.wmask[o+b] = 0xff
	}
}

// RemoveCap unlinks a capability from the list.
func (d *Device) RemoveCap(c pci.Capability) {
	d.mu.Lock()
	defer d.mu.Unlock()
	base, found := d.caps[c]
	if !found {
		return
	}
	next := d.cfg[base+1]
	ptr := pci.CAP.Reg().Offset
	if d.cfg[ptr] == byte(base) {
		d.cfg[ptr] = next
	} else {
		for _, o := range d.caps {
			if d.cfg[o+1] == byte(base) {
				d.cfg[o+1] = next
			}
		}
	}
	delete(d.caps, c)
}
