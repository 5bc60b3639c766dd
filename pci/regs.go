// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pci

import "fmt"

// Spc names a PCI header or capability register of an NVMe controller.
type Spc int

// PCI header
const (
	ID Spc = iota
	CMD
	STS
	RID
	CC
	CLS
	MLT
	HTYPE
	BIST
	MLBAR
	MUBAR
	IDBAR
	BAR3
	BAR4
	BAR5
	CCPTR
	SS
	EROM
	CAP
	INTR
	MGNT
	MLAT

	// PCI power management capability
	PID
	PC
	PMCS

	// Message signaled interrupt capability
	MID
	MC
	MA

	// MSI-X capability
	MXID
	MXC
	MTAB
	MPBA

	// PCI express capability
	PXID
	PXCAP
	PXDCAP
	PXDS
	PXLCAP
	PXLC
	PXLS
	PXDCAP2

	// Advanced error reporting extended capability
	AERID
	AERUCES
	AERCC

	NSpc
)

// Reg describes where a register lives, how wide it is, and which of its
// bits are read-only with a mandated default. Bits set in VendorMask are
// implementation defined and never compared.
type Reg struct {
	Spc  Spc
	Name string
	Desc string

	// Zero for PCI header registers.
	Cap    Capability
	ExtCap ExtCapability

	// Byte offset from the start of config space (header) or from the
	// capability header.
	Offset uint
	// Width in bytes: 1, 2, 3, 4 or 8.
	Size uint

	ROMask     uint64
	Default    uint64
	VendorMask uint64
}

func (r *Reg) IsHdr() bool { return r.Cap == 0 && r.ExtCap == 0 }

func (r *Reg) IsVendorSpecific() bool { return r.VendorMask != 0 }

// WidthMask has the low Size*8 bits set.
func (r *Reg) WidthMask() uint64 {
	if r.Size >= 8 {
		return ^uint64(0)
	}
	return (uint64(1) << (8 * r.Size)) - 1
}

// CompareMask selects the bits whose value is mandated: read-only and not
// vendor specific.
func (r *Reg) CompareMask() uint64 {
	return r.ROMask &^ r.VendorMask & r.WidthMask()
}

func (r *Reg) Location() string {
	switch {
	case r.Cap != 0:
		return fmt.Sprintf("%v+0x%02x", r.Cap, r.Offset)
	case r.ExtCap != 0:
		return fmt.Sprintf("%v+0x%02x", r.ExtCap, r.Offset)
	}
	return fmt.Sprintf("0x%02x", r.Offset)
}

func (r *Reg) String() string {
	return fmt.Sprintf("%s (%s) @%s", r.Name, r.Desc, r.Location())
}

func (s Spc) Reg() *Reg {
	if s < 0 || s >= NSpc {
		return nil
	}
	return &Regs[s]
}

func (s Spc) String() string {
	if r := s.Reg(); r != nil {
		return r.Name
	}
	return fmt.Sprintf("spc %d", int(s))
}

// Regs is indexed by Spc. Values follow NVM Express 1.0b, section 2.
var Regs = [NSpc]Reg{
	ID: {Spc: ID, Name: "ID", Desc: "Identifiers",
		Offset: 0x00, Size: 4,
		ROMask: 0xffffffff, VendorMask: 0xffffffff},
	CMD: {Spc: CMD, Name: "CMD", Desc: "Command Register",
		Offset: 0x04, Size: 2,
		ROMask: 0xfab8},
	STS: {Spc: STS, Name: "STS", Desc: "Device Status",
		Offset: 0x06, Size: 2,
		ROMask: 0x06f7, Default: 0x0010},
	RID: {Spc: RID, Name: "RID", Desc: "Revision ID",
		Offset: 0x08, Size: 1,
		ROMask: 0xff, VendorMask: 0xff},
	CC: {Spc: CC, Name: "CC", Desc: "Class Codes",
		Offset: 0x09, Size: 3,
		ROMask: 0xffffff, Default: 0x010802},
	CLS: {Spc: CLS, Name: "CLS", Desc: "Cache Line Size",
		Offset: 0x0c, Size: 1},
	MLT: {Spc: MLT, Name: "MLT", Desc: "Master Latency Timer",
		Offset: 0x0d, Size: 1,
		ROMask: 0xff},
	HTYPE: {Spc: HTYPE, Name: "HTYPE", Desc: "Header Type",
		Offset: 0x0e, Size: 1,
		ROMask: 0xff, VendorMask: 0x80},
	BIST: {Spc: BIST, Name: "BIST", Desc: "Built-In Self Test",
		Offset: 0x0f, Size: 1,
		ROMask: 0xbf, VendorMask: 0x8f},
	MLBAR: {Spc: MLBAR, Name: "MLBAR", Desc: "Memory Register Base Address, lower 32 bits",
		Offset: 0x10, Size: 4,
		ROMask: 0x00003fff, Default: 0x00000004},
	MUBAR: {Spc: MUBAR, Name: "MUBAR", Desc: "Memory Register Base Address, upper 32 bits",
		Offset: 0x14, Size: 4},
	IDBAR: {Spc: IDBAR, Name: "IDBAR", Desc: "Index/Data Pair Register Base Address",
		Offset: 0x18, Size: 4,
		ROMask: 0x00000007, VendorMask: 0x00000001},
	BAR3: {Spc: BAR3, Name: "BAR3", Desc: "Reserved",
		Offset: 0x1c, Size: 4,
		ROMask: 0xffffffff},
	BAR4: {Spc: BAR4, Name: "BAR4", Desc: "Vendor Specific",
		Offset: 0x20, Size: 4,
		ROMask: 0xffffffff, VendorMask: 0xffffffff},
	BAR5: {Spc: BAR5, Name: "BAR5", Desc: "Vendor Specific",
		Offset: 0x24, Size: 4,
		ROMask: 0xffffffff, VendorMask: 0xffffffff},
	CCPTR: {Spc: CCPTR, Name: "CCPTR", Desc: "CardBus CIS Pointer",
		Offset: 0x28, Size: 4,
		ROMask: 0xffffffff},
	SS: {Spc: SS, Name: "SS", Desc: "Subsystem Identifiers",
		Offset: 0x2c, Size: 4,
		ROMask: 0xffffffff, VendorMask: 0xffffffff},
	EROM: {Spc: EROM, Name: "EROM", Desc: "Expansion ROM Base Address",
		Offset: 0x30, Size: 4,
		ROMask: 0x000007fe},
	CAP: {Spc: CAP, Name: "CAP", Desc: "Capabilities Pointer",
		Offset: 0x34, Size: 1,
		ROMask: 0xff, VendorMask: 0xff},
	INTR: {Spc: INTR, Name: "INTR", Desc: "Interrupt Information",
		Offset: 0x3c, Size: 2,
		ROMask: 0xff00, VendorMask: 0xff00},
	MGNT: {Spc: MGNT, Name: "MGNT", Desc: "Minimum Grant",
		Offset: 0x3e, Size: 1,
		ROMask: 0xff},
	MLAT: {Spc: MLAT, Name: "MLAT", Desc: "Maximum Latency",
		Offset: 0x3f, Size: 1,
		ROMask: 0xff},

	PID: {Spc: PID, Name: "PID", Desc: "PCI Power Management Capability ID",
		Cap: PowerManagement, Offset: 0x00, Size: 2,
		ROMask: 0xffff, Default: 0x0001, VendorMask: 0xff00},
	PC: {Spc: PC, Name: "PC", Desc: "PCI Power Management Capabilities",
		Cap: PowerManagement, Offset: 0x02, Size: 2,
		ROMask: 0xffff, Default: 0x0003, VendorMask: 0xffe0},
	PMCS: {Spc: PMCS, Name: "PMCS", Desc: "PCI Power Management Control and Status",
		Cap: PowerManagement, Offset: 0x04, Size: 2,
		ROMask: 0x7efc, VendorMask: 0x7e08},

	MID: {Spc: MID, Name: "MID", Desc: "Message Signaled Interrupt Identifiers",
		Cap: MSI, Offset: 0x00, Size: 2,
		ROMask: 0xffff, Default: 0x0005, VendorMask: 0xff00},
	MC: {Spc: MC, Name: "MC", Desc: "Message Signaled Interrupt Message Control",
		Cap: MSI, Offset: 0x02, Size: 2,
		ROMask: 0xff8e, VendorMask: 0x018e},
	MA: {Spc: MA, Name: "MA", Desc: "Message Signaled Interrupt Message Address",
		Cap: MSI, Offset: 0x04, Size: 4,
		ROMask: 0x00000003},

	MXID: {Spc: MXID, Name: "MXID", Desc: "MSI-X Identifiers",
		Cap: MSIX, Offset: 0x00, Size: 2,
		ROMask: 0xffff, Default: 0x0011, VendorMask: 0xff00},
	MXC: {Spc: MXC, Name: "MXC", Desc: "MSI-X Message Control",
		Cap: MSIX, Offset: 0x02, Size: 2,
		ROMask: 0x3fff, VendorMask: 0x07ff},
	MTAB: {Spc: MTAB, Name: "MTAB", Desc: "MSI-X Table Offset / Table BIR",
		Cap: MSIX, Offset: 0x04, Size: 4,
		ROMask: 0xffffffff, VendorMask: 0xffffffff},
	MPBA: {Spc: MPBA, Name: "MPBA", Desc: "MSI-X PBA Offset / PBA BIR",
		Cap: MSIX, Offset: 0x08, Size: 4,
		ROMask: 0xffffffff, VendorMask: 0xffffffff},

	PXID: {Spc: PXID, Name: "PXID", Desc: "PCI Express Capability ID",
		Cap: PCIE, Offset: 0x00, Size: 2,
		ROMask: 0xffff, Default: 0x0010, VendorMask: 0xff00},
	PXCAP: {Spc: PXCAP, Name: "PXCAP", Desc: "PCI Express Capabilities",
		Cap: PCIE, Offset: 0x02, Size: 2,
		ROMask: 0xffff, Default: 0x0002, VendorMask: 0x3e00},
	PXDCAP: {Spc: PXDCAP, Name: "PXDCAP", Desc: "PCI Express Device Capabilities",
		Cap: PCIE, Offset: 0x04, Size: 4,
		ROMask: 0xffffffff, Default: 0x10008000, VendorMask: 0x00000fe7},
	PXDS: {Spc: PXDS, Name: "PXDS", Desc: "PCI Express Device Status",
		Cap: PCIE, Offset: 0x0a, Size: 2,
		ROMask: 0xffd0, VendorMask: 0x0010},
	PXLCAP: {Spc: PXLCAP, Name: "PXLCAP", Desc: "PCI Express Link Capabilities",
		Cap: PCIE, Offset: 0x0c, Size: 4,
		ROMask: 0xffffffff, VendorMask: 0xff07ffff},
	PXLC: {Spc: PXLC, Name: "PXLC", Desc: "PCI Express Link Control",
		Cap: PCIE, Offset: 0x10, Size: 2,
		ROMask: 0xfc34},
	PXLS: {Spc: PXLS, Name: "PXLS", Desc: "PCI Express Link Status",
		Cap: PCIE, Offset: 0x12, Size: 2,
		ROMask: 0xffff, VendorMask: 0x13ff},
	PXDCAP2: {Spc: PXDCAP2, Name: "PXDCAP2", Desc: "PCI Express Device Capabilities 2",
		Cap: PCIE, Offset: 0x24, Size: 4,
		ROMask: 0xffffffff, VendorMask: 0x000c381f},

	AERID: {Spc: AERID, Name: "AERID", Desc: "AER Capability ID",
		ExtCap: AdvancedErrorReporting, Offset: 0x00, Size: 4,
		ROMask: 0xffffffff, Default: 0x00000001, VendorMask: 0xffff0000},
	AERUCES: {Spc: AERUCES, Name: "AERUCES", Desc: "AER Uncorrectable Error Status",
		ExtCap: AdvancedErrorReporting, Offset: 0x04, Size: 4,
		ROMask: 0xfc000fce},
	AERCC: {Spc: AERCC, Name: "AERCC", Desc: "AER Capabilities and Control",
		ExtCap: AdvancedErrorReporting, Offset: 0x18, Size: 4,
		ROMask: 0xfffffaa0, VendorMask: 0x00000aa0},
}
