// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package pci describes the PCI header and capability registers of an NVM
// Express controller and provides width-generic access to its
// configuration space.
package pci

import (
	"errors"
	"fmt"
)

const (
	// Standard header; the first capability may not start below this.
	ConfigHeaderSize = 0x40
	ConfigSize       = 0x100
	ExtConfigSize    = 0x1000

	capPointerOffset = 0x34
)

var (
	ErrCapNotFound = errors.New("capability not found")
	ErrBadWidth    = errors.New("bad register width")
)

type Capability uint8

const (
	PowerManagement Capability = iota + 1
	AGP
	VitalProductData
	SlotIdentification
	MSI
	CompactPCIHotSwap
	PCIX
	HyperTransport
	VendorSpecific
	DebugPort
	CompactPciCentralControl
	PCIHotPlugController
	SSVID
	AGP3
	SecureDevice
	PCIE
	MSIX
)

var capabilityNames = map[Capability]string{
	PowerManagement: "PMCAP",
	MSI:             "MSICAP",
	PCIE:            "PXCAP",
	MSIX:            "MSIXCAP",
}

func (c Capability) String() string {
	if s, found := capabilityNames[c]; found {
		return s
	}
	return fmt.Sprintf("cap 0x%02x", uint8(c))
}

type ExtCapability uint16

const (
	AdvancedErrorReporting ExtCapability = iota + 1
	VirtualChannel
	DeviceSerialNumber
	PowerBudgeting
)

func (c ExtCapability) String() string {
	if c == AdvancedErrorReporting {
		return "AERCAP"
	}
	return fmt.Sprintf("ext cap 0x%04x", uint16(c))
}

type BusAddress struct {
	Domain        uint16
	Bus, Slot, Fn uint8
}

func (a BusAddress) String() string {
	return fmt.Sprintf("%04x:%02x:%02x.%01x", a.Domain, a.Bus, a.Slot, a.Fn)
}

// ParseBusAddress accepts DDDD:BB:SS.F or BB:SS.F
func ParseBusAddress(s string) (a BusAddress, err error) {
	var n int
	n, err = fmt.Sscanf(s, "%4x:%2x:%2x.%1x",
		&a.Domain, &a.Bus, &a.Slot, &a.Fn)
	if err == nil && n == 4 {
		return
	}
	a = BusAddress{}
	n, err = fmt.Sscanf(s, "%2x:%2x.%1x", &a.Bus, &a.Slot, &a.Fn)
	if err != nil || n != 3 {
		err = fmt.Errorf("%q: invalid bus address", s)
	}
	return
}
