// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package nvme

import "fmt"

type State int

const (
	Disable State = iota
	// Also discards the admin queues; they must be created again.
	DisableCompletely
	Enable
)

var stateNames = [...]string{
	Disable:           "disable",
	DisableCompletely: "disable completely",
	Enable:            "enable",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// CSS is the CC.CSS I/O command set selector.
type CSS uint8

const (
	CSSNVMCmdSet CSS = 0
	CSSAdminOnly CSS = 7
)

func (css CSS) String() string {
	switch css {
	case CSSNVMCmdSet:
		return "NVM"
	case CSSAdminOnly:
		return "admin only"
	}
	return fmt.Sprintf("reserved(%d)", uint8(css))
}

// Controller register offsets in BAR0.
const (
	RegCAP   = 0x00
	RegVS    = 0x08
	RegINTMS = 0x0c
	RegINTMC = 0x10
	RegCC    = 0x14
	RegCSTS  = 0x1c
	RegAQA   = 0x24
	RegASQ   = 0x28
	RegACQ   = 0x30

	// First doorbell: SQ0 tail; CQ0 head follows at 4<<CAP.DSTRD.
	RegSQ0TDBL = 0x1000
)

// CC fields
const (
	CCEnable    = 1 << 0
	CCShiftCSS  = 4
	CCMaskCSS   = 0x7 << CCShiftCSS
	CCShiftMPS  = 7
	CCMaskMPS   = 0xf << CCShiftMPS
	CCShiftSHN  = 14
	CCMaskSHN   = 0x3 << CCShiftSHN
	CCShiftSQES = 16
	CCShiftCQES = 20
)

// CSTS fields
const (
	CSTSReady       = 1 << 0
	CSTSFatalStatus = 1 << 1
)

// CAP fields
const (
	CAPShiftTO  = 24
	CAPMaskTO   = 0xff << CAPShiftTO
	CAPShiftCSS = 37
	CAPMaskCSS  = 0xff << CAPShiftCSS
	CAPMaskMQES = 0xffff
)
