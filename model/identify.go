// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package model

import (
	"encoding/binary"

	"github.com/platinasystems/nvmecheck/nvme"
)

// Identify data strings; space padded, not NUL terminated.
const (
	Serial   = "NVMECHECK0001"
	ModelNum = "nvmecheck model"
	Firmware = "1.0"

	NamespaceBlocks = 1 << 20
)

func (d *Device) execute(cmd, host *nvme.Cmd) (sct, sc uint8) {
	switch cmd.Opcode() {
	case nvme.AdminIdentify:
		if host == nil || host.Buf == nil ||
			host.Buf.Size() < nvme.IdentifyDataSize {
			return 0, nvme.SCInvalidField
		}
		b := host.Buf.Bytes()[:nvme.IdentifyDataSize]
		zero(b)
		if cmd.DW[10]&1 != 0 {
			identifyCtrlr(b)
			return 0, nvme.SCSuccess
		}
		if cmd.NSID() != 1 {
			return 0, nvme.SCInvalidNamespace
		}
		identifyNamespace(b)
		return 0, nvme.SCSuccess
	}
	return 0, nvme.SCInvalidOpcode
}

func pad(b []byte, s string) {
	n := copy(b, s)
	for i := n; i < len(b); i++ {
		b[i] = ' '
	}
}

func identifyCtrlr(b []byte) {
	binary.LittleEndian.PutUint16(b[0:], VendorID)
	binary.LittleEndian.PutUint16(b[2:], SubVendorID)
	pad(b[4:24], Serial)
	pad(b[24:64], ModelNum)
	pad(b[64:72], Firmware)
	// SQES, CQES: required and maximum
	b[512] = 6<<4 | 6
	b[513] = 4<<4 | 4
	// NN
	binary.LittleEndian.PutUint32(b[516:], 1)
}

func identifyNamespace(b []byte) {
	// NSZE, NCAP, NUSE
	binary.LittleEndian.PutUint64(b[0:], NamespaceBlocks)
	binary.LittleEndian.PutUint64(b[8:], NamespaceBlocks)
	binary.LittleEndian.PutUint64(b[16:], NamespaceBlocks)
	// LBAF0: 512 byte blocks
	b[128+2] = 9
}
