// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package nvme

import (
	"encoding/binary"
	"fmt"
)

const CESize = 16

// Generic command status codes, SCT 0.
const (
	SCSuccess          = 0x00
	SCInvalidOpcode    = 0x01
	SCInvalidField     = 0x02
	SCInvalidNamespace = 0x0b
)

// CE is a completion queue entry:
//
//	DW0	command specific
//	DW1	reserved
//	DW2	[15:0] SQ head pointer, [31:16] SQ identifier
//	DW3	[15:0] command identifier, [16] phase tag,
//		[24:17] status code, [27:25] status code type,
//		[30] more, [31] do not retry
type CE struct {
	DW0, DW1, DW2, DW3 uint32
}

func DecodeCE(b []byte) (ce CE) {
	ce.DW0 = binary.LittleEndian.Uint32(b[0:])
	ce.DW1 = binary.LittleEndian.Uint32(b[4:])
	ce.DW2 = binary.LittleEndian.Uint32(b[8:])
	ce.DW3 = binary.LittleEndian.Uint32(b[12:])
	return
}

func (ce *CE) Encode(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], ce.DW0)
	binary.LittleEndian.PutUint32(b[4:], ce.DW1)
	binary.LittleEndian.PutUint32(b[8:], ce.DW2)
	binary.LittleEndian.PutUint32(b[12:], ce.DW3)
}

func (ce *CE) SQHD() uint16 { return uint16(ce.DW2) }
func (ce *CE) SQID() uint16 { return uint16(ce.DW2 >> 16) }
func (ce *CE) CID() uint16  { return uint16(ce.DW3) }
func (ce *CE) P() bool      { return ce.DW3&(1<<16) != 0 }
func (ce *CE) SC() uint8    { return uint8(ce.DW3 >> 17) }
func (ce *CE) SCT() uint8   { return uint8(ce.DW3>>25) & 0x7 }
func (ce *CE) M() bool      { return ce.DW3&(1<<30) != 0 }
func (ce *CE) DNR() bool    { return ce.DW3&(1<<31) != 0 }

// Status is the 15 bit field following the phase tag.
func (ce *CE) Status() uint16 { return uint16(ce.DW3>>17) & 0x7fff }

func (ce *CE) SetSQ(head, id uint16) {
	ce.DW2 = uint32(head) | uint32(id)<<16
}

func (ce *CE) SetCID(cid uint16, phase bool, sct, sc uint8) {
	ce.DW3 = uint32(cid) | uint32(sc)<<17 | uint32(sct&0x7)<<25
	if phase {
		ce.DW3 |= 1 << 16
	}
}

func (ce CE) String() string {
	p := 0
	if ce.P() {
		p = 1
	}
	return fmt.Sprintf("DW0 0x%08x SQHD 0x%04x SQID 0x%04x CID 0x%04x P %d SCT 0x%x SC 0x%02x",
		ce.DW0, ce.SQHD(), ce.SQID(), ce.CID(), p, ce.SCT(), ce.SC())
}
