// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package nvme

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	CmdSize  = 64
	PageSize = 4096

	IdentifyDataSize = 4096
)

var ErrPrpMask = errors.New("invalid PRP send mask")

type Opcode uint8

const (
	AdminDeleteIOSQ Opcode = 0x00
	AdminCreateIOSQ Opcode = 0x01
	AdminGetLogPage Opcode = 0x02
	AdminDeleteIOCQ Opcode = 0x04
	AdminCreateIOCQ Opcode = 0x05
	AdminIdentify   Opcode = 0x06
	AdminAbort      Opcode = 0x08
	AdminSetFeat    Opcode = 0x09
	AdminGetFeat    Opcode = 0x0a
)

// SendMask selects how a data buffer is described to the controller.
type SendMask uint16

const (
	MaskPRP1Page SendMask = 1 << iota
	MaskPRP1List
	MaskPRP2Page
	MaskPRP2List
)

func (m SendMask) Valid() bool {
	switch {
	case m&MaskPRP1Page == 0:
		return false
	case m&MaskPRP1List != 0:
		return false
	case m&MaskPRP2Page != 0 && m&MaskPRP2List != 0:
		return false
	}
	return true
}

// Cmd is one 64 byte submission queue entry plus its attached buffer.
type Cmd struct {
	Name string
	DW   [CmdSize / 4]uint32
	Mask SendMask
	Buf  *MemBuffer
}

func NewCmd(name string, op Opcode) *Cmd {
	c := &Cmd{Name: name}
	c.DW[0] = uint32(op)
	return c
}

func (c *Cmd) Opcode() Opcode    { return Opcode(c.DW[0]) }
func (c *Cmd) CID() uint16       { return uint16(c.DW[0] >> 16) }
func (c *Cmd) SetCID(id uint16)  { c.DW[0] = c.DW[0]&0xffff | uint32(id)<<16 }
func (c *Cmd) NSID() uint32      { return c.DW[1] }
func (c *Cmd) SetNSID(id uint32) { c.DW[1] = id }

func (c *Cmd) PRP1() uint64 { return uint64(c.DW[6]) | uint64(c.DW[7])<<32 }
func (c *Cmd) PRP2() uint64 { return uint64(c.DW[8]) | uint64(c.DW[9])<<32 }

func (c *Cmd) setPRP(prp1, prp2 uint64) {
	c.DW[6], c.DW[7] = uint32(prp1), uint32(prp1>>32)
	c.DW[8], c.DW[9] = uint32(prp2), uint32(prp2>>32)
}

// SetPrpBuffer attaches buf. PRP2 is only filled when the mask allows it
// and the buffer crosses into a second page.
func (c *Cmd) SetPrpBuffer(mask SendMask, buf *MemBuffer) error {
	if !mask.Valid() {
		return fmt.Errorf("%s: %w 0x%x", c.Name, ErrPrpMask, uint16(mask))
	}
	if buf == nil || buf.Size() == 0 {
		return fmt.Errorf("%s: no buffer", c.Name)
	}
	prp1 := uint64(buf.Addr())
	var prp2 uint64
	first := PageSize - prp1%PageSize
	if uint64(buf.Size()) > first {
		if mask&(MaskPRP2Page|MaskPRP2List) == 0 {
			return fmt.Errorf("%s: %d byte buffer needs PRP2",
				c.Name, buf.Size())
		}
		if mask&MaskPRP2Page != 0 && uint64(buf.Size())-first > PageSize {
			return fmt.Errorf("%s: %d byte buffer needs a PRP list",
				c.Name, buf.Size())
		}
		prp2 = prp1 + first
	}
	c.Mask = mask
	c.Buf = buf
	c.setPRP(prp1, prp2)
	return nil
}

func (c *Cmd) Encode(b []byte) {
	for i, dw := range c.DW {
		binary.LittleEndian.PutUint32(b[4*i:], dw)
	}
}

func DecodeCmd(b []byte) (c Cmd) {
	for i := range c.DW {
		c.DW[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return
}

func (c *Cmd) String() string {
	return fmt.Sprintf("%s: opcode 0x%02x cid 0x%04x nsid 0x%x",
		c.Name, uint8(c.Opcode()), c.CID(), c.NSID())
}

type Identify struct {
	Cmd
}

func NewIdentify() *Identify {
	id := &Identify{}
	id.Name = "Identify"
	id.DW[0] = uint32(AdminIdentify)
	return id
}

// SetCNS requests the controller data structure when ctrlr is true;
// otherwise the namespace structure named by NSID.
func (id *Identify) SetCNS(ctrlr bool) {
	if ctrlr {
		id.DW[10] |= 1
	} else {
		id.DW[10] &^= 1
	}
}

func (id *Identify) CNS() bool { return id.DW[10]&1 != 0 }
