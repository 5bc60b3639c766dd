// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pci

import (
	"io"
	"testing"

	"github.com/platinasystems/nvmecheck/internal/test"
)

type cfgBytes []byte

func (b cfgBytes) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b cfgBytes) WriteAt(p []byte, off int64) (int, error) {
	if off+int64(len(p)) > int64(len(b)) {
		return 0, io.ErrShortWrite
	}
	return copy(b[off:], p), nil
}

// PM @0x40 -> PCIe @0x70, AER @0x100
func newCfg(size int) cfgBytes {
	b := make(cfgBytes, size)
	b[0x09], b[0x0a], b[0x0b] = 0x02, 0x08, 0x01
	b[capPointerOffset] = 0x40
	b[0x40], b[0x41] = byte(PowerManagement), 0x70
	b[0x42] = 0x03
	b[0x70], b[0x71] = byte(PCIE), 0x00
	b[0x72] = 0x02
	if size > ConfigSize {
		b[0x100], b[0x101], b[0x102], b[0x103] = 0x01, 0x00, 0x01, 0x00
	}
	return b
}

func TestCatalog(t *testing.T) {
	assert := test.Assert{TB: t}
	for i := range Regs {
		r := &Regs[i]
		assert.Int(int(r.Spc), i)
		assert.True(len(r.Name) > 0)
		assert.True(r.Size > 0 && r.Size <= 8)
		if r.ROMask&^r.WidthMask() != 0 {
			t.Errorf("%s: RO mask exceeds width", r.Name)
		}
		if r.VendorMask&^r.ROMask != 0 {
			t.Errorf("%s: vendor bits outside RO mask", r.Name)
		}
		if r.Default&^r.CompareMask() != 0 {
			t.Errorf("%s: default has bits outside compare mask", r.Name)
		}
		if r.Cap != 0 && r.ExtCap != 0 {
			t.Errorf("%s: both capability and extended capability", r.Name)
		}
	}
}

func TestSpaceCapabilities(t *testing.T) {
	assert := test.Assert{TB: t}
	s, err := NewSpace(newCfg(ExtConfigSize))
	assert.Nil(err)
	assert.True(s.HasCap(PowerManagement))
	assert.True(s.HasCap(PCIE))
	assert.False(s.HasCap(MSI))
	assert.True(s.HasExtCap(AdvancedErrorReporting))

	o, err := s.Offset(PXCAP)
	assert.Nil(err)
	assert.Uint(uint64(o), 0x72)

	_, err = s.Read(MID)
	assert.Error(err, ErrCapNotFound)
}

func TestSpaceShortConfig(t *testing.T) {
	assert := test.Assert{TB: t}
	s, err := NewSpace(newCfg(ConfigSize))
	assert.Nil(err)
	assert.False(s.HasExtCap(AdvancedErrorReporting))
	_, err = s.Read(AERCC)
	assert.Error(err, ErrCapNotFound)

	_, err = NewSpace(make(cfgBytes, 0x20))
	assert.NonNil(err)
}

func TestSpaceReadWrite(t *testing.T) {
	assert := test.Assert{TB: t}
	b := newCfg(ExtConfigSize)
	s, err := NewSpace(b)
	assert.Nil(err)

	v, err := s.Read(CC)
	assert.Nil(err)
	assert.Uint(v, 0x010802)

	v, err = s.Read(PC)
	assert.Nil(err)
	assert.Uint(v, 0x0003)

	assert.Nil(s.Write(PMCS, 0xa5c3))
	assert.Uint(uint64(b[0x44]), 0xc3)
	assert.Uint(uint64(b[0x45]), 0xa5)
	v, err = s.Read(PMCS)
	assert.Nil(err)
	assert.Uint(v, 0xa5c3)

	v, err = s.Read(AERID)
	assert.Nil(err)
	assert.Uint(v, 0x00010001)
}

func TestCapListLoop(t *testing.T) {
	assert := test.Assert{TB: t}
	b := newCfg(ConfigSize)
	b[0x71] = 0x40
	s, err := NewSpace(b)
	assert.Nil(err)
	assert.True(s.HasCap(PCIE))
}

func TestParseBusAddress(t *testing.T) {
	assert := test.Assert{TB: t}
	a, err := ParseBusAddress("0000:03:00.1")
	assert.Nil(err)
	assert.Equal(a.String(), "0000:03:00.1")
	a, err = ParseBusAddress("81:00.0")
	assert.Nil(err)
	assert.Equal(a.String(), "0000:81:00.0")
	_, err = ParseBusAddress("nvme0")
	assert.NonNil(err)
}

func TestSysfsPath(t *testing.T) {
	assert := test.Assert{TB: t}
	a := BusAddress{Bus: 1}
	assert.Equal(a.SysfsPath("config"),
		"/sys/bus/pci/devices/0000:01:00.0/config")
}
