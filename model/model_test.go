// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package model

import (
	"testing"

	"github.com/platinasystems/nvmecheck/internal/test"
	"github.com/platinasystems/nvmecheck/nvme"
	"github.com/platinasystems/nvmecheck/pci"
)

func TestConfigDefaults(t *testing.T) {
	assert := test.Assert{TB: t}
	d := New()
	s, err := pci.NewSpace(d)
	assert.Nil(err)
	for _, c := range []pci.Capability{pci.PowerManagement, pci.MSI,
		pci.MSIX, pci.PCIE} {
		assert.True(s.HasCap(c))
	}
	assert.True(s.HasExtCap(pci.AdvancedErrorReporting))
	for i := range pci.Regs {
		r := &pci.Regs[i]
		v, err := s.Read(r.Spc)
		assert.Nil(err)
		if m := r.CompareMask(); v&m != r.Default&m {
			t.Errorf("%v: 0x%x", r, v)
		}
	}
}

func TestConfigReadOnly(t *testing.T) {
	assert := test.Assert{TB: t}
	d := New()
	s, err := pci.NewSpace(d)
	assert.Nil(err)

	assert.Nil(s.Write(pci.STS, 0))
	v, err := s.Read(pci.STS)
	assert.Nil(err)
	assert.Uint(v, 0x0010)

	// CMD.MSE and CMD.BME are writable
	assert.Nil(s.Write(pci.CMD, 0xffff))
	v, err = s.Read(pci.CMD)
	assert.Nil(err)
	assert.Uint(v, 0x0547)

	d.MakeWritable(pci.STS)
	assert.Nil(s.Write(pci.STS, 0))
	assert.Uint(d.Peek(pci.STS), 0)

	d.Poke(pci.PXCAP, 0x0042)
	v, err = s.Read(pci.PXCAP)
	assert.Nil(err)
	assert.Uint(v, 0x0042)
}

func TestRemoveCap(t *testing.T) {
	assert := test.Assert{TB: t}
	d := New()
	d.RemoveCap(pci.MSI)
	d.RemoveCap(pci.PowerManagement)
	s, err := pci.NewSpace(d)
	assert.Nil(err)
	assert.False(s.HasCap(pci.MSI))
	assert.False(s.HasCap(pci.PowerManagement))
	assert.True(s.HasCap(pci.MSIX))
	assert.True(s.HasCap(pci.PCIE))
}

func enable(t *testing.T, d *Device) {
	assert := test.Assert{TB: t}
	cc, err := d.Read32(nvme.RegCC)
	assert.Nil(err)
	assert.Nil(d.Write32(nvme.RegCC, cc|nvme.CCEnable))
	csts, err := d.Read32(nvme.RegCSTS)
	assert.Nil(err)
	assert.Uint(uint64(csts), nvme.CSTSReady)
}

func disable(t *testing.T, d *Device) {
	assert := test.Assert{TB: t}
	cc, err := d.Read32(nvme.RegCC)
	assert.Nil(err)
	assert.Nil(d.Write32(nvme.RegCC, cc&^nvme.CCEnable))
}

func identify(t *testing.T, sq *SQ, cq *CQ) nvme.CE {
	assert := test.Assert{TB: t}
	buf := new(nvme.MemBuffer)
	assert.Nil(buf.InitAlignment(nvme.IdentifyDataSize, nvme.PageSize,
		false, 0))
	id := nvme.NewIdentify()
	id.SetCNS(true)
	assert.Nil(id.SetPrpBuffer(nvme.MaskPRP1Page|nvme.MaskPRP2Page, buf))
	assert.Nil(sq.Send(&id.Cmd))
	assert.Nil(sq.Ring())
	n, err := cq.ReapInquiry()
	assert.Nil(err)
	assert.Int(int(n), 1)
	ces, err := cq.Reap(1)
	assert.Nil(err)
	return ces[0]
}

func TestAdminQueues(t *testing.T) {
	assert := test.Assert{TB: t}
	d := New()
	sq, cq := d.NewASQ(), d.NewACQ()
	assert.Nil(cq.Init(5))
	assert.Nil(sq.Init(5))
	aqa, err := d.Read32(nvme.RegAQA)
	assert.Nil(err)
	assert.Uint(uint64(aqa), 0x00040004)

	enable(t, d)
	assert.Error(sq.Init(5), ErrCtrlrEnabled)
	ce := identify(t, sq, cq)
	assert.Int(int(ce.SQHD()), 1)
	assert.True(ce.P())
	assert.Int(int(sq.GetQMetrics().TailPtr), 1)
	assert.Int(int(cq.GetQMetrics().HeadPtr), 1)

	disable(t, d)
	assert.Int(int(sq.GetQMetrics().TailPtr), 0)
	assert.Int(int(cq.GetQMetrics().HeadPtr), 0)
	peek, err := cq.PeekCE(0)
	assert.Nil(err)
	assert.Uint(uint64(peek.DW3), 0)

	enable(t, d)
	ce = identify(t, sq, cq)
	assert.Int(int(ce.SQHD()), 1)
}

func TestKeepQueues(t *testing.T) {
	assert := test.Assert{TB: t}
	d := New()
	d.KeepQueues = true
	sq, cq := d.NewASQ(), d.NewACQ()
	assert.Nil(cq.Init(5))
	assert.Nil(sq.Init(5))
	enable(t, d)
	identify(t, sq, cq)
	disable(t, d)
	enable(t, d)
	ce := identify(t, sq, cq)
	assert.Int(int(ce.SQHD()), 2)
	assert.Int(int(sq.GetQMetrics().TailPtr), 2)
}

func TestSQHDSkew(t *testing.T) {
	assert := test.Assert{TB: t}
	d := New()
	d.SQHDSkew = 2
	sq, cq := d.NewASQ(), d.NewACQ()
	assert.Nil(cq.Init(5))
	assert.Nil(sq.Init(5))
	enable(t, d)
	ce := identify(t, sq, cq)
	assert.Int(int(ce.SQHD()), 3)
}

func TestQueueLimits(t *testing.T) {
	assert := test.Assert{TB: t}
	d := New()
	sq := d.NewASQ()
	assert.NonNil(sq.Init(1))
	assert.NonNil(sq.Init(65))
	assert.Nil(sq.Init(64))
	_, err := d.NewACQ().Reap(1)
	assert.Error(err, ErrNotInit)
}

func TestParseFaults(t *testing.T) {
	assert := test.Assert{TB: t}
	f, err := ParseFaults("")
	assert.Nil(err)
	assert.True(f == Faults{})

	f, err = ParseFaults("keep-queues,sqhd-skew=2 ready-delay")
	assert.Nil(err)
	assert.True(f == Faults{KeepQueues: true, SQHDSkew: 2, ReadyDelay: 1})

	_, err = ParseFaults("keep-queues,slow")
	assert.Error(err, ErrUnknownFault)
	assert.Equal(err.Error(), "slow: unknown fault")

	_, err = ParseFaults("sqhd-skew=x")
	assert.NonNil(err)
	assert.Int(len(FaultNames()), 6)
}
