// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package nvmeio

import (
	"os"
	"testing"
	"time"

	"github.com/platinasystems/nvmecheck/ctrlr"
	"github.com/platinasystems/nvmecheck/internal/test"
	"github.com/platinasystems/nvmecheck/logfile"
	"github.com/platinasystems/nvmecheck/model"
	"github.com/platinasystems/nvmecheck/nvme"
)

type admin struct {
	d  *model.Device
	sq *model.SQ
	cq *model.CQ
}

func newAdmin(t *testing.T, faults model.Faults) *admin {
	assert := test.Assert{TB: t}
	d := model.New()
	d.Faults = faults
	a := &admin{d: d, sq: d.NewASQ(), cq: d.NewACQ()}
	assert.Nil(a.cq.Init(5))
	assert.Nil(a.sq.Init(5))
	assert.Nil(ctrlr.New(d).SetState(nvme.Enable))
	return a
}

func newIdentify(t *testing.T, ctrl bool) *nvme.Identify {
	assert := test.Assert{TB: t}
	buf := new(nvme.MemBuffer)
	assert.Nil(buf.InitAlignment(nvme.IdentifyDataSize, nvme.PageSize,
		true, 0xff))
	id := nvme.NewIdentify()
	id.SetCNS(ctrl)
	id.SetNSID(1)
	assert.Nil(id.SetPrpBuffer(nvme.MaskPRP1Page|nvme.MaskPRP2Page, buf))
	return id
}

func TestSendIdentify(t *testing.T) {
	assert := test.Assert{TB: t}
	a := newAdmin(t, model.Faults{})
	sink, err := logfile.New(t.TempDir())
	assert.Nil(err)
	id := newIdentify(t, true)

	assert.Nil(New(sink).SendCmdToHdw("grp", "test", DefaultCmdWait,
		a.sq, a.cq, &id.Cmd, "ctrlr", true))
	b := id.Buf.Bytes()
	assert.Equal(string(b[4:17]), model.Serial)

	fn := sink.PrepLogFile("grp", "test", "Identify", "ctrlr")
	assert.Nil(id.Buf.Dump(fn, "again"))
	_, err = os.Stat(fn)
	assert.Nil(err)

	assert.Int(int(a.sq.GetQMetrics().TailPtr), 1)
	assert.Int(int(a.cq.GetQMetrics().HeadPtr), 1)
}

func TestSendSequence(t *testing.T) {
	assert := test.Assert{TB: t}
	a := newAdmin(t, model.Faults{})
	io := New(nil)
	// wraps the 5 element queues twice
	for i := 0; i < 10; i++ {
		id := newIdentify(t, i%2 == 0)
		assert.Nil(io.SendCmdToHdw("grp", "test", DefaultCmdWait,
			a.sq, a.cq, &id.Cmd, "seq", false))
		assert.Int(int(id.CID()), i)
	}
	m := a.cq.GetQMetrics()
	assert.Int(int(m.HeadPtr), 0)
	assert.True(m.Phase)
}

func TestTimeout(t *testing.T) {
	assert := test.Assert{TB: t}
	a := newAdmin(t, model.Faults{DropCompletions: true})
	id := newIdentify(t, true)
	start := time.Now()
	err := New(nil).SendCmdToHdw("grp", "test", 20*time.Millisecond,
		a.sq, a.cq, &id.Cmd, "timeout", false)
	assert.Error(err, ErrCmdTimeout)
	assert.Match(err.Error(), `^Identify: CQ 0: 0 of 1 CEs after 20ms`)
	assert.True(time.Since(start) >= 20*time.Millisecond)
}

func TestCmdStatus(t *testing.T) {
	assert := test.Assert{TB: t}
	a := newAdmin(t, model.Faults{})
	id := newIdentify(t, false)
	id.SetNSID(7)
	err := New(nil).SendCmdToHdw("grp", "test", DefaultCmdWait,
		a.sq, a.cq, &id.Cmd, "ns", false)
	assert.Error(err, ErrCmdStatus)
	assert.Match(err.Error(), "SC 0x0b")

	cmd := nvme.NewCmd("Abort", nvme.AdminAbort)
	err = New(nil).SendCmdToHdw("grp", "test", DefaultCmdWait,
		a.sq, a.cq, cmd, "abort", false)
	assert.Error(err, ErrCmdStatus)
}
