// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ctrlr

import (
	"bytes"
	"fmt"

	"github.com/platinasystems/nvmecheck/nvme"
)

// Snapshot is the controller register file read in offset order.
type Snapshot struct {
	CAP  uint64
	VS   uint32
	CC   uint32
	CSTS uint32
	AQA  uint32
	ASQ  uint64
	ACQ  uint64
}

func (c *Config) Snapshot() (s Snapshot, err error) {
	if s.CAP, err = c.Regs.Read64(nvme.RegCAP); err != nil {
		return
	}
	for _, x := range []struct {
		offset uint
		p      *uint32
	}{
		{nvme.RegVS, &s.VS},
		{nvme.RegCC, &s.CC},
		{nvme.RegCSTS, &s.CSTS},
		{nvme.RegAQA, &s.AQA},
	} {
		if *x.p, err = c.Regs.Read32(x.offset); err != nil {
			return
		}
	}
	if s.ASQ, err = c.Regs.Read64(nvme.RegASQ); err != nil {
		return
	}
	s.ACQ, err = c.Regs.Read64(nvme.RegACQ)
	return
}

func (s Snapshot) String() string {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "CAP\t0x%016x (MQES %d, TO %v, CSS 0x%02x)\n", s.CAP,
		s.CAP&nvme.CAPMaskMQES+1,
		TimeoutUnit*timeoutUnits(s.CAP),
		(s.CAP&nvme.CAPMaskCSS)>>nvme.CAPShiftCSS)
	fmt.Fprintf(buf, "VS\t%d.%d.%d\n", s.VS>>16, (s.VS>>8)&0xff, s.VS&0xff)
	fmt.Fprintf(buf, "CC\t0x%08x (EN %v, CSS %v)\n", s.CC,
		s.CC&nvme.CCEnable != 0,
		nvme.CSS((s.CC&nvme.CCMaskCSS)>>nvme.CCShiftCSS))
	fmt.Fprintf(buf, "CSTS\t0x%08x (RDY %v, CFS %v)\n", s.CSTS,
		s.CSTS&nvme.CSTSReady != 0, s.CSTS&nvme.CSTSFatalStatus != 0)
	fmt.Fprintf(buf, "AQA\t0x%08x (ACQS %d, ASQS %d)\n", s.AQA,
		(s.AQA>>16)&0xfff+1, s.AQA&0xfff+1)
	fmt.Fprintf(buf, "ASQ\t0x%016x\n", s.ASQ)
	fmt.Fprintf(buf, "ACQ\t0x%016x\n", s.ACQ)
	return buf.String()
}
