// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package model

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/platinasystems/nvmecheck/nvme"
)

var (
	ErrQueueFull    = errors.New("queue full")
	ErrNotInit      = errors.New("queue not initialized")
	ErrCtrlrEnabled = errors.New("controller enabled")
)

// SQ is the admin submission queue. The host tail and the controller head
// share one structure since both sides are simulated.
type SQ struct {
	d        *Device
	elements uint16
	mem      nvme.MemBuffer
	tail     uint16
	head     uint16
	nextCID  uint16
	pending  map[uint16]*nvme.Cmd
}

// CQ is the admin completion queue.
type CQ struct {
	d        *Device
	elements uint16
	mem      nvme.MemBuffer
	head     uint16
	tail     uint16
	dbHead   uint16
	// controller phase for the next post
	phase bool
	// expected phase at head
	hostPhase bool
}

func (d *Device) NewASQ() *SQ { return &SQ{d: d} }
func (d *Device) NewACQ() *CQ { return &CQ{d: d} }

func (d *Device) checkInit(elements uint16) error {
	if d.enabled() {
		return ErrCtrlrEnabled
	}
	mqes := uint32(d.cap & nvme.CAPMaskMQES)
	if elements < 2 || uint32(elements) > mqes+1 {
		return fmt.Errorf("%d elements outside 2..%d", elements, mqes+1)
	}
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func (q *SQ) Init(elements uint16) error {
	q.d.mu.Lock()
	defer q.d.mu.Unlock()
	if err := q.d.checkInit(elements); err != nil {
		return fmt.Errorf("ASQ: %w", err)
	}
	err := q.mem.InitAlignment(uint(elements)*nvme.CmdSize, nvme.PageSize,
		true, 0)
	if err != nil {
		return fmt.Errorf("ASQ: %w", err)
	}
	q.elements = elements
	q.reset()
	q.d.asq = q
	q.d.aqa = q.d.aqa&^0xfff | uint32(elements-1)
	q.d.asqa = uint64(q.mem.Addr())
	return nil
}

func (q *SQ) reset() {
	q.tail, q.head = 0, 0
	q.pending = make(map[uint16]*nvme.Cmd)
	zero(q.mem.Bytes())
}

func (q *SQ) GetQMetrics() nvme.SQMetrics {
	q.d.mu.Lock()
	defer q.d.mu.Unlock()
	return nvme.SQMetrics{
		TailPtr:  q.tail,
		HeadPtr:  q.head,
		Elements: q.elements,
	}
}

// Send assigns the command a unique CID and stages it at the tail.
func (q *SQ) Send(cmd *nvme.Cmd) error {
	q.d.mu.Lock()
	defer q.d.mu.Unlock()
	if q.elements == 0 {
		return fmt.Errorf("ASQ: %w", ErrNotInit)
	}
	if (q.tail+1)%q.elements == q.head {
		return fmt.Errorf("ASQ: %w", ErrQueueFull)
	}
	cid := q.nextCID
	q.nextCID++
	cmd.SetCID(cid)
	cmd.Encode(q.mem.Bytes()[int(q.tail)*nvme.CmdSize:])
	q.pending[cid] = cmd
	q.tail = (q.tail + 1) % q.elements
	return nil
}

func (q *SQ) Ring() error {
	q.d.mu.Lock()
	tail := q.tail
	q.d.mu.Unlock()
	return q.d.Write32(nvme.RegSQ0TDBL, uint32(tail))
}

func (q *SQ) Dump(path, reason string) error {
	q.d.mu.Lock()
	defer q.d.mu.Unlock()
	buf := new(bytes.Buffer)
	fmt.Fprintln(buf, reason)
	fmt.Fprintf(buf, "tail_ptr %d, head_ptr %d, elements %d\n",
		q.tail, q.head, q.elements)
	b := q.mem.Bytes()
	for i := 0; i < int(q.elements); i++ {
		fmt.Fprintf(buf, "SQ entry %d\n", i)
		fmt.Fprint(buf, hex.Dump(b[i*nvme.CmdSize:(i+1)*nvme.CmdSize]))
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func (q *CQ) Init(elements uint16) error {
	q.d.mu.Lock()
	defer q.d.mu.Unlock()
	if err := q.d.checkInit(elements); err != nil {
		return fmt.Errorf("ACQ: %w", err)
	}
	err := q.mem.InitAlignment(uint(elements)*nvme.CESize, nvme.PageSize,
		true, 0)
	if err != nil {
		return fmt.Errorf("ACQ: %w", err)
	}
	q.elements = elements
	q.reset()
	q.d.acq = q
	q.d.aqa = q.d.aqa&^0x0fff0000 | uint32(elements-1)<<16
	q.d.acqa = uint64(q.mem.Addr())
	return nil
}

func (q *CQ) reset() {
	q.head, q.tail, q.dbHead = 0, 0, 0
	q.phase, q.hostPhase = true, true
	zero(q.mem.Bytes())
}

func (q *CQ) GetQMetrics() nvme.CQMetrics {
	q.d.mu.Lock()
	defer q.d.mu.Unlock()
	return nvme.CQMetrics{
		HeadPtr:  q.head,
		TailPtr:  q.tail,
		Elements: q.elements,
		Phase:    q.hostPhase,
	}
}

func (q *CQ) PeekCE(index uint16) (nvme.CE, error) {
	q.d.mu.Lock()
	defer q.d.mu.Unlock()
	if index >= q.elements {
		return nvme.CE{}, fmt.Errorf("ACQ: CE %d beyond %d elements",
			index, q.elements)
	}
	return nvme.DecodeCE(q.mem.Bytes()[int(index)*nvme.CESize:]), nil
}

func (q *CQ) inquire() (n uint16) {
	b := q.mem.Bytes()
	i, p := q.head, q.hostPhase
	for n < q.elements-1 {
		ce := nvme.DecodeCE(b[int(i)*nvme.CESize:])
		if ce.P() != p {
			break
		}
		n++
		if i++; i == q.elements {
			i, p = 0, !p
		}
	}
	return
}

// ReapInquiry counts the completions waiting at the head.
func (q *CQ) ReapInquiry() (uint16, error) {
	q.d.mu.Lock()
	defer q.d.mu.Unlock()
	if q.elements == 0 {
		return 0, fmt.Errorf("ACQ: %w", ErrNotInit)
	}
	return q.inquire(), nil
}

// Reap consumes n completions and rings the head doorbell.
func (q *CQ) Reap(n uint16) ([]nvme.CE, error) {
	q.d.mu.Lock()
	if q.elements == 0 {
		q.d.mu.Unlock()
		return nil, fmt.Errorf("ACQ: %w", ErrNotInit)
	}
	if avail := q.inquire(); n > avail {
		q.d.mu.Unlock()
		return nil, fmt.Errorf("ACQ: reap %d of %d available", n, avail)
	}
	ces := make([]nvme.CE, 0, n)
	b := q.mem.Bytes()
	for ; n > 0; n-- {
		ces = append(ces, nvme.DecodeCE(b[int(q.head)*nvme.CESize:]))
		if q.head++; q.head == q.elements {
			q.head, q.hostPhase = 0, !q.hostPhase
		}
	}
	head := q.head
	q.d.mu.Unlock()
	return ces, q.d.Write32(regCQ0HDBL, uint32(head))
}

func (q *CQ) Dump(path, reason string) error {
	q.d.mu.Lock()
	defer q.d.mu.Unlock()
	buf := new(bytes.Buffer)
	fmt.Fprintln(buf, reason)
	fmt.Fprintf(buf, "head_ptr %d, tail_ptr %d, elements %d, phase %v\n",
		q.head, q.tail, q.elements, q.hostPhase)
	b := q.mem.Bytes()
	for i := 0; i < int(q.elements); i++ {
		fmt.Fprintf(buf, "CE %d: %v\n", i,
			nvme.DecodeCE(b[i*nvme.CESize:]))
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func (d *Device) ringSQ(tail uint16) {
	sq, cq := d.asq, d.acq
	if !d.ready() || sq == nil || cq == nil || tail >= sq.elements {
		return
	}
	b := sq.mem.Bytes()
	for sq.head != tail {
		cmd := nvme.DecodeCmd(b[int(sq.head)*nvme.CmdSize:])
		sq.head = (sq.head + 1) % sq.elements
		host := sq.pending[cmd.CID()]
		delete(sq.pending, cmd.CID())
		if d.DropCompletions {
			continue
		}
		sct, sc := d.execute(&cmd, host)
		var ce nvme.CE
		ce.SetSQ(uint16(int(sq.head)+d.SQHDSkew), 0)
		ce.SetCID(cmd.CID(), cq.phase, sct, sc)
		d.post(cq, ce)
	}
}

func (d *Device) post(cq *CQ, ce nvme.CE) {
	if (cq.tail+1)%cq.elements == cq.dbHead {
		d.csts |= nvme.CSTSFatalStatus
		return
	}
	ce.Encode(cq.mem.Bytes()[int(cq.tail)*nvme.CESize:])
	if cq.tail++; cq.tail == cq.elements {
		cq.tail, cq.phase = 0, !cq.phase
	}
}

func (d *Device) ringCQ(head uint16) {
	if d.acq != nil && head < d.acq.elements {
		d.acq.dbHead = head
	}
}
