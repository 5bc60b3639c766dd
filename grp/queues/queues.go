// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package queues validates the admin queue pair's pointers after the first
// command of each controller enable.
package queues

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/platinasystems/log"
	"github.com/platinasystems/nvmecheck/grp"
	"github.com/platinasystems/nvmecheck/nvme"
)

const GrpName = "queues"

// Group lifetime IDs of the admin queues.
const (
	ACQGroupID = "ACQ"
	ASQGroupID = "ASQ"
)

const (
	adminQDepth = 5
	// Enable/disable cycles; the second proves the first left no state.
	cycles = 2
)

var (
	ErrStateTransition = errors.New("controller state transition failed")
	ErrQueueInvariant  = errors.New("queue invariant violated")
)

type TransitionError struct {
	Cycle int
	State nvme.State
	Err   error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cycle %d: %v: %v", e.Cycle, ErrStateTransition, e.Err)
}

func (e *TransitionError) Is(target error) bool { return target == ErrStateTransition }
func (e *TransitionError) Unwrap() error        { return e.Err }

// QueueError is one violated pointer invariant and the queue dump taken
// when it was found.
type QueueError struct {
	Cycle    int
	Queue    string
	Field    string
	Expected uint16
	Actual   uint16
	Dump     string
}

func (e *QueueError) Error() string {
	return fmt.Sprintf("cycle %d: expected %s.%s = 0x%04x but actual 0x%04x, dump %s",
		e.Cycle, e.Queue, e.Field, e.Expected, e.Actual, e.Dump)
}

func (e *QueueError) Unwrap() error { return ErrQueueInvariant }

type QueueErrors []*QueueError

func (q QueueErrors) Error() string {
	s := make([]string, len(q))
	for i, e := range q {
		s[i] = e.Error()
	}
	return strings.Join(s, "; ")
}

func (q QueueErrors) Is(target error) bool { return target == ErrQueueInvariant }

type Allocator interface {
	AllocACQ(id string) (nvme.CQ, error)
	AllocASQ(id string) (nvme.SQ, error)
}

type Controller interface {
	SetCSS(css nvme.CSS) error
	SetState(s nvme.State) error
}

type Dispatcher interface {
	SendCmdToHdw(grp, test string, timeout time.Duration, sq nvme.SQ,
		cq nvme.CQ, cmd *nvme.Cmd, tag string, verbose bool) error
}

type LogFiler interface {
	PrepLogFile(grp, test, obj, tag string) string
}

type InitialStateAdmin struct {
	Grp     string
	Rsrc    Allocator
	Ctrlr   Controller
	IO      Dispatcher
	Logs    LogFiler
	CmdWait time.Duration
	// Dump the identify data of every command.
	Verbose bool

	cycle int
}

func NewGroup(tests ...grp.Test) *grp.Group {
	return &grp.Group{
		Name:  GrpName,
		Desc:  "Admin and I/O queue creation and state",
		Tests: tests,
	}
}

func (t *InitialStateAdmin) String() string { return "initialStateAdmin" }

func (t *InitialStateAdmin) Describe() grp.Desc {
	return grp.Desc{
		Compliance: "revision 1.0b, section 4",
		Short:      "Validate new ASQ/ACQ pointer initial states",
		Long: "Create an ASQ/ACQ pair; issue identify cmd reap it " +
			"successfully, disable the DUT, but not completely, allow " +
			"the ASQ/ACQ to propagate through reset. Re-enable the " +
			"DUT, and re-issue the same identify cmd and reap it " +
			"successfully, then validate ASQ tail_ptr = 1, " +
			"ACQ head_ptr = 1, and CE.SQHD = 1.",
	}
}

// RunCoreTest expects a disabled controller with interrupts masked.
func (t *InitialStateAdmin) RunCoreTest() error {
	acq, err := t.Rsrc.AllocACQ(ACQGroupID)
	if err != nil {
		return err
	}
	if err = acq.Init(adminQDepth); err != nil {
		return err
	}
	asq, err := t.Rsrc.AllocASQ(ASQGroupID)
	if err != nil {
		return err
	}
	if err = asq.Init(adminQDepth); err != nil {
		return err
	}
	return t.ValidateInitialStateAdmin(acq, asq)
}

// ValidateInitialStateAdmin runs the enable, identify, verify, disable
// cycle twice. Any failure ends the test.
func (t *InitialStateAdmin) ValidateInitialStateAdmin(acq nvme.CQ, asq nvme.SQ) error {
	for t.cycle = 1; t.cycle <= cycles; t.cycle++ {
		if err := t.Ctrlr.SetCSS(nvme.CSSNVMCmdSet); err != nil {
			return fmt.Errorf("cycle %d: %w", t.cycle, err)
		}
		if err := t.Ctrlr.SetState(nvme.Enable); err != nil {
			return &TransitionError{t.cycle, nvme.Enable, err}
		}
		if err := t.SubmitIdentifyCmd(acq, asq); err != nil {
			return fmt.Errorf("cycle %d: %w", t.cycle, err)
		}
		if err := t.VerifyHeadAndTailDoorBells(acq, asq); err != nil {
			return err
		}
		if err := t.Ctrlr.SetState(nvme.Disable); err != nil {
			return &TransitionError{t.cycle, nvme.Disable, err}
		}
	}
	return nil
}

// SubmitIdentifyCmd sends an identify controller command with a page
// aligned data buffer and blocks until it's reaped or CmdWait expires.
func (t *InitialStateAdmin) SubmitIdentifyCmd(acq nvme.CQ, asq nvme.SQ) error {
	log.Print("info", "Create identify cmd and assoc some buffer memory")
	id := nvme.NewIdentify()
	log.Print("info", "Force identify to request ctrlr capabilities struct")
	id.SetCNS(true)
	buf := new(nvme.MemBuffer)
	err := buf.InitAlignment(nvme.IdentifyDataSize, nvme.PageSize, true, 0)
	if err != nil {
		return err
	}
	err = id.SetPrpBuffer(nvme.MaskPRP1Page|nvme.MaskPRP2Page, buf)
	if err != nil {
		return err
	}
	log.Print("info", "Send identify cmds to hdw")
	return t.IO.SendCmdToHdw(t.Grp, t.String(), t.CmdWait, asq, acq,
		&id.Cmd, "InitStateAdmin", t.Verbose)
}

type dumper interface {
	Dump(path, reason string) error
}

func (t *InitialStateAdmin) violation(q dumper, obj, field, reason string,
	actual uint16) *QueueError {
	e := &QueueError{
		Cycle:    t.cycle,
		Queue:    strings.ToUpper(obj),
		Field:    field,
		Expected: 1,
		Actual:   actual,
		Dump:     t.Logs.PrepLogFile(t.Grp, t.String(), obj, field),
	}
	log.Printf("err", "Expected %s.%s = 0x%04X but actual %s.%s = 0x%04X",
		e.Queue, field, e.Expected, e.Queue, field, actual)
	if err := q.Dump(e.Dump, reason); err != nil {
		log.Print("err", e.Dump, ": ", err)
	}
	return e
}

// VerifyHeadAndTailDoorBells checks ASQ tail_ptr, ACQ head_ptr and the
// reaped CE.SQHD all equal 1, dumping the queue for each violation.
func (t *InitialStateAdmin) VerifyHeadAndTailDoorBells(acq nvme.CQ, asq nvme.SQ) error {
	acqMetrics := acq.GetQMetrics()
	nvme.LogCQMetrics(acqMetrics)
	asqMetrics := asq.GetQMetrics()
	nvme.LogSQMetrics(asqMetrics)

	var errs QueueErrors
	if asqMetrics.TailPtr != 1 {
		errs = append(errs, t.violation(asq, "asq", "tail_ptr",
			"SQ Metrics Tail Pointer Inconsistent", asqMetrics.TailPtr))
	}
	if acqMetrics.HeadPtr != 1 {
		errs = append(errs, t.violation(acq, "acq", "head_ptr",
			"CQ Metrics Head Pointer Inconsistent", acqMetrics.HeadPtr))
	}
	// the reaped CE is the one behind the head
	i := acqMetrics.HeadPtr
	if i == 0 {
		i = acqMetrics.Elements
	}
	ce, err := acq.PeekCE(i - 1)
	if err != nil {
		return fmt.Errorf("cycle %d: %w", t.cycle, err)
	}
	if ce.SQHD() != 1 {
		errs = append(errs, t.violation(acq, "acq", "CE.SQHD",
			"CE SQ Head Pointer Inconsistent", ce.SQHD()))
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return errs
}
