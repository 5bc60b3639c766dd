// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package nvme

import (
	"fmt"

	"github.com/platinasystems/log"
)

type SQMetrics struct {
	QID      uint16
	CQID     uint16
	TailPtr  uint16
	HeadPtr  uint16
	Elements uint16
}

type CQMetrics struct {
	QID      uint16
	TailPtr  uint16
	HeadPtr  uint16
	Elements uint16
	Phase    bool
}

func (m SQMetrics) String() string {
	return fmt.Sprintf("SQ %d: cq %d, tail_ptr %d, head_ptr %d, elements %d",
		m.QID, m.CQID, m.TailPtr, m.HeadPtr, m.Elements)
}

func (m CQMetrics) String() string {
	return fmt.Sprintf("CQ %d: head_ptr %d, tail_ptr %d, elements %d, phase %v",
		m.QID, m.HeadPtr, m.TailPtr, m.Elements, m.Phase)
}

func LogSQMetrics(m SQMetrics) { log.Print("debug", m) }
func LogCQMetrics(m CQMetrics) { log.Print("debug", m) }

// SQ is a submission queue. Send stages a command at the tail; Ring
// publishes the tail to the controller's doorbell.
type SQ interface {
	Init(elements uint16) error
	GetQMetrics() SQMetrics
	Send(cmd *Cmd) error
	Ring() error
	Dump(path, reason string) error
}

// CQ is a completion queue. Reap consumes entries and advances the head.
type CQ interface {
	Init(elements uint16) error
	GetQMetrics() CQMetrics
	PeekCE(index uint16) (CE, error)
	ReapInquiry() (uint16, error)
	Reap(n uint16) ([]CE, error)
	Dump(path, reason string) error
}
