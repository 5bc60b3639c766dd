// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package nvmeio submits commands and waits for their completions.
package nvmeio

import (
	"errors"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/log"
	"github.com/platinasystems/nvmecheck/nvme"
)

var (
	ErrCmdTimeout   = errors.New("command timeout")
	ErrCmdStatus    = errors.New("command failed")
	ErrUnexpectedCE = errors.New("unexpected completion")
)

// DefaultCmdWait bounds a single admin command.
const DefaultCmdWait = 2 * time.Second

type LogFiler interface {
	PrepLogFile(grp, test, obj, tag string) string
}

type IO struct {
	Logs LogFiler
	// completion poll interval bounds
	PollMin, PollMax time.Duration
}

func New(logs LogFiler) *IO {
	return &IO{
		Logs:    logs,
		PollMin: 100 * time.Microsecond,
		PollMax: 10 * time.Millisecond,
	}
}

// SendCmdToHdw stages cmd on sq, rings the doorbell and reaps its
// completion from cq. When verbose, the data buffer is dumped to an
// artifact tagged with tag.
func (io *IO) SendCmdToHdw(grp, test string, timeout time.Duration,
	sq nvme.SQ, cq nvme.CQ, cmd *nvme.Cmd, tag string, verbose bool) error {
	if err := sq.Send(cmd); err != nil {
		return fmt.Errorf("%s: send: %w", cmd.Name, err)
	}
	nvme.LogSQMetrics(sq.GetQMetrics())
	if err := sq.Ring(); err != nil {
		return fmt.Errorf("%s: ring: %w", cmd.Name, err)
	}
	if _, err := io.ReapInquiryWaitSpecify(cq, timeout, 1); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	ces, err := cq.Reap(1)
	if err != nil {
		return fmt.Errorf("%s: reap: %w", cmd.Name, err)
	}
	nvme.LogCQMetrics(cq.GetQMetrics())
	ce := ces[0]
	log.Print("debug", cmd.Name, ": ", ce)
	if ce.CID() != cmd.CID() {
		return fmt.Errorf("%s: CE.CID 0x%04x != 0x%04x: %w",
			cmd.Name, ce.CID(), cmd.CID(), ErrUnexpectedCE)
	}
	if ce.Status() != 0 {
		return fmt.Errorf("%s: SCT 0x%x SC 0x%02x: %w",
			cmd.Name, ce.SCT(), ce.SC(), ErrCmdStatus)
	}
	if verbose && cmd.Buf != nil && io.Logs != nil {
		fn := io.Logs.PrepLogFile(grp, test, cmd.Name, tag)
		if err = cmd.Buf.Dump(fn, cmd.Name+" data"); err != nil {
			return err
		}
	}
	return nil
}

// ReapInquiryWaitSpecify polls cq until at least want completions are
// waiting or timeout expires.
func (io *IO) ReapInquiryWaitSpecify(cq nvme.CQ, timeout time.Duration,
	want uint16) (uint16, error) {
	b := &backoff.Backoff{
		Min:    io.PollMin,
		Max:    io.PollMax,
		Factor: 2,
		Jitter: false,
	}
	deadline := time.Now().Add(timeout)
	for {
		n, err := cq.ReapInquiry()
		if err != nil {
			return n, err
		}
		if n >= want {
			return n, nil
		}
		if time.Now().After(deadline) {
			m := cq.GetQMetrics()
			return n, fmt.Errorf("CQ %d: %d of %d CEs after %v: %w",
				m.QID, n, want, timeout, ErrCmdTimeout)
		}
		time.Sleep(b.Duration())
	}
}
