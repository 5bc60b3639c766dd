// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package report prints test results, colored when writing to a terminal.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/platinasystems/nvmecheck/grp"
)

var ErrFailed = errors.New("failed")

const (
	green = "\x1b[32m"
	red   = "\x1b[31m"
	reset = "\x1b[0m"
)

type Report struct {
	w     io.Writer
	color bool

	passed, failed int
}

func New(f *os.File) *Report {
	return NewWriter(f, isatty.IsTerminal(f.Fd()) ||
		isatty.IsCygwinTerminal(f.Fd()))
}

func NewWriter(w io.Writer, color bool) *Report {
	return &Report{w: w, color: color}
}

func (r *Report) paint(c, s string) string {
	if !r.color {
		return s
	}
	return c + s + reset
}

func (r *Report) Result(res *grp.Result) {
	s := res.String()
	if res.Passed() {
		r.passed++
		fmt.Fprintln(r.w, r.paint(green, s))
	} else {
		r.failed++
		fmt.Fprintln(r.w, r.paint(red, s))
	}
}

func (r *Report) Results(results []grp.Result) {
	for i := range results {
		r.Result(&results[i])
	}
}

// Summary prints the totals and returns ErrFailed if any test failed.
func (r *Report) Summary() error {
	n := r.passed + r.failed
	if r.failed == 0 {
		fmt.Fprintln(r.w, r.paint(green,
			fmt.Sprintf("%d of %d passed", r.passed, n)))
		return nil
	}
	fmt.Fprintln(r.w, r.paint(red,
		fmt.Sprintf("%d of %d failed", r.failed, n)))
	return fmt.Errorf("%d of %d %w", r.failed, n, ErrFailed)
}
