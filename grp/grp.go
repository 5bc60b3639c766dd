// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package grp runs groups of conformance tests.
package grp

import (
	"fmt"
	"time"

	"github.com/platinasystems/log"
	"github.com/platinasystems/nvmecheck/recovered"
)

// Desc documents a test. Compliance names the NVMe revision and section.
type Desc struct {
	Compliance string
	Short      string
	Long       string
}

type Test interface {
	String() string
	Describe() Desc
	RunCoreTest() error
}

type Result struct {
	Group   string
	Test    string
	Err     error
	Elapsed time.Duration
}

func (r *Result) Passed() bool { return r.Err == nil }

func (r *Result) String() string {
	if r.Err != nil {
		// Err is prefaced with GROUP/TEST
		return fmt.Sprint("FAIL ", r.Err)
	}
	return fmt.Sprintf("PASS %s/%s (%v)", r.Group, r.Test,
		r.Elapsed.Round(time.Millisecond))
}

type Group struct {
	Name string
	Desc string
	// Init failure skips every test of the group.
	Init func() error
	Exit func()

	Tests []Test

	// Run the remaining tests after a failure.
	KeepGoing bool
}

func (g *Group) String() string { return g.Name }

// Run executes the tests in order; by default it stops at the first
// failure since later tests assume the state the earlier ones left.
func (g *Group) Run() (results []Result) {
	if g.Exit != nil {
		defer g.Exit()
	}
	if g.Init != nil {
		if err := recovered.Call(g.Name, g.Init); err != nil {
			log.Print("err", err)
			return []Result{{Group: g.Name, Test: "init", Err: err}}
		}
	}
	for _, t := range g.Tests {
		d := t.Describe()
		log.Printf("info", "%s/%s: %s (%s)", g.Name, t, d.Short,
			d.Compliance)
		start := time.Now()
		err := recovered.Call(g.Name+"/"+t.String(), t.RunCoreTest)
		r := Result{
			Group:   g.Name,
			Test:    t.String(),
			Err:     err,
			Elapsed: time.Since(start),
		}
		results = append(results, r)
		if err != nil {
			log.Print("err", r.String())
			if !g.KeepGoing {
				break
			}
		} else {
			log.Print("info", r.String())
		}
	}
	return
}

// Failed returns the failed results.
func Failed(results []Result) (failed []Result) {
	for _, r := range results {
		if !r.Passed() {
			failed = append(failed, r)
		}
	}
	return
}
