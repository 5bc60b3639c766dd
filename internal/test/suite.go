// Copyright © 2015-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package test

import (
	"fmt"
	"testing"
)

type Tester interface {
	String() string
	Test(*testing.T)
}

// Tests run in order. Later tests may depend on the state left by earlier
// ones so, like a grp.Group, the rest are skipped after a failure unless
// -test.keepgoing.
type Tests []Tester

// Named Tests use testing.T.Run() but unnamed Tests ("") are run directly.
func (tests Tests) Test(t *testing.T) {
	for _, x := range tests {
		if t.Failed() && !*KeepGoing {
			t.Log("skip", x, "after failure")
			continue
		}
		if len(x.String()) > 0 {
			t.Run(x.String(), x.Test)
		} else {
			x.Test(t)
		}
	}
}

// Suite brackets its Tests with optional Init and Exit.
type Suite struct {
	Name string
	Init func(*testing.T)
	Exit func(*testing.T)
	Tests
}

func (suite *Suite) String() string { return suite.Name }

func (suite Suite) Test(t *testing.T) {
	if *DryRun {
		for _, x := range suite.Tests {
			fmt.Println(t.Name() + "/" + x.String())
		}
		return
	}
	if suite.Exit != nil {
		defer suite.Exit(t)
	}
	if suite.Init != nil {
		suite.Init(t)
	}
	suite.Tests.Test(t)
}

type Unit struct {
	Name string
	Func func(*testing.T)
}

func (u *Unit) String() string { return u.Name }

func (u *Unit) Test(t *testing.T) {
	if *DryRun {
		fmt.Println(t.Name())
		return
	}
	Assert{t}.Comment("run ", u.Name)
	u.Func(t)
}
