// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package test

import (
	"errors"
	"strings"
	"testing"
)

func TestSuiteOrder(t *testing.T) {
	var trace []string
	step := func(s string) func(*testing.T) {
		return func(*testing.T) { trace = append(trace, s) }
	}
	Suite{
		Name: "order",
		Init: step("init"),
		Exit: step("exit"),
		Tests: Tests{
			&Unit{Name: "a", Func: step("a")},
			&Unit{Name: "", Func: step("b")},
			&Unit{Name: "c", Func: step("c")},
		},
	}.Test(t)
	if *DryRun {
		return
	}
	Assert{t}.Equal(strings.Join(trace, " "), "init a b c exit")
}

type wrapped struct{ error }

func (w wrapped) Unwrap() error { return w.error }

func TestAssertError(t *testing.T) {
	assert := Assert{t}
	errBase := errors.New("base")
	err := wrapped{errBase}
	assert.Error(err, errBase)
	assert.Error(err, "base")
	assert.Error(err, true)
	assert.Error(nil, false)
	assert.Uint(0x10, 16)
	assert.Int(-1, -1)
}
