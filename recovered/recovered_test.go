// Copyright © 2015-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package recovered

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/platinasystems/nvmecheck/internal/test"
)

type x struct {
	name string
	main func(...string) error
}

func (x *x) Main(args ...string) error { return x.main(args...) }

func (x *x) String() string { return x.name }

func TestNoErr(t *testing.T) {
	assert := test.Assert{TB: t}
	assert.Nil(New(&x{"test", func(...string) error {
		return nil
	}}).Main())
}

func TestIoEOF(t *testing.T) {
	assert := test.Assert{TB: t}
	assert.Nil(New(&x{"test", func(...string) error {
		return io.EOF
	}}).Main())
}

func TestUnexpectedEOF(t *testing.T) {
	assert := test.Assert{TB: t}
	err := New(&x{"test", func(...string) error {
		return io.ErrUnexpectedEOF
	}}).Main()
	assert.Error(err, io.ErrUnexpectedEOF)
	assert.Equal(err.Error(), "test: unexpected EOF")
}

func TestPanic(t *testing.T) {
	assert := test.Assert{TB: t}
	err := New(&x{"test", func(...string) error {
		panic(42)
	}}).Main()
	assert.Error(err, "test: 42")
}

func TestCallPanicError(t *testing.T) {
	assert := test.Assert{TB: t}
	oops := errors.New("oops")
	err := Call("queues/initial state admin", func() error {
		panic(oops)
	})
	assert.Error(err, oops)
	assert.Equal(err.Error(), "queues/initial state admin: oops")
}

func TestDivby0(t *testing.T) {
	assert := test.Assert{TB: t}
	err := Call("test", func() error {
		var i, j int
		_ = i / j
		return nil
	})
	assert.NonNil(err)
	assert.True(strings.HasPrefix(err.Error(),
		"test: runtime error: integer divide by zero"))
	assert.Comment(err)
}
