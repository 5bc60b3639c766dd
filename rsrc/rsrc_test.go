// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package rsrc

import (
	"errors"
	"testing"

	"github.com/platinasystems/nvmecheck/internal/test"
)

type thing struct{ kind Kind }

func newThings() (*Mngr, *int) {
	n := new(int)
	return New(func(k Kind) (interface{}, error) {
		if k == IOSQ {
			return nil, errors.New("unsupported")
		}
		*n++
		return &thing{k}, nil
	}), n
}

func TestAllocShared(t *testing.T) {
	assert := test.Assert{TB: t}
	m, n := newThings()
	a, err := m.AllocObj(ACQ, "ACQ")
	assert.Nil(err)
	b, err := m.AllocObj(ACQ, "ACQ")
	assert.Nil(err)
	assert.True(a == b)
	assert.Int(*n, 1)
	assert.Int(m.Len(), 1)

	_, err = m.AllocObj(ASQ, "ACQ")
	assert.Error(err, ErrKindMismatch)

	_, err = m.AllocObj(IOSQ, "IOSQ")
	assert.Match(err.Error(), "^IOSQ: IOSQ: unsupported$")
}

func TestRelease(t *testing.T) {
	assert := test.Assert{TB: t}
	m, n := newThings()
	_, err := m.AllocObj(ACQ, "ACQ")
	assert.Nil(err)
	_, err = m.AllocObj(ACQ, "ACQ")
	assert.Nil(err)

	freed, err := m.Release("ACQ")
	assert.Nil(err)
	assert.False(freed)
	freed, err = m.Release("ACQ")
	assert.Nil(err)
	assert.True(freed)
	_, found := m.GetObj("ACQ")
	assert.False(found)
	_, err = m.Release("ACQ")
	assert.Error(err, ErrUnknownID)

	// the freed slot is reused
	_, err = m.AllocObj(ASQ, "ASQ")
	assert.Nil(err)
	assert.Int(len(m.objs), 1)
	assert.Int(*n, 2)
}

func TestFreeAll(t *testing.T) {
	assert := test.Assert{TB: t}
	m, _ := newThings()
	for _, id := range []string{"a", "b", "c"} {
		_, err := m.AllocObj(ASQ, id)
		assert.Nil(err)
	}
	assert.Int(m.Len(), 3)
	m.FreeAll()
	assert.Int(m.Len(), 0)
	_, found := m.GetObj("b")
	assert.False(found)
}

func TestAllocTyped(t *testing.T) {
	assert := test.Assert{TB: t}
	m, _ := newThings()
	_, err := m.AllocACQ("ACQ")
	assert.Error(err, ErrKindMismatch)
}

func TestPool(t *testing.T) {
	assert := test.Assert{TB: t}
	var p pool
	assert.Int(int(p.getIndex(0)), 0)
	assert.True(p.putIndex(3))
	assert.False(p.putIndex(3))
	assert.True(p.putIndex(5))
	assert.Int(int(p.getIndex(7)), 5)
	assert.Int(int(p.getIndex(7)), 3)
	assert.Int(int(p.getIndex(7)), 7)
	// 3 is in use again
	assert.True(p.putIndex(3))
	p.reset()
	assert.Int(int(p.getIndex(1)), 1)
}

func TestKindString(t *testing.T) {
	assert := test.Assert{TB: t}
	assert.Equal(ASQ.String(), "ASQ")
	assert.Equal(Kind(9).String(), "kind 9")
}
