// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package rsrc manages queue objects shared by the tests of a group. An
// object lives until its last holder releases it or the group frees all.
package rsrc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/platinasystems/log"
	"github.com/platinasystems/nvmecheck/nvme"
)

type Kind int

const (
	ACQ Kind = iota + 1
	ASQ
	IOCQ
	IOSQ
)

var kindNames = [...]string{
	ACQ:  "ACQ",
	ASQ:  "ASQ",
	IOCQ: "IOCQ",
	IOSQ: "IOSQ",
}

func (k Kind) String() string {
	if k <= 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind %d", int(k))
	}
	return kindNames[k]
}

var (
	ErrKindMismatch = errors.New("object kind mismatch")
	ErrUnknownID    = errors.New("unknown lifetime ID")
)

// Factory builds a new object of the given kind.
type Factory func(kind Kind) (interface{}, error)

type obj struct {
	kind Kind
	id   string
	refs int
	v    interface{}
}

type Mngr struct {
	mu      sync.Mutex
	pool    pool
	objs    []obj
	byID    map[string]uint
	factory Factory
}

func New(f Factory) *Mngr {
	return &Mngr{
		byID:    make(map[string]uint),
		factory: f,
	}
}

// AllocObj returns the object with lifetime ID id, creating it on first
// use. Each call takes a reference.
func (m *Mngr) AllocObj(kind Kind, id string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, found := m.byID[id]; found {
		o := &m.objs[i]
		if o.kind != kind {
			return nil, fmt.Errorf("%s: %v is a %v: %w",
				id, kind, o.kind, ErrKindMismatch)
		}
		o.refs++
		return o.v, nil
	}
	v, err := m.factory(kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", id, kind, err)
	}
	i := m.pool.getIndex(uint(len(m.objs)))
	o := obj{kind: kind, id: id, refs: 1, v: v}
	if i == uint(len(m.objs)) {
		m.objs = append(m.objs, o)
	} else {
		m.objs[i] = o
	}
	m.byID[id] = i
	log.Print("debug", "allocated ", kind, " ", id)
	return v, nil
}

func (m *Mngr) GetObj(id string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, found := m.byID[id]
	if !found {
		return nil, false
	}
	return m.objs[i].v, true
}

// Release drops a reference; the object is freed with the last one.
func (m *Mngr) Release(id string) (freed bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, found := m.byID[id]
	if !found {
		return false, fmt.Errorf("%s: %w", id, ErrUnknownID)
	}
	o := &m.objs[i]
	if o.refs--; o.refs > 0 {
		return false, nil
	}
	log.Print("debug", "freed ", o.kind, " ", id)
	*o = obj{}
	delete(m.byID, id)
	m.pool.putIndex(i)
	return true, nil
}

// FreeAll drops every object regardless of references.
func (m *Mngr) FreeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objs = m.objs[:0]
	m.byID = make(map[string]uint)
	m.pool.reset()
}

func (m *Mngr) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

func (m *Mngr) AllocACQ(id string) (nvme.CQ, error) {
	v, err := m.AllocObj(ACQ, id)
	if err != nil {
		return nil, err
	}
	cq, ok := v.(nvme.CQ)
	if !ok {
		return nil, fmt.Errorf("%s: %T: %w", id, v, ErrKindMismatch)
	}
	return cq, nil
}

func (m *Mngr) AllocASQ(id string) (nvme.SQ, error) {
	v, err := m.AllocObj(ASQ, id)
	if err != nil {
		return nil, err
	}
	sq, ok := v.(nvme.SQ)
	if !ok {
		return nil, fmt.Errorf("%s: %T: %w", id, v, ErrKindMismatch)
	}
	return sq, nil
}
