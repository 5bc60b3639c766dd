// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pci

import (
	"fmt"
	"io"
)

type ReadWriterAt interface {
	io.ReaderAt
	io.WriterAt
}

// Space reads and writes catalog registers of one function's configuration
// space. Capability offsets are resolved once, when the space is opened.
type Space struct {
	rw      ReadWriterAt
	caps    map[Capability]uint
	extCaps map[ExtCapability]uint
}

func NewSpace(rw ReadWriterAt) (*Space, error) {
	b := make([]byte, ExtConfigSize)
	n, err := rw.ReadAt(b, 0)
	if n < ConfigHeaderSize {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("config header: %w", err)
	}
	s := &Space{
		rw:      rw,
		caps:    make(map[Capability]uint),
		extCaps: make(map[ExtCapability]uint),
	}
	b = b[:n]
	foreachCap(b, func(c Capability, o uint) {
		if _, found := s.caps[c]; !found {
			s.caps[c] = o
		}
	})
	foreachExtCap(b, func(c ExtCapability, o uint) {
		if _, found := s.extCaps[c]; !found {
			s.extCaps[c] = o
		}
	})
	return s, nil
}

// A malformed list could loop; no function has more than this many.
const maxCaps = (ExtConfigSize - ConfigHeaderSize) / 4

func foreachCap(b []byte, f func(c Capability, offset uint)) {
	l := uint(len(b))
	o := uint(b[capPointerOffset]) &^ 3
	for i := 0; i < maxCaps && o >= ConfigHeaderSize && o+1 < l; i++ {
		f(Capability(b[o]), o)
		o = uint(b[o+1]) &^ 3
	}
}

func foreachExtCap(b []byte, f func(c ExtCapability, offset uint)) {
	l := uint(len(b))
	o := uint(ConfigSize)
	for i := 0; i < maxCaps && o >= ConfigSize && o+3 < l; i++ {
		h := uint32(b[o]) | uint32(b[o+1])<<8 | uint32(b[o+2])<<16 |
			uint32(b[o+3])<<24
		if h == 0 || h == 0xffffffff {
			break
		}
		f(ExtCapability(h&0xffff), o)
		o = uint(h>>20) &^ 3
	}
}

func (s *Space) HasCap(c Capability) bool {
	_, found := s.caps[c]
	return found
}

func (s *Space) HasExtCap(c ExtCapability) bool {
	_, found := s.extCaps[c]
	return found
}

// Offset returns the absolute config space offset of the given register.
func (s *Space) Offset(spc Spc) (uint, error) {
	r := spc.Reg()
	if r == nil {
		return 0, fmt.Errorf("%v: unknown register", spc)
	}
	switch {
	case r.Cap != 0:
		base, found := s.caps[r.Cap]
		if !found {
			return 0, fmt.Errorf("%s: %v %w", r.Name, r.Cap,
				ErrCapNotFound)
		}
		return base + r.Offset, nil
	case r.ExtCap != 0:
		base, found := s.extCaps[r.ExtCap]
		if !found {
			return 0, fmt.Errorf("%s: %v %w", r.Name, r.ExtCap,
				ErrCapNotFound)
		}
		return base + r.Offset, nil
	}
	return r.Offset, nil
}

func (s *Space) Read(spc Spc) (v uint64, err error) {
	r := spc.Reg()
	o, err := s.Offset(spc)
	if err != nil {
		return
	}
	if r.Size == 0 || r.Size > 8 {
		return 0, fmt.Errorf("%s: %w %d", r.Name, ErrBadWidth, r.Size)
	}
	var b [8]byte
	if _, err = s.rw.ReadAt(b[:r.Size], int64(o)); err != nil {
		return 0, fmt.Errorf("%s: read: %w", r.Name, err)
	}
	for i := uint(0); i < r.Size; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return
}

func (s *Space) Write(spc Spc, v uint64) error {
	r := spc.Reg()
	o, err := s.Offset(spc)
	if err != nil {
		return err
	}
	if r.Size == 0 || r.Size > 8 {
		return fmt.Errorf("%s: %w %d", r.Name, ErrBadWidth, r.Size)
	}
	var b [8]byte
	for i := uint(0); i < r.Size; i++ {
		b[i] = byte(v >> (8 * i))
	}
	if _, err = s.rw.WriteAt(b[:r.Size], int64(o)); err != nil {
		return fmt.Errorf("%s: write: %w", r.Name, err)
	}
	return nil
}
