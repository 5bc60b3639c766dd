// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package nvme

import (
	"encoding/hex"
	"fmt"
	"os"
	"unsafe"
)

// MemBuffer is a host data buffer with a guaranteed start alignment.
type MemBuffer struct {
	raw   []byte
	buf   []byte
	align uint
}

func isPow2(x uint) bool { return x != 0 && x&(x-1) == 0 }

// InitAlignment allocates size bytes starting on an align boundary. When
// initMem is set the buffer is filled with initVal.
func (m *MemBuffer) InitAlignment(size, align uint, initMem bool, initVal byte) error {
	if size == 0 {
		return fmt.Errorf("membuf: zero size")
	}
	if !isPow2(align) || align < uint(unsafe.Sizeof(uint64(0))) {
		return fmt.Errorf("membuf: alignment %d not a power of 2 >= 8", align)
	}
	m.raw = make([]byte, size+align)
	a := uintptr(unsafe.Pointer(&m.raw[0]))
	o := (uintptr(align) - a%uintptr(align)) % uintptr(align)
	m.buf = m.raw[o : o+uintptr(size)]
	m.align = align
	if initMem {
		for i := range m.buf {
			m.buf[i] = initVal
		}
	}
	return nil
}

func (m *MemBuffer) Bytes() []byte { return m.buf }
func (m *MemBuffer) Size() uint    { return uint(len(m.buf)) }
func (m *MemBuffer) Align() uint   { return m.align }

func (m *MemBuffer) Addr() uintptr {
	if len(m.buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&m.buf[0]))
}

func (m *MemBuffer) Dump(path, desc string) error {
	s := fmt.Sprintf("%s\nsize %d, align %d\n%s", desc, len(m.buf), m.align,
		hex.Dump(m.buf))
	return os.WriteFile(path, []byte(s), 0644)
}
