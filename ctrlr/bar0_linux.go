// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ctrlr

import (
	"fmt"
	"os"
	"sync/atomic"
	"syscall"
	"unsafe"

	"github.com/platinasystems/nvmecheck/pci"
)

// Bar0 is the controller register file mapped from sysfs resource0.
type Bar0 struct {
	Addr pci.BusAddress
	mem  []byte
}

func MapBar0(a pci.BusAddress) (*Bar0, error) {
	f, err := os.OpenFile(a.SysfsPath("resource0"), os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	mem, err := syscall.Mmap(int(f.Fd()), 0, int(fi.Size()),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %v resource0: %s", a, err)
	}
	return &Bar0{Addr: a, mem: mem}, nil
}

func (b *Bar0) Close() error {
	if b.mem == nil {
		return nil
	}
	err := syscall.Munmap(b.mem)
	b.mem = nil
	if err != nil {
		return fmt.Errorf("munmap %v resource0: %s", b.Addr, err)
	}
	return nil
}

func (b *Bar0) reg(offset uint) (*uint32, error) {
	if offset&3 != 0 || offset+4 > uint(len(b.mem)) {
		return nil, fmt.Errorf("%v: BAR0 offset 0x%x out of range",
			b.Addr, offset)
	}
	return (*uint32)(unsafe.Pointer(&b.mem[offset])), nil
}

func (b *Bar0) Read32(offset uint) (uint32, error) {
	p, err := b.reg(offset)
	if err != nil {
		return 0, err
	}
	return atomic.LoadUint32(p), nil
}

func (b *Bar0) Write32(offset uint, v uint32) error {
	p, err := b.reg(offset)
	if err != nil {
		return err
	}
	atomic.StoreUint32(p, v)
	return nil
}

// 64-bit registers are accessed as low then high dword.
func (b *Bar0) Read64(offset uint) (uint64, error) {
	lo, err := b.Read32(offset)
	if err != nil {
		return 0, err
	}
	hi, err := b.Read32(offset + 4)
	if err != nil {
		return 0, err
	}
	return uint64(lo) | uint64(hi)<<32, nil
}

func (b *Bar0) Write64(offset uint, v uint64) error {
	if err := b.Write32(offset, uint32(v)); err != nil {
		return err
	}
	return b.Write32(offset+4, uint32(v>>32))
}
