// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pci

// Linux PCI code

import (
	"fmt"
	"os"
	"path/filepath"
)

var SysBusPciPath = "/sys/bus/pci/devices"

func (a BusAddress) SysfsPath(format string, args ...interface{}) string {
	return filepath.Join(SysBusPciPath, a.String(),
		fmt.Sprintf(format, args...))
}

// Device is an open sysfs config space. Without CAP_SYS_ADMIN the kernel
// only exposes the first 64 bytes, so capability registers will be missing.
type Device struct {
	Addr BusAddress
	*Space
	f *os.File
}

func OpenDevice(a BusAddress) (*Device, error) {
	f, err := os.OpenFile(a.SysfsPath("config"), os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	s, err := NewSpace(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%v: %w", a, err)
	}
	return &Device{Addr: a, Space: s, f: f}, nil
}

func (d *Device) Close() error { return d.f.Close() }

func (d *Device) String() string { return d.Addr.String() }
