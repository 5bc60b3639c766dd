// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package pciregs checks that the read-only bits of every cataloged PCI
// header and capability register report their mandated defaults, before
// and after the host tries to write them.
package pciregs

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/platinasystems/log"
	"github.com/platinasystems/nvmecheck/grp"
	"github.com/platinasystems/nvmecheck/pci"
)

const GrpName = "pciregs"

// ReportOffendingBitPos returns this when the values are equal.
const NoOffendingBit = math.MaxInt32

var (
	ErrRegisterMismatch = errors.New("register mismatch")
	ErrNotHdr           = errors.New("not a PCI header register")
	ErrNotCap           = errors.New("not a PCI capability register")
)

// Accessor reads and writes catalog registers; *pci.Space is one.
type Accessor interface {
	Read(spc pci.Spc) (uint64, error)
	Write(spc pci.Spc, v uint64) error
}

// MismatchError reports one register whose compared bits differ from the
// default. Observed and Expected are masked.
type MismatchError struct {
	Reg      *pci.Reg
	Raw      uint64
	Observed uint64
	Expected uint64
	Bit      int

	Written bool
	Wrote   uint64
}

func (e *MismatchError) Error() string {
	w := int(e.Reg.Size * 2)
	s := fmt.Sprintf("%v: 0x%0*x != 0x%0*x (raw 0x%0*x, mask 0x%0*x), bit %d",
		e.Reg, w, e.Observed, w, e.Expected, w, e.Raw,
		w, e.Reg.CompareMask(), e.Bit)
	if e.Written {
		s += fmt.Sprintf(" after writing 0x%0*x", w, e.Wrote)
	}
	return s
}

func (e *MismatchError) Unwrap() error { return ErrRegisterMismatch }

// Mismatches aggregates a sweep.
type Mismatches []*MismatchError

func (m Mismatches) Error() string {
	names := make([]string, len(m))
	for i, e := range m {
		names[i] = e.Reg.Name
	}
	return fmt.Sprintf("%d %v: %s", len(m), ErrRegisterMismatch,
		strings.Join(names, ", "))
}

func (m Mismatches) Is(target error) bool { return target == ErrRegisterMismatch }

// ReportOffendingBitPos scans from the least significant bit for the first
// position where val and expectedVal differ.
func ReportOffendingBitPos(val, expectedVal uint64) int {
	for i := 0; i < 64; i++ {
		if (val>>uint(i))&1 != (expectedVal>>uint(i))&1 {
			return i
		}
	}
	return NoOffendingBit
}

type AllPciRegs struct {
	Grp  string
	Regs Accessor
	// nil selects pci.Regs
	Catalog []pci.Reg
}

func New(grpName string, regs Accessor) *AllPciRegs {
	return &AllPciRegs{Grp: grpName, Regs: regs}
}

func NewGroup(regs Accessor) *grp.Group {
	return &grp.Group{
		Name:  GrpName,
		Desc:  "PCI header and capability registers",
		Tests: []grp.Test{New(GrpName, regs)},
	}
}

func (t *AllPciRegs) String() string { return "allPciRegs" }

func (t *AllPciRegs) Describe() grp.Desc {
	return grp.Desc{
		Compliance: "revision 1.0b, section 2",
		Short:      "Validate all PCI registers syntactically",
		Long: "Validate all PCI header and capability registers report " +
			"their mandated default for read-only bits which are not " +
			"vendor specific, then write every read-only bit and " +
			"validate none of them change.",
	}
}

func (t *AllPciRegs) catalog() []pci.Reg {
	if t.Catalog != nil {
		return t.Catalog
	}
	return pci.Regs[:]
}

func (t *AllPciRegs) RunCoreTest() error {
	if err := t.ValidateDefaultValues(); err != nil {
		return err
	}
	return t.ValidateROBitsAfterWriting()
}

func (t *AllPciRegs) ValidatePciHdrRegisterROAttribute(r *pci.Reg) error {
	if !r.IsHdr() {
		return fmt.Errorf("%v: %w", r, ErrNotHdr)
	}
	return t.validate(r)
}

// ValidatePciCapRegisterROAttribute passes registers of capabilities the
// device doesn't advertise.
func (t *AllPciRegs) ValidatePciCapRegisterROAttribute(r *pci.Reg) error {
	if r.IsHdr() {
		return fmt.Errorf("%v: %w", r, ErrNotCap)
	}
	err := t.validate(r)
	if errors.Is(err, pci.ErrCapNotFound) {
		log.Print("info", "skip ", r.Name, ": ", err)
		return nil
	}
	return err
}

func (t *AllPciRegs) validate(r *pci.Reg) error {
	v, err := t.Regs.Read(r.Spc)
	if err != nil {
		return err
	}
	m := r.CompareMask()
	if v&m == r.Default&m {
		log.Printf("debug", "%s: 0x%x", r.Name, v)
		return nil
	}
	e := &MismatchError{
		Reg:      r,
		Raw:      v,
		Observed: v & m,
		Expected: r.Default & m,
	}
	e.Bit = ReportOffendingBitPos(e.Observed, e.Expected)
	log.Print("err", e)
	return e
}

func (t *AllPciRegs) validateAny(r *pci.Reg) error {
	if r.IsHdr() {
		return t.ValidatePciHdrRegisterROAttribute(r)
	}
	return t.ValidatePciCapRegisterROAttribute(r)
}

// ValidateDefaultValues checks every register, continuing past mismatches
// so that all of them are logged.
func (t *AllPciRegs) ValidateDefaultValues() error {
	var mm Mismatches
	cat := t.catalog()
	for i := range cat {
		err := t.validateAny(&cat[i])
		var e *MismatchError
		switch {
		case err == nil:
		case errors.As(err, &e):
			mm = append(mm, e)
		default:
			return err
		}
	}
	if len(mm) > 0 {
		return mm
	}
	return nil
}

// ValidateROBitsAfterWriting flips every read-only bit of each register,
// keeping its writable bits, then checks the register again. Any register
// that took the write, vendor specific bits included, is restored.
func (t *AllPciRegs) ValidateROBitsAfterWriting() error {
	var mm Mismatches
	cat := t.catalog()
	for i := range cat {
		r := &cat[i]
		v, err := t.Regs.Read(r.Spc)
		if errors.Is(err, pci.ErrCapNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		ro := r.ROMask & r.WidthMask()
		w := v&^ro | ^v&ro
		if err = t.Regs.Write(r.Spc, w); err != nil {
			return err
		}
		err = t.validateAny(r)
		var e *MismatchError
		switch {
		case err == nil:
		case errors.As(err, &e):
			e.Written, e.Wrote = true, w
			mm = append(mm, e)
		default:
			return err
		}
		if err = t.restore(r, v); err != nil {
			return err
		}
	}
	if len(mm) > 0 {
		return mm
	}
	return nil
}

// restore writes v back to a register that no longer reads v.
func (t *AllPciRegs) restore(r *pci.Reg, v uint64) error {
	now, err := t.Regs.Read(r.Spc)
	if err != nil {
		return err
	}
	if now == v {
		return nil
	}
	log.Printf("debug", "%s: restore 0x%x from 0x%x", r.Name, v, now)
	return t.Regs.Write(r.Spc, v)
}
