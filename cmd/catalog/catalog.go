// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/platinasystems/nvmecheck/cmd"
	"github.com/platinasystems/nvmecheck/lang"
	"github.com/platinasystems/nvmecheck/pci"
)

type Command struct{}

func (Command) String() string { return "catalog" }

func (Command) Usage() string { return "catalog [NAME]..." }

// Kind keeps this maintainer's listing out of apropos.
func (Command) Kind() cmd.Kind { return cmd.Hidden }

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "list the checked PCI registers",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	List the location, width, read-only mask, default and vendor
	specific mask of each named register, or of every register that
	pciregs checks.`,
	}
}

func (Command) Main(args ...string) error {
	return list(os.Stdout, args...)
}

func list(w io.Writer, names ...string) error {
	regs := pci.Regs[:]
	if len(names) > 0 {
		byName := make(map[string]*pci.Reg, len(regs))
		for i := range regs {
			byName[regs[i].Name] = &regs[i]
		}
		regs = make([]pci.Reg, 0, len(names))
		for _, name := range names {
			r, found := byName[name]
			if !found {
				return fmt.Errorf("%s: not found", name)
			}
			regs = append(regs, *r)
		}
	}
	fmt.Fprintf(w, "%-8s %-16s %s %-18s %-18s %s\n", "NAME", "LOCATION",
		"W", "RO", "DEFAULT", "VENDOR")
	for i := range regs {
		r := &regs[i]
		n := int(2 * r.Size)
		fmt.Fprintf(w, "%-8s %-16s %d 0x%-16s 0x%-16s 0x%s\n", r.Name,
			r.Location(), r.Size,
			fmt.Sprintf("%0*x", n, r.ROMask),
			fmt.Sprintf("%0*x", n, r.Default),
			fmt.Sprintf("%0*x", n, r.VendorMask))
	}
	return nil
}
