// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package model

import (
	"fmt"

	"github.com/platinasystems/nvmecheck/rsrc"
)

// Factory builds admin queues bound to this device for rsrc.New.
func (d *Device) Factory(kind rsrc.Kind) (interface{}, error) {
	switch kind {
	case rsrc.ACQ:
		return d.NewACQ(), nil
	case rsrc.ASQ:
		return d.NewASQ(), nil
	}
	return nil, fmt.Errorf("%v: not simulated", kind)
}
