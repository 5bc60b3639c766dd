// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is the NVM-Express conformance checker.
package main

import (
	"fmt"
	"os"

	"github.com/platinasystems/nvmecheck"
	"github.com/platinasystems/nvmecheck/cmd"
	"github.com/platinasystems/nvmecheck/cmd/catalog"
	"github.com/platinasystems/nvmecheck/cmd/ctrlr"
	"github.com/platinasystems/nvmecheck/cmd/pciregs"
	"github.com/platinasystems/nvmecheck/cmd/queues"
	"github.com/platinasystems/nvmecheck/recovered"
)

func Goes() *nvmecheck.Goes {
	return &nvmecheck.Goes{
		NAME: "nvmecheck",
		ByName: map[string]cmd.Cmd{
			"catalog": catalog.Command{},
			"ctrlr":   ctrlr.Command{},
			"pciregs": pciregs.Command{},
			"queues":  queues.Command{},
		},
	}
}

func main() {
	if err := recovered.New(Goes()).Main(os.Args[1:]...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
