// Copyright © 2015-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package test

import "flag"

var (
	DryRun = flag.Bool("test.dryrun", false,
		"don't run, just print test names")
	KeepGoing = flag.Bool("test.keepgoing", false,
		"run the rest of a suite after a failure")
	VV = flag.Bool("test.vv", false, "log device model and checker detail")
)
