// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrUnknownFault = errors.New("unknown fault")

var faultByName = map[string]func(*Faults, int){
	"keep-queues":      func(f *Faults, _ int) { f.KeepQueues = true },
	"fail-enable":      func(f *Faults, _ int) { f.FailEnable = true },
	"never-ready":      func(f *Faults, _ int) { f.NeverReady = true },
	"drop-completions": func(f *Faults, _ int) { f.DropCompletions = true },
	"ready-delay":      func(f *Faults, n int) { f.ReadyDelay = n },
	"sqhd-skew":        func(f *Faults, n int) { f.SQHDSkew = n },
}

// FaultNames lists what ParseFaults accepts.
func FaultNames() []string {
	names := make([]string, 0, len(faultByName))
	for k := range faultByName {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ParseFaults reads a comma or space separated list of NAME or NAME=N,
// e.g. "keep-queues,sqhd-skew=2". N defaults to 1.
func ParseFaults(s string) (f Faults, err error) {
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	}) {
		name, n := field, 1
		if eq := strings.Index(field, "="); eq > 0 {
			name = field[:eq]
			if n, err = strconv.Atoi(field[eq+1:]); err != nil {
				return f, fmt.Errorf("%s: %w", field, err)
			}
		}
		set, found := faultByName[name]
		if !found {
			return f, fmt.Errorf("%s: %w", name, ErrUnknownFault)
		}
		set(&f, n)
	}
	return
}
