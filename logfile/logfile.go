// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package logfile names the diagnostic artifacts of one run. Every run
// gets its own directory so dumps from earlier runs are never overwritten.
package logfile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/platinasystems/log"
	"github.com/satori/go.uuid"
)

type Sink struct {
	Dir string
	Run uuid.UUID
}

func New(root string) (*Sink, error) {
	run := uuid.NewV4()
	dir := filepath.Join(root, run.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	log.Print("info", "dumps in ", dir)
	return &Sink{Dir: dir, Run: run}, nil
}

var unsafeChars = strings.NewReplacer("/", "_", " ", "_", "\t", "_")

// PrepLogFile returns the artifact path GRP.TEST.OBJ.TAG and removes any
// stale file of that name.
func (s *Sink) PrepLogFile(grp, test, obj, tag string) string {
	name := unsafeChars.Replace(strings.Join([]string{grp, test, obj, tag},
		"."))
	fn := filepath.Join(s.Dir, name)
	if err := os.Remove(fn); err != nil && !os.IsNotExist(err) {
		log.Print("warning", fn, ": ", err)
	}
	return fn
}

// Files lists the artifacts written so far.
func (s *Sink) Files() ([]string, error) {
	return filepath.Glob(filepath.Join(s.Dir, "*"))
}
