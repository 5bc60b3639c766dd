// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package logfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/platinasystems/nvmecheck/internal/test"
)

func TestPrepLogFile(t *testing.T) {
	assert := test.Assert{TB: t}
	root := t.TempDir()
	s, err := New(root)
	assert.Nil(err)
	assert.Equal(filepath.Dir(s.Dir), root)
	assert.Equal(filepath.Base(s.Dir), s.Run.String())

	fn := s.PrepLogFile("queues", "initial state admin", "ASQ", "tail_ptr")
	assert.Equal(filepath.Base(fn), "queues.initial_state_admin.ASQ.tail_ptr")

	assert.Nil(os.WriteFile(fn, []byte("stale"), 0644))
	assert.Equal(s.PrepLogFile("queues", "initial state admin", "ASQ",
		"tail_ptr"), fn)
	_, err = os.Stat(fn)
	assert.True(os.IsNotExist(err))
}

func TestRunsDoNotCollide(t *testing.T) {
	assert := test.Assert{TB: t}
	root := t.TempDir()
	a, err := New(root)
	assert.Nil(err)
	b, err := New(root)
	assert.Nil(err)
	assert.True(a.Dir != b.Dir)

	assert.Nil(os.WriteFile(a.PrepLogFile("g", "t", "o", "x"), nil, 0644))
	files, err := a.Files()
	assert.Nil(err)
	assert.Int(len(files), 1)
	files, err = b.Files()
	assert.Nil(err)
	assert.Int(len(files), 0)
}
