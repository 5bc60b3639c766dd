// Copyright © 2015-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package recovered returns the panics of commands and conformance tests as
// formatted errors.
package recovered

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

type Recovered struct{ V }

type V interface {
	Main(...string) error
	String() string
}

func New(v V) Recovered { return Recovered{v} }

// Main ignores io.EOF, the normal end of an interactive command.
func (recovered Recovered) Main(args ...string) (err error) {
	defer func() {
		err = catch(recovered.V.String(), recover(), err)
	}()
	if err = recovered.V.Main(args...); err == io.EOF {
		err = nil
	}
	return
}

// Call runs f, returning its error or panic prefaced by name.
func Call(name string, f func() error) (err error) {
	defer func() {
		err = catch(name, recover(), err)
	}()
	return f()
}

func catch(name string, r interface{}, err error) error {
	switch t := r.(type) {
	case nil:
	case runtime.Error:
		err = errors.New(trace(t))
	case error:
		err = t
	case string:
		err = errors.New(t)
	default:
		err = fmt.Errorf("%v", t)
	}
	if err == nil {
		return nil
	}
	preface := name + ": "
	if !strings.HasPrefix(err.Error(), preface) {
		err = fmt.Errorf("%s%w", preface, err)
	}
	return err
}

// trace formats the runtime error with the stack above the panic.
func trace(t runtime.Error) string {
	buf := new(bytes.Buffer)
	pc := make([]uintptr, 64)
	n := runtime.Callers(1, pc)
	fmt.Fprint(buf, t)
	start := 0
	for i := start; i < n; i++ {
		f := runtime.FuncForPC(pc[i])
		if f.Name() == "runtime.gopanic" ||
			strings.HasSuffix(f.Name(), "runtime.sigpanic") {
			start = i + 1
			break
		}
	}
	for i := start; i < n; i++ {
		f := runtime.FuncForPC(pc[i])
		if f == nil {
			continue
		}
		file, line := f.FileLine(pc[i])
		if i := strings.LastIndex(file, "src/"); i > 0 {
			file = file[i+len("src/"):]
		}
		fmt.Fprint(buf, "\n    ", filepath.Base(f.Name()), "()",
			"\n        ", file, ":", line)
	}
	return buf.String()
}
