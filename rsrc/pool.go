// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package rsrc

// pool recycles object slot indices.
type pool struct {
	// Stack of free indices
	freeIndices []uint32
	// Set of free indices
	free map[uint]struct{}
}

// getIndex returns the last freed index or, if none, max.
func (p *pool) getIndex(max uint) uint {
	l := uint(len(p.freeIndices))
	if l == 0 {
		return max
	}
	i := uint(p.freeIndices[l-1])
	p.freeIndices = p.freeIndices[:l-1]
	delete(p.free, i)
	return i
}

// putIndex returns false if i was already free.
func (p *pool) putIndex(i uint) bool {
	if p.free == nil {
		p.free = make(map[uint]struct{})
	}
	if _, found := p.free[i]; found {
		return false
	}
	p.freeIndices = append(p.freeIndices, uint32(i))
	p.free[i] = struct{}{}
	return true
}

func (p *pool) reset() {
	if p.freeIndices != nil {
		p.freeIndices = p.freeIndices[:0]
	}
	p.free = nil
}
