package store

import (
	"sync/atomic"

	"github.com/nullstride/memscan/pkg/winproc"
)

// Mapping is a scoped, reference-counted view over a byte range of the
// backing file (component B). Multiple mappings over the same or
// overlapping ranges may coexist; a mapping is unmapped only once its
// reference count drops to zero — i.e. once every scan result pointing
// into it, plus the store's own "current mapping" slot, has released it.
//
// This is the Go rendering of original_source/dumpable/dumpable.hpp's
// active_map, whose C++ move-only RAII discipline we approximate with an
// atomic refcount instead (Go has no non-copyable types).
type Mapping struct {
	raw  *winproc.Mapping
	refs atomic.Int32
}

func newMapping(raw *winproc.Mapping) *Mapping {
	m := &Mapping{raw: raw}
	m.refs.Store(1) // the store's "current mapping" slot holds the first reference
	return m
}

// Bytes returns the mapped byte slice. Valid for as long as the caller
// holds a reference (via Acquire/Release).
func (m *Mapping) Bytes() []byte {
	return m.raw.Bytes()
}

// Acquire adds a reference, keeping the mapping alive until a matching
// Release. Safe to call concurrently.
func (m *Mapping) Acquire() {
	m.refs.Add(1)
}

// Release drops a reference. When the count reaches zero the underlying
// OS mapping is unmapped immediately.
func (m *Mapping) Release() error {
	if m.refs.Add(-1) == 0 {
		return winproc.Unmap(m.raw)
	}
	return nil
}

