// Package store implements the snapshot store: an append-only backing
// file (component A), scoped mapping handles (component B), and the
// façade that coordinates them (component C).
package store

import (
	"fmt"
	"os"
	"sync"

	"github.com/nullstride/memscan/pkg/scanerr"
	"github.com/nullstride/memscan/pkg/winproc"
)

// backingFile is an append-only on-disk byte store, grown in page-aligned
// chunks. Grounded on original_source/dumpable/src/dumpable.cpp's m_file.
type backingFile struct {
	mu sync.Mutex

	path   string
	file   *os.File
	length int64 // current logical length, always a multiple of PageSize
	offset int64 // current write offset, always <= length
	valid  bool

	current   *Mapping // the mapping covering the tail of the file
	mapOffset int64    // write offset within current, relative to its base
}

// newBackingFile creates an empty backing file at path, replacing any
// pre-existing file there.
func newBackingFile(path string) (*backingFile, error) {
	_ = os.Remove(path)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("store: %w: create %s: %v", scanerr.ErrStoreUnavailable, path, err)
	}

	return &backingFile{
		path:  path,
		file:  f,
		valid: true,
	}, nil
}

// write copies n bytes from src into the file (or zero-fills when src is
// nil), growing and remapping first if the write would run past the
// current length. It returns the mapping holding the written bytes and
// the byte offset within that mapping where the write begins.
//
// Serialized by mu: concurrent writers observe a consistent offset.
func (bf *backingFile) write(src []byte, n int64) (*Mapping, int64, error) {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	if !bf.valid {
		return nil, 0, scanerr.ErrStoreUnavailable
	}

	if bf.offset+n > bf.length {
		if err := bf.growLocked(n); err != nil {
			bf.valid = false
			return nil, 0, err
		}
	}

	dstOffset := bf.mapOffset
	dst := bf.current.Bytes()[dstOffset : dstOffset+n]
	if src != nil {
		copy(dst, src)
	} else {
		for i := range dst {
			dst[i] = 0
		}
	}

	bf.mapOffset += n
	bf.offset += n

	return bf.current, dstOffset, nil
}

// growLocked extends the file to ceil_to_page(2*(length+n)) and maps the
// fresh tail [offset, length). Prior mappings are left alone — their
// holders keep using them. Caller must hold mu.
func (bf *backingFile) growLocked(n int64) error {
	newLength := winproc.CeilToPage(2 * (bf.length + n))

	if err := winproc.ExtendFile(bf.file, newLength); err != nil {
		return fmt.Errorf("store: %w: %v", scanerr.ErrStoreUnavailable, err)
	}
	bf.length = newLength

	raw, err := winproc.MmapSink(bf.file, bf.offset, bf.length-bf.offset)
	if err != nil {
		return fmt.Errorf("store: %w: %v", scanerr.ErrStoreUnavailable, err)
	}

	// The old current mapping is not invalidated — existing holders (scan
	// results, the store's live-mapping bookkeeping) keep their own
	// references. Only the "current mapping slot" ownership moves to the
	// new mapping.
	if bf.current != nil {
		_ = bf.current.Release()
	}

	bf.current = newMapping(raw)
	bf.mapOffset = 0
	return nil
}

// closeAndDelete closes the backing file's handle and removes the file
// from disk; it unmaps nothing itself. It does not force-release mappings
// still held by callers; those remain valid until released, per the
// mapping-longevity invariant.
func (bf *backingFile) closeAndDelete() error {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	bf.valid = false
	err := bf.file.Close()
	_ = os.Remove(bf.path)
	return err
}

// lengthBytes returns the current file length.
func (bf *backingFile) lengthBytes() int64 {
	bf.mu.Lock()
	defer bf.mu.Unlock()
	return bf.length
}
