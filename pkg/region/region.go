// Package region implements the memory region (component D) and the
// region enumerator (component E).
package region

import (
	"encoding/binary"
	"log"

	"github.com/nullstride/memscan/pkg/store"
	"github.com/nullstride/memscan/pkg/winproc"
)

// Region is one committed virtual-address range in the target process,
// with a cached snapshot of its bytes stored in the snapshot store.
// Grounded on original_source/scanner/memory_region.hpp/.cpp.
type Region struct {
	base      uintptr
	size      uintptr
	protect   uint32
	state     uint32
	kind      uint32
	process   winproc.Handle
	snapStore *store.Store

	snapshot store.SnapshotSpan
	reserved bool // read_memory has allocated its span
}

// New constructs a region over one descriptor produced by the
// enumerator. It does not read memory yet — that happens in ReadMemory,
// called at most once per region.
func New(snapStore *store.Store, process winproc.Handle, desc winproc.RegionDescriptor) *Region {
	return &Region{
		base:      desc.Base,
		size:      desc.Size,
		protect:   desc.Protect,
		state:     desc.State,
		kind:      desc.Type,
		process:   process,
		snapStore: snapStore,
	}
}

// Base returns the region's base address in the target process.
func (r *Region) Base() uintptr { return r.base }

// Size returns the region's size in bytes.
func (r *Region) Size() uintptr { return r.size }

// HasProtection reports whether any bit of mask is set in the region's
// protection flags.
func (r *Region) HasProtection(mask uint32) bool {
	return r.protect&mask != 0
}

// IsCommitted reports whether the region's state is MEM_COMMIT.
func (r *Region) IsCommitted() bool {
	return r.state == winproc.StateCommit
}

// IsMemMapped reports whether the region's type is MEM_MAPPED (as opposed
// to private or image-backed).
func (r *Region) IsMemMapped() bool {
	return r.kind == winproc.TypeMapped
}

// ReadMemory reads the region's bytes from the target process into a
// freshly allocated snapshot span on first call. Subsequent calls
// re-read into the same span without re-allocating, per §4.D. It returns
// false if the OS read failed; the span remains allocated (zeroed on the
// very first failure) and the region is unusable by the scan engine.
func (r *Region) ReadMemory() bool {
	if !r.reserved {
		span, err := r.snapStore.AllocateZero(int64(r.size))
		if err != nil {
			log.Printf("region: failed to allocate snapshot span for region at %#x (%d bytes): %v", r.base, r.size, err)
			return false
		}
		r.snapshot = span
		r.reserved = true
	}

	if err := winproc.ReadProcessMemory(r.process, r.base, r.snapshot.Bytes()); err != nil {
		log.Printf("region: ReadProcessMemory failed for region at %#x (%d bytes): %v", r.base, r.size, err)
		return false
	}
	return true
}

// RawBytes returns the region's cached snapshot bytes. Nil until
// ReadMemory has allocated the snapshot span on its first call; after a
// failed OS read the span is still allocated and its bytes stay zeroed.
func (r *Region) RawBytes() []byte {
	if !r.reserved {
		return nil
	}
	return r.snapshot.Bytes()
}

// ElementCount returns the number of elemSize-byte elements that fit in
// the region's snapshot (size truncated to a multiple of elemSize).
func (r *Region) ElementCount(elemSize int) int {
	raw := r.RawBytes()
	if elemSize <= 0 {
		return 0
	}
	return len(raw) / elemSize
}

// ElementAt reads the elemSize bytes at element index i, zero-extended
// into a uint64, matching the original's memcpy-into-a-zeroed-register
// semantics.
func (r *Region) ElementAt(i, elemSize int) uint64 {
	return r.ElementAtByteOffset(i*elemSize, elemSize)
}

// ElementAtByteOffset reads elemSize bytes starting at byte offset off
// into the region's snapshot, zero-extended into a uint64. Unlike
// ElementAt, off need not be a multiple of elemSize — next-scan's
// overlap sweep walks raw byte offsets computed from absolute addresses
// that are not necessarily element-aligned relative to either region's
// own base, exactly as the original indexes old_bytes.data()+p_off+i.
func (r *Region) ElementAtByteOffset(off, elemSize int) uint64 {
	raw := r.RawBytes()
	var buf [8]byte
	copy(buf[:elemSize], raw[off:off+elemSize])
	return binary.LittleEndian.Uint64(buf[:])
}
