//go:build windows

package winproc

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"github.com/nullstride/memscan/pkg/scanerr"
)

// Mapping is a raw view into a file mapping. It knows nothing about
// reference counting or lifetimes; pkg/store builds that discipline on
// top of this primitive.
type Mapping struct {
	mapHandle  syscall.Handle
	viewHandle uintptr
	data       []byte
}

// Bytes returns the mapped byte slice.
func (m *Mapping) Bytes() []byte { return m.data }

// MmapSink maps [offset, offset+size) of f into memory for reading and
// writing, per the mmap_sink collaborator in §6.
func MmapSink(f *os.File, offset, size int64) (*Mapping, error) {
	if size <= 0 {
		return nil, fmt.Errorf("winproc: %w: invalid mapping size %d", scanerr.ErrMappingFailed, size)
	}

	total := offset + size
	hi := uint32(uint64(total) >> 32)
	lo := uint32(uint64(total) & 0xffffffff)

	mapHandle, err := syscall.CreateFileMapping(
		syscall.Handle(f.Fd()),
		nil,
		syscall.PAGE_READWRITE,
		hi,
		lo,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("winproc: %w: CreateFileMapping: %v", scanerr.ErrMappingFailed, err)
	}

	offHi := uint32(uint64(offset) >> 32)
	offLo := uint32(uint64(offset) & 0xffffffff)

	addr, err := syscall.MapViewOfFile(mapHandle, syscall.FILE_MAP_WRITE, offHi, offLo, uintptr(size))
	if err != nil {
		_ = syscall.CloseHandle(mapHandle)
		return nil, fmt.Errorf("winproc: %w: MapViewOfFile: %v", scanerr.ErrMappingFailed, err)
	}

	return &Mapping{
		mapHandle:  mapHandle,
		viewHandle: addr,
		data:       unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size)),
	}, nil
}

// Unmap releases a mapping obtained from MmapSink.
func Unmap(m *Mapping) error {
	if m == nil {
		return nil
	}
	var firstErr error
	if m.viewHandle != 0 {
		if err := syscall.UnmapViewOfFile(m.viewHandle); err != nil {
			firstErr = err
		}
		m.viewHandle = 0
	}
	if m.mapHandle != 0 {
		if err := syscall.CloseHandle(m.mapHandle); err != nil && firstErr == nil {
			firstErr = err
		}
		m.mapHandle = 0
	}
	m.data = nil
	if firstErr != nil {
		return fmt.Errorf("winproc: unmap: %w", firstErr)
	}
	return nil
}

// ExtendFile sets f's size to newLength, a page-aligned truncate-grow per
// §6. It does not compare against the current size: a smaller newLength
// shrinks the file. The store only calls it with a larger length.
func ExtendFile(f *os.File, newLength int64) error {
	if err := f.Truncate(newLength); err != nil {
		return fmt.Errorf("winproc: %w: extend to %d: %v", scanerr.ErrStoreUnavailable, newLength, err)
	}
	return nil
}

// CeilToPage rounds n up to the next multiple of the page quantum.
func CeilToPage(n int64) int64 {
	p := PageSize()
	return ((n + p - 1) / p) * p
}
