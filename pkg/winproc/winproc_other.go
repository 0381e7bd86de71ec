//go:build !windows

package winproc

import (
	"os"

	"github.com/nullstride/memscan/pkg/scanerr"
)

// Protection/state/type bits are still defined on non-Windows builds so
// that callers (pkg/region, pkg/config) can reference them without a
// build-tag split of their own; only the syscalls themselves are
// unsupported here.
const (
	ProtectNoAccess         = 0x01
	ProtectReadOnly         = 0x02
	ProtectReadWrite        = 0x04
	ProtectWriteCopy        = 0x08
	ProtectExecute          = 0x10
	ProtectExecuteRead      = 0x20
	ProtectExecuteReadWrite = 0x40
	ProtectExecuteWriteCopy = 0x80
	ProtectGuard            = 0x100

	StateCommit  = 0x1000
	StateReserve = 0x2000
	StateFree    = 0x10000

	TypeImage   = 0x1000000
	TypeMapped  = 0x40000
	TypePrivate = 0x20000

	AccessVMRead           = 0x0010
	AccessQueryInformation = 0x0400
)

// Handle is a platform-neutral stand-in for windows.Handle so non-Windows
// builds can still type-check callers; it carries no usable value here.
type Handle uintptr

type RegionDescriptor struct {
	Base    uintptr
	Size    uintptr
	Protect uint32
	State   uint32
	Type    uint32
}

func OpenProcess(pid uint32) (Handle, error) {
	return 0, scanerr.ErrUnsupportedPlatform
}

func CloseProcess(h Handle) error {
	return scanerr.ErrUnsupportedPlatform
}

func EnumerateRegion(h Handle, addr uintptr) (RegionDescriptor, error) {
	return RegionDescriptor{}, scanerr.ErrUnsupportedPlatform
}

func ReadProcessMemory(h Handle, addr uintptr, dst []byte) error {
	return scanerr.ErrUnsupportedPlatform
}

func PageSize() int64 { return 0x1000 }

type Mapping struct{}

func (m *Mapping) Bytes() []byte { return nil }

func MmapSink(f *os.File, offset, size int64) (*Mapping, error) {
	return nil, scanerr.ErrUnsupportedPlatform
}

func Unmap(m *Mapping) error {
	return scanerr.ErrUnsupportedPlatform
}

func ExtendFile(f *os.File, newLength int64) error {
	return scanerr.ErrUnsupportedPlatform
}

func CeilToPage(n int64) int64 {
	p := PageSize()
	return ((n + p - 1) / p) * p
}
