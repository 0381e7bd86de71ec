//go:build windows

// Package winproc implements the OS-level collaborators §6 of the scanner
// spec treats as external: enumerating a target process's virtual-memory
// regions, reading its memory, and mapping/growing the backing file. This
// file is the Windows realization; see winproc_other.go for the stub used
// on every other platform.
package winproc

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/nullstride/memscan/pkg/scanerr"
)

const (
	// Protection bits (Windows PAGE_* constants), passed through opaque
	// per §6.
	ProtectNoAccess         = 0x01
	ProtectReadOnly         = 0x02
	ProtectReadWrite        = 0x04
	ProtectWriteCopy        = 0x08
	ProtectExecute          = 0x10
	ProtectExecuteRead      = 0x20
	ProtectExecuteReadWrite = 0x40
	ProtectExecuteWriteCopy = 0x80
	ProtectGuard            = 0x100

	// State bits.
	StateCommit  = 0x1000
	StateReserve = 0x2000
	StateFree    = 0x10000

	// Type bits.
	TypeImage   = 0x1000000
	TypeMapped  = 0x40000
	TypePrivate = 0x20000

	// AccessVMRead | AccessQueryInformation are the rights the scanner
	// actually needs to open a target process (§12.1).
	AccessVMRead           = 0x0010
	AccessQueryInformation = 0x0400

	pageSize = 0x1000
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procVirtualQueryEx    = kernel32.NewProc("VirtualQueryEx")
	procReadProcessMemory = kernel32.NewProc("ReadProcessMemory")
)

// memoryBasicInformation mirrors the 64-bit MEMORY_BASIC_INFORMATION
// layout used by VirtualQueryEx.
type memoryBasicInformation struct {
	BaseAddress       uintptr
	AllocationBase    uintptr
	AllocationProtect uint32
	_                 uint32 // alignment padding
	RegionSize        uintptr
	State             uint32
	Protect           uint32
	Type              uint32
	_                 uint32 // tail padding
}

// Handle is the target process handle type, re-exported so callers don't
// need to import golang.org/x/sys/windows directly.
type Handle = windows.Handle

// RegionDescriptor is the (base, size, protect, state, type) tuple
// enumerate_region returns, per §6.
type RegionDescriptor struct {
	Base    uintptr
	Size    uintptr
	Protect uint32
	State   uint32
	Type    uint32
}

// OpenProcess resolves a PID to a process handle with the minimal access
// rights the scanner needs (PROCESS_QUERY_INFORMATION | PROCESS_VM_READ).
func OpenProcess(pid uint32) (Handle, error) {
	h, err := windows.OpenProcess(AccessQueryInformation|AccessVMRead, false, pid)
	if err != nil {
		return 0, fmt.Errorf("winproc: OpenProcess(%d): %w", pid, err)
	}
	return h, nil
}

// CloseProcess releases a handle obtained from OpenProcess.
func CloseProcess(h Handle) error {
	return windows.CloseHandle(h)
}

// EnumerateRegion queries the virtual-memory descriptor containing addr.
// It returns scanerr.ErrEnumerationStopped when the OS query fails (end of
// address space, or an address past the last mapped region).
func EnumerateRegion(h Handle, addr uintptr) (RegionDescriptor, error) {
	var mbi memoryBasicInformation
	ret, _, _ := procVirtualQueryEx.Call(
		uintptr(h),
		addr,
		uintptr(unsafe.Pointer(&mbi)),
		unsafe.Sizeof(mbi),
	)
	if ret == 0 {
		return RegionDescriptor{}, scanerr.ErrEnumerationStopped
	}
	return RegionDescriptor{
		Base:    mbi.BaseAddress,
		Size:    mbi.RegionSize,
		Protect: mbi.Protect,
		State:   mbi.State,
		Type:    mbi.Type,
	}, nil
}

// ReadProcessMemory reads len(dst) bytes from addr in the target process
// into dst. It returns scanerr.ErrReadFailed on any OS-level failure.
func ReadProcessMemory(h Handle, addr uintptr, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	var bytesRead uintptr
	ret, _, _ := procReadProcessMemory.Call(
		uintptr(h),
		addr,
		uintptr(unsafe.Pointer(&dst[0])),
		uintptr(len(dst)),
		uintptr(unsafe.Pointer(&bytesRead)),
	)
	if ret == 0 || int(bytesRead) != len(dst) {
		return scanerr.ErrReadFailed
	}
	return nil
}

// PageSize returns the page quantum (4 KiB) backing files are aligned to.
func PageSize() int64 { return pageSize }
