package region

import (
	"testing"

	"github.com/nullstride/memscan/pkg/winproc"
)

func TestHasProtection(t *testing.T) {
	r := New(nil, 0, winproc.RegionDescriptor{
		Base:    0x1000,
		Size:    0x1000,
		Protect: winproc.ProtectReadWrite,
	})

	if !r.HasProtection(winproc.ProtectReadWrite) {
		t.Errorf("expected PAGE_READWRITE to match itself")
	}
	if !r.HasProtection(winproc.ProtectReadWrite | winproc.ProtectExecuteReadWrite) {
		t.Errorf("expected a protect mask containing PAGE_READWRITE to match")
	}
	if r.HasProtection(winproc.ProtectExecuteReadWrite) {
		t.Errorf("expected PAGE_EXECUTE_READWRITE to not match a PAGE_READWRITE region")
	}
}

func TestIsCommittedAndIsMemMapped(t *testing.T) {
	committed := New(nil, 0, winproc.RegionDescriptor{State: winproc.StateCommit})
	if !committed.IsCommitted() {
		t.Errorf("expected MEM_COMMIT state to report committed")
	}

	reserved := New(nil, 0, winproc.RegionDescriptor{State: winproc.StateReserve})
	if reserved.IsCommitted() {
		t.Errorf("expected MEM_RESERVE state to not report committed")
	}

	mapped := New(nil, 0, winproc.RegionDescriptor{Type: winproc.TypeMapped})
	if !mapped.IsMemMapped() {
		t.Errorf("expected MEM_MAPPED type to report mem-mapped")
	}

	private := New(nil, 0, winproc.RegionDescriptor{Type: winproc.TypePrivate})
	if private.IsMemMapped() {
		t.Errorf("expected MEM_PRIVATE type to not report mem-mapped")
	}
}

func TestBaseAndSize(t *testing.T) {
	r := New(nil, 0, winproc.RegionDescriptor{Base: 0xDEAD0000, Size: 0x3000})
	if r.Base() != 0xDEAD0000 {
		t.Errorf("Base() = %#x, want %#x", r.Base(), 0xDEAD0000)
	}
	if r.Size() != 0x3000 {
		t.Errorf("Size() = %#x, want %#x", r.Size(), 0x3000)
	}
}

func TestUnreservedRegionHasNoElements(t *testing.T) {
	r := New(nil, 0, winproc.RegionDescriptor{Base: 0x1000, Size: 0x1000})
	if r.RawBytes() != nil {
		t.Errorf("expected RawBytes to be nil before ReadMemory ever succeeds")
	}
	if n := r.ElementCount(4); n != 0 {
		t.Errorf("expected ElementCount to be 0 before any snapshot exists, got %d", n)
	}
}

func TestElementCountWithZeroElementSizeIsZero(t *testing.T) {
	// A non-positive element size yields no elements rather than a
	// division by zero.
	r := &Region{reserved: false}
	if got := r.ElementCount(0); got != 0 {
		t.Errorf("ElementCount with a zero element size should be 0, got %d", got)
	}
}
