package diag

import (
	"bytes"
	"testing"

	"github.com/nullstride/memscan/pkg/region"
	"github.com/nullstride/memscan/pkg/winproc"
)

func TestExportRegionOfUnreadRegionRoundTripsEmpty(t *testing.T) {
	// A region that has never had ReadMemory called has no snapshot bytes
	// yet; exporting it should still round-trip cleanly through the
	// compressor rather than panicking on a nil slice.
	r := region.New(nil, 0, winproc.RegionDescriptor{Base: 0x1000, Size: 0x1000})

	snap := ExportRegion(r)
	if snap.Base != 0x1000 {
		t.Errorf("expected exported snapshot to carry the region's base, got %#x", snap.Base)
	}

	out, err := snap.Bytes()
	if err != nil {
		t.Fatalf("Bytes() returned error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected an empty round trip for an unread region, got %d bytes", len(out))
	}
}

func TestRegionSnapshotBytesRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 256)
	snap := RegionSnapshot{
		Base:       0x2000,
		Size:       uintptr(len(payload)),
		Compressed: encoder.EncodeAll(payload, nil),
	}

	out, err := snap.Bytes()
	if err != nil {
		t.Fatalf("Bytes() returned error: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Errorf("decompressed payload does not match original")
	}
}

func TestExportRegionsPreservesOrder(t *testing.T) {
	regions := []*region.Region{
		region.New(nil, 0, winproc.RegionDescriptor{Base: 0x1000, Size: 0x100}),
		region.New(nil, 0, winproc.RegionDescriptor{Base: 0x2000, Size: 0x100}),
	}
	snaps := ExportRegions(regions)
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].Base != 0x1000 || snaps[1].Base != 0x2000 {
		t.Errorf("expected snapshot order to match input region order")
	}
}
