package region

import "testing"

func TestEnumerateStopsOnFirstQueryFailure(t *testing.T) {
	// Handle 0 is never a valid process handle, so the very first
	// VirtualQueryEx-equivalent call fails and Enumerate must return an
	// empty result instead of looping or panicking.
	regions := Enumerate(nil, 0, Window{Lo: 0, Hi: 0x10000}, 0)
	if len(regions) != 0 {
		t.Errorf("expected no regions from an invalid process handle, got %d", len(regions))
	}
}

func TestEnumerateOnEmptyWindowReturnsNoRegions(t *testing.T) {
	regions := Enumerate(nil, 0, Window{Lo: 0x1000, Hi: 0x1000}, 0)
	if len(regions) != 0 {
		t.Errorf("expected no regions from an empty [lo, hi) window, got %d", len(regions))
	}
}
