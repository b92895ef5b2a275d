package adf

import "testing"

func TestAmigaEpochIsUnixOffset(t *testing.T) {
	got := amigaToUnix(0, 0, 0)
	if got != amigaEpochOffset {
		t.Fatalf("amigaToUnix(0,0,0) = %d, want %d", got, amigaEpochOffset)
	}
}

func TestUnixToAmigaRoundTrip(t *testing.T) {
	// A time that lands on an exact tick boundary round-trips exactly;
	// sub-tick precision is lost by design.
	unix := int64(amigaEpochOffset) + 3*86400 + 61*60 + 5
	days, mins, ticks := unixToAmiga(unix)
	back := amigaToUnix(days, mins, ticks)
	if back != unix {
		t.Fatalf("round-trip mismatch: got %d, want %d", back, unix)
	}
}

func TestUnixToAmigaClampsPreEpoch(t *testing.T) {
	days, mins, ticks := unixToAmiga(0)
	if days != 0 || mins != 0 || ticks != 0 {
		t.Fatalf("pre-epoch time did not clamp to zero: %d %d %d", days, mins, ticks)
	}
}

func TestTicksWrapWithinMinute(t *testing.T) {
	_, _, ticks := unixToAmiga(amigaEpochOffset + 59)
	if ticks != 59*ticksPerSecond {
		t.Fatalf("ticks = %d, want %d", ticks, 59*ticksPerSecond)
	}
}
