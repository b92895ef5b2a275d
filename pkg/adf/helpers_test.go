package adf

import "testing"

func newTestVolume(t *testing.T, blocks int) *Volume {
	t.Helper()
	img := NewMemImage(blocks)
	if err := Format(img, "Test", false); err != nil {
		t.Fatalf("Format: %v", err)
	}
	vol, err := Open(img, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return vol
}
