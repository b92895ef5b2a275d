package adf

import "testing"

func TestFormatProducesMountableEmptyVolume(t *testing.T) {
	vol := newTestVolume(t, DDBlocks)
	if vol.Name() != "Test" {
		t.Errorf("Name() = %q, want %q", vol.Name(), "Test")
	}
	if vol.FFS() {
		t.Errorf("FFS() = true, want false for an OFS format")
	}
	if !vol.IsUsed(0) || !vol.IsUsed(1) || !vol.IsUsed(RootBlockNum) {
		t.Errorf("blocks 0, 1 and %d must always be used", RootBlockNum)
	}
	if vol.FreeBlocks()+vol.UsedBlocks() != DDBlocks {
		t.Errorf("free (%d) + used (%d) != total (%d)", vol.FreeBlocks(), vol.UsedBlocks(), DDBlocks)
	}
	if findings := Check(vol); len(findings) != 0 {
		t.Errorf("Check found issues on a freshly formatted volume: %v", findings)
	}
}

func TestFormatRejectsOversizedName(t *testing.T) {
	img := NewMemImage(DDBlocks)
	err := Format(img, "this volume label is definitely far too long", false)
	if err == nil {
		t.Fatalf("expected an error for an over-length volume name")
	}
}

func TestFormatFFSVariant(t *testing.T) {
	img := NewMemImage(DDBlocks)
	if err := Format(img, "FastVol", true); err != nil {
		t.Fatalf("Format: %v", err)
	}
	vol, err := Open(img, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !vol.FFS() {
		t.Errorf("FFS() = false, want true")
	}
}
