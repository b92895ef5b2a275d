package adf

import "testing"

func TestUpdateChecksumMakesBlockSumToZero(t *testing.T) {
	var b rawBlock
	for i := range b {
		b[i] = byte(i * 7)
	}
	updateChecksum(&b, hdrWordChecksum)
	if !verifyChecksum(&b, hdrWordChecksum) {
		t.Fatalf("block does not sum to zero after updateChecksum")
	}
}

func TestUpdateChecksumDifferentWordOffsets(t *testing.T) {
	for _, word := range []int{0, hdrWordChecksum, bmWordChecksum, 127} {
		var b rawBlock
		for i := range b {
			b[i] = byte(i * 13)
		}
		updateChecksum(&b, word)
		if !verifyChecksum(&b, word) {
			t.Fatalf("word offset %d: block does not sum to zero", word)
		}
	}
}

func TestCorruptedBlockFailsVerify(t *testing.T) {
	var b rawBlock
	updateChecksum(&b, hdrWordChecksum)
	b[100] ^= 0xff
	if verifyChecksum(&b, hdrWordChecksum) {
		t.Fatalf("corrupted block unexpectedly verifies")
	}
}

func TestWord32RoundTrip(t *testing.T) {
	var b rawBlock
	putWord32(&b, 10, 0xdeadbeef)
	if got := word32(&b, 10); got != 0xdeadbeef {
		t.Fatalf("word32(10) = %#x, want 0xdeadbeef", got)
	}
	putSword32(&b, 11, -3)
	if got := sword32(&b, 11); got != -3 {
		t.Fatalf("sword32(11) = %d, want -3", got)
	}
}
