// file: pkg/adf/checksum.go

package adf

import "encoding/binary"

// checksum computes the Amiga block checksum: the two's-complement
// negation, mod 2^32, of the sum of all 128 big-endian 32-bit words of
// the block, with the word at chkWord treated as zero during the sum.
func checksum(block *[BlockSize]byte, chkWord int) uint32 {
	var sum uint32
	for i := 0; i < BlockSize/4; i++ {
		if i == chkWord {
			continue
		}
		sum += binary.BigEndian.Uint32(block[i*4 : i*4+4])
	}
	return -sum
}

// updateChecksum zeroes the checksum word, recomputes it and writes it
// back.
func updateChecksum(block *[BlockSize]byte, chkWord int) {
	putWord32(block, chkWord, 0)
	c := checksum(block, chkWord)
	putWord32(block, chkWord, c)
}

// verifyChecksum reports whether the block's stored checksum is
// consistent: summing all 128 words, including the checksum word
// itself, must yield zero.
func verifyChecksum(block *[BlockSize]byte, chkWord int) bool {
	var sum uint32
	for i := 0; i < BlockSize/4; i++ {
		sum += binary.BigEndian.Uint32(block[i*4 : i*4+4])
	}
	return sum == 0
}

func word32(block *[BlockSize]byte, word int) uint32 {
	return binary.BigEndian.Uint32(block[word*4 : word*4+4])
}

func putWord32(block *[BlockSize]byte, word int, v uint32) {
	binary.BigEndian.PutUint32(block[word*4:word*4+4], v)
}

func sword32(block *[BlockSize]byte, word int) int32 {
	return int32(word32(block, word))
}

func putSword32(block *[BlockSize]byte, word int, v int32) {
	putWord32(block, word, uint32(v))
}
