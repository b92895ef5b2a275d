// file: pkg/adf/blocks.go

package adf

import (
	"github.com/amigafs/adfvol/internal/bcpl"
)

type rawBlock = [BlockSize]byte

// BootBlock overlays block 0.
type BootBlock struct{ b *rawBlock }

func newBootBlock(b *rawBlock) BootBlock { return BootBlock{b} }

// DosType returns the full 4-byte magic (e.g. "DOS\x01" for FFS).
func (v BootBlock) DosType() uint32 { return word32(v.b, 0) }

func (v BootBlock) SetDosType(t uint32) { putWord32(v.b, 0, t) }

// HasDosPrefix reports whether the high 3 bytes equal "DOS".
func (v BootBlock) HasDosPrefix() bool {
	t := v.DosType()
	return byte(t>>24) == dosPrefix[0] && byte(t>>16) == dosPrefix[1] && byte(t>>8) == dosPrefix[2]
}

// Variant returns the low byte of the DOS type (OFS/FFS/INTL/DIRCACHE
// selector).
func (v BootBlock) Variant() byte { return byte(v.DosType()) }

func (v BootBlock) RootBlockPtr() uint32     { return word32(v.b, 2) }
func (v BootBlock) SetRootBlockPtr(n uint32) { putWord32(v.b, 2, n) }

func (v BootBlock) updateChecksum() { updateChecksum(v.b, 1) }

// RootBlock overlays the root block (fixed at RootBlockNum for DD
// floppies).
type RootBlock struct{ b *rawBlock }

func newRootBlock(b *rawBlock) RootBlock { return RootBlock{b} }

func (v RootBlock) Type() int32      { return sword32(v.b, rootWordType) }
func (v RootBlock) SetType(t int32)  { putSword32(v.b, rootWordType, t) }
func (v RootBlock) SecType() int32   { return sword32(v.b, wordSecType) }
func (v RootBlock) SetSecType(t int32) { putSword32(v.b, wordSecType, t) }

func (v RootBlock) HashTableSize() uint32     { return word32(v.b, rootWordHashTblSize) }
func (v RootBlock) SetHashTableSize(n uint32) { putWord32(v.b, rootWordHashTblSize, n) }

func (v RootBlock) HashSlot(i int) uint32 {
	return word32(v.b, rootWordHashTable+i)
}
func (v RootBlock) SetHashSlot(i int, block uint32) {
	putWord32(v.b, rootWordHashTable+i, block)
}

func (v RootBlock) BMFlagValid() bool     { return sword32(v.b, rootWordBMFlag) == -1 }
func (v RootBlock) SetBMFlagValid(ok bool) {
	if ok {
		putSword32(v.b, rootWordBMFlag, -1)
	} else {
		putSword32(v.b, rootWordBMFlag, 0)
	}
}

func (v RootBlock) BMPage(i int) uint32 { return word32(v.b, rootWordBMPages+i) }
func (v RootBlock) SetBMPage(i int, block uint32) {
	putWord32(v.b, rootWordBMPages+i, block)
}

func (v RootBlock) BMExtension() uint32     { return word32(v.b, rootWordBMExt) }
func (v RootBlock) SetBMExtension(n uint32) { putWord32(v.b, rootWordBMExt, n) }

func (v RootBlock) ModTime() (days, mins, ticks uint32) {
	return word32(v.b, rootWordModDays), word32(v.b, rootWordModMins), word32(v.b, rootWordModTicks)
}
func (v RootBlock) SetModTime(days, mins, ticks uint32) {
	putWord32(v.b, rootWordModDays, days)
	putWord32(v.b, rootWordModMins, mins)
	putWord32(v.b, rootWordModTicks, ticks)
}

func (v RootBlock) CreatedTime() (days, mins, ticks uint32) {
	return word32(v.b, rootWordCreatedDays), word32(v.b, rootWordCreatedMins), word32(v.b, rootWordCreatedTicks)
}
func (v RootBlock) SetCreatedTime(days, mins, ticks uint32) {
	putWord32(v.b, rootWordCreatedDays, days)
	putWord32(v.b, rootWordCreatedMins, mins)
	putWord32(v.b, rootWordCreatedTicks, ticks)
}

func (v RootBlock) Name() string {
	return bcpl.Read(v.b[rootByteName:], MaxNameLen)
}
func (v RootBlock) SetName(s string) {
	bcpl.Write(v.b[rootByteName:], s, MaxNameLen)
}

func (v RootBlock) Parent() uint32      { return word32(v.b, wordParent) }
func (v RootBlock) SetParent(n uint32)  { putWord32(v.b, wordParent, n) }
func (v RootBlock) Extension() uint32   { return word32(v.b, wordExtension) }
func (v RootBlock) SetExtension(n uint32) { putWord32(v.b, wordExtension, n) }

func (v RootBlock) updateChecksum() { updateChecksum(v.b, rootWordChecksum) }

// HeaderBlock overlays a file header, a directory header, or (through a
// separate RootBlock view of the same underlying block) shares its tail
// layout with the root block. It is used for both files and
// directories: which fields are meaningful depends on SecType.
type HeaderBlock struct{ b *rawBlock }

func newHeaderBlock(b *rawBlock) HeaderBlock { return HeaderBlock{b} }

func (v HeaderBlock) Type() int32     { return sword32(v.b, hdrWordType) }
func (v HeaderBlock) SetType(t int32) { putSword32(v.b, hdrWordType, t) }

func (v HeaderBlock) HeaderKey() uint32     { return word32(v.b, hdrWordHeaderKey) }
func (v HeaderBlock) SetHeaderKey(n uint32) { putWord32(v.b, hdrWordHeaderKey, n) }

func (v HeaderBlock) SecType() int32     { return sword32(v.b, wordSecType) }
func (v HeaderBlock) SetSecType(t int32) { putSword32(v.b, wordSecType, t) }

// FirstData is the head of a file's data-block chain. Unused for
// directory/root headers.
func (v HeaderBlock) FirstData() uint32     { return word32(v.b, hdrWordFirstData) }
func (v HeaderBlock) SetFirstData(n uint32) { putWord32(v.b, hdrWordFirstData, n) }

// HashSlot indexes the 72-word table used as a directory's hash table.
// Meaningless for file headers.
func (v HeaderBlock) HashSlot(i int) uint32 {
	return word32(v.b, hdrWordHashOrData+i)
}
func (v HeaderBlock) SetHashSlot(i int, block uint32) {
	putWord32(v.b, hdrWordHashOrData+i, block)
}

func (v HeaderBlock) FileSize() uint32     { return word32(v.b, hdrWordFileSize) }
func (v HeaderBlock) SetFileSize(n uint32) { putWord32(v.b, hdrWordFileSize, n) }

func (v HeaderBlock) Comment() string {
	return bcpl.Read(v.b[hdrByteComment:], 79)
}
func (v HeaderBlock) SetComment(s string) {
	bcpl.Write(v.b[hdrByteComment:], s, 79)
}

func (v HeaderBlock) ModTime() (days, mins, ticks uint32) {
	return word32(v.b, hdrWordModDays), word32(v.b, hdrWordModMins), word32(v.b, hdrWordModTicks)
}
func (v HeaderBlock) SetModTime(days, mins, ticks uint32) {
	putWord32(v.b, hdrWordModDays, days)
	putWord32(v.b, hdrWordModMins, mins)
	putWord32(v.b, hdrWordModTicks, ticks)
}

func (v HeaderBlock) Name() string {
	return bcpl.Read(v.b[hdrByteName:], MaxNameLen)
}
func (v HeaderBlock) SetName(s string) {
	bcpl.Write(v.b[hdrByteName:], s, MaxNameLen)
}

func (v HeaderBlock) HashChain() uint32     { return word32(v.b, wordHashChain) }
func (v HeaderBlock) SetHashChain(n uint32) { putWord32(v.b, wordHashChain, n) }

func (v HeaderBlock) Parent() uint32     { return word32(v.b, wordParent) }
func (v HeaderBlock) SetParent(n uint32) { putWord32(v.b, wordParent, n) }

func (v HeaderBlock) Extension() uint32     { return word32(v.b, wordExtension) }
func (v HeaderBlock) SetExtension(n uint32) { putWord32(v.b, wordExtension, n) }

func (v HeaderBlock) updateChecksum() { updateChecksum(v.b, hdrWordChecksum) }

// DataBlock overlays an OFS-format data block, written regardless of
// the volume's DOS type per spec.
type DataBlock struct{ b *rawBlock }

func newDataBlock(b *rawBlock) DataBlock { return DataBlock{b} }

func (v DataBlock) Type() int32     { return sword32(v.b, dataWordType) }
func (v DataBlock) SetType(t int32) { putSword32(v.b, dataWordType, t) }

func (v DataBlock) HeaderKey() uint32     { return word32(v.b, dataWordHeaderKey) }
func (v DataBlock) SetHeaderKey(n uint32) { putWord32(v.b, dataWordHeaderKey, n) }

func (v DataBlock) SeqNum() uint32     { return word32(v.b, dataWordSeqNum) }
func (v DataBlock) SetSeqNum(n uint32) { putWord32(v.b, dataWordSeqNum, n) }

func (v DataBlock) DataSize() uint32     { return word32(v.b, dataWordDataSize) }
func (v DataBlock) SetDataSize(n uint32) { putWord32(v.b, dataWordDataSize, n) }

func (v DataBlock) NextData() uint32     { return word32(v.b, dataWordNextData) }
func (v DataBlock) SetNextData(n uint32) { putWord32(v.b, dataWordNextData, n) }

// Payload returns the 488-byte data area of the block.
func (v DataBlock) Payload() []byte { return v.b[dataByteData : dataByteData+DataPayload] }

func (v DataBlock) updateChecksum() { updateChecksum(v.b, dataWordChecksum) }

// BitmapBlock overlays a free-block bitmap page. Set bits mean free,
// clear bits mean used.
type BitmapBlock struct{ b *rawBlock }

func newBitmapBlock(b *rawBlock) BitmapBlock { return BitmapBlock{b} }

func (v BitmapBlock) Word(i int) uint32     { return word32(v.b, bmWordMap+i) }
func (v BitmapBlock) SetWord(i int, w uint32) { putWord32(v.b, bmWordMap+i, w) }

func (v BitmapBlock) IsFree(bitOffset int) bool {
	word := bitOffset / 32
	bit := bitOffset % 32
	return v.Word(word)&(1<<uint(bit)) != 0
}

func (v BitmapBlock) SetFree(bitOffset int, free bool) {
	word := bitOffset / 32
	bit := bitOffset % 32
	w := v.Word(word)
	if free {
		w |= 1 << uint(bit)
	} else {
		w &^= 1 << uint(bit)
	}
	v.SetWord(word, w)
}

func (v BitmapBlock) updateChecksum() { updateChecksum(v.b, bmWordChecksum) }
