// file: pkg/adf/const.go

// Package adf implements the on-disk data model, allocator, directory
// layer and file I/O engine of an Amiga Disk File (ADF) — a byte-exact
// image of an 880 KiB double-density floppy formatted with the Amiga
// Old or Fast File System.
package adf

const (
	// BlockSize is the fixed size of every addressable block.
	BlockSize = 512

	// DDBlocks is the block count of a standard double-density floppy
	// image (880 KiB / 512).
	DDBlocks = 1760

	// RootBlockNum is fixed for DD floppies; the core ignores whatever
	// root pointer the boot block carries and always uses this.
	RootBlockNum = 880

	// HashTableSize is the number of hash buckets in the root block and
	// in every directory header block.
	HashTableSize = 72

	// BMPagesLen is the number of bitmap-page slots in the root block.
	BMPagesLen = 25

	// BlocksPerBMPage is the block span covered by one bitmap block:
	// 127 words * 32 bits.
	BlocksPerBMPage = 127 * 32

	// DataPayload is the number of payload bytes in an OFS data block.
	DataPayload = 488

	// MaxNameLen is the longest name a BCPL filename/volume-name field
	// can hold.
	MaxNameLen = 30
)

// Block type tags (word 0 of header/data blocks).
const (
	TypeHeader = 2
	TypeData   = 8
)

// Secondary type tags (word 127, byte offset 508).
const (
	SecTypeRoot = 1
	SecTypeDir  = 2
	SecTypeFile = -3
)

// DOS type low byte, from the boot block's 4-byte magic.
const (
	DosOFS       = 0x00
	DosFFS       = 0x01
	DosFFSIntl   = 0x03
	DosFFSDCache = 0x05
)

// dosPrefix is the high 24 bits of the boot-block DOS type, "DOS\0".
var dosPrefix = [3]byte{'D', 'O', 'S'}

// Word offsets (in 32-bit words) shared by the root block and every
// header block: the last four words of the block always carry
// hash_chain, parent, extension and sec_type, in that order.
const (
	wordHashChain = 124
	wordParent    = 125
	wordExtension = 126
	wordSecType   = 127
)

// Root block word layout.
const (
	rootWordType         = 0
	rootWordHeaderKey    = 1
	rootWordHighSeq      = 2
	rootWordHashTblSize  = 3
	rootWordFirstData    = 4
	rootWordChecksum     = 5
	rootWordHashTable    = 6 // 72 words, through word 77
	rootWordBMFlag       = 78
	rootWordBMPages      = 79 // 25 words, through word 103
	rootWordBMExt        = 104
	rootWordModDays      = 105
	rootWordModMins      = 106
	rootWordModTicks     = 107
	rootByteName         = 432 // 32-byte BCPL field, words 108-115
	rootWordAltModDays   = 116
	rootWordAltModMins   = 117
	rootWordAltModTicks  = 118
	rootWordCreatedDays  = 119
	rootWordCreatedMins  = 120
	rootWordCreatedTicks = 121
)

// Header block (file or directory) word layout. The 72-word slice at
// wordHashOrData is the directory hash table for directory/root headers
// and is unused for file headers, which instead chain their data blocks
// through hdrWordFirstData/next_data.
const (
	hdrWordType       = 0
	hdrWordHeaderKey  = 1
	hdrWordHighSeq    = 2
	hdrWordDataSize   = 3
	hdrWordFirstData  = 4
	hdrWordChecksum   = 5
	hdrWordHashOrData = 6   // 72 words, through word 77
	hdrWordFileSize   = 81  // byte 324
	hdrByteComment    = 328 // 80-byte field
	hdrWordModDays    = 102 // byte 408
	hdrWordModMins    = 103
	hdrWordModTicks   = 104
	hdrByteName       = 432 // 32-byte BCPL field
)

// Data block (OFS variant) word layout.
const (
	dataWordType      = 0
	dataWordHeaderKey = 1
	dataWordSeqNum    = 2
	dataWordDataSize  = 3
	dataWordNextData  = 4
	dataWordChecksum  = 5
	dataByteData      = 24 // 488-byte payload, through byte 511
)

// Bitmap block layout: checksum at word 0, 127 map words following.
const (
	bmWordChecksum = 0
	bmWordMap      = 1
)
