// file: pkg/adf/volume.go

package adf

import (
	"container/heap"
	"fmt"
)

// Volume is a parsed, mounted ADF image: the root block location, the
// FFS/OFS flag, the volume label, and the in-memory free/used block
// sets kept in lock-step with the on-disk bitmap.
//
// A Volume is not safe for concurrent use: a single logical agent is
// assumed to drive it to completion on every operation.
type Volume struct {
	img      Image
	readOnly bool

	ffs          bool
	rootBlockNum int
	volumeName   string

	used     map[int]bool
	free     map[int]bool
	freeHeap intHeap

	dirCache map[string]int // cleaned path -> header block number
}

// Open parses img and builds the in-memory volume state. readOnly makes
// every mutating operation fail with KindReadOnly; Open does not inspect
// img's own writability, so callers pass the mode that img was opened in
// (see OpenFileImage).
func Open(img Image, readOnly bool) (*Volume, error) {
	if img.Blocks() < 2 {
		return nil, newErr(KindInvalidImage, "open", "")
	}
	v := &Volume{
		img:      img,
		readOnly: readOnly,
		dirCache: make(map[string]int),
	}
	if err := v.parse(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Volume) parse() error {
	boot, err := v.readBoot()
	if err != nil {
		return wrapErr(KindInvalidImage, "open", "", err)
	}
	switch boot.Variant() {
	case DosOFS, DosFFS, DosFFSIntl, DosFFSDCache:
		v.ffs = boot.Variant() == DosFFS || boot.Variant() == DosFFSIntl || boot.Variant() == DosFFSDCache
	default:
		v.ffs = false
	}

	// The core always uses block 880 as the root, ignoring the boot
	// block's own pointer, and tolerates a non-matching DOS prefix by
	// treating the image as possibly-valid with the same geometry.
	v.rootBlockNum = RootBlockNum
	if v.rootBlockNum >= v.img.Blocks() {
		return newErr(KindInvalidImage, "open", "")
	}

	root, err := v.readRoot()
	if err != nil {
		return wrapErr(KindInvalidImage, "open", "", err)
	}
	if root.Type() != TypeHeader {
		return newErr(KindInvalidImage, "open", "")
	}
	if st := root.SecType(); st != SecTypeRoot && st != 0 {
		return newErr(KindInvalidImage, "open", "")
	}
	v.volumeName = root.Name()

	return v.buildFreeUsedSets()
}

func (v *Volume) readBoot() (BootBlock, error) {
	raw, err := v.img.ReadBlock(0)
	if err != nil {
		return BootBlock{}, err
	}
	return newBootBlock(&raw), nil
}

func (v *Volume) readRoot() (RootBlock, error) {
	raw, err := v.img.ReadBlock(v.rootBlockNum)
	if err != nil {
		return RootBlock{}, err
	}
	return newRootBlock(&raw), nil
}

// buildFreeUsedSets runs the five-step parse-time walk: mark everything
// but blocks 0 and 1 free, mark the root used, walk the bitmap pages to
// mark every clear bit used, then walk the directory tree to catch
// anything the bitmap missed.
func (v *Volume) buildFreeUsedSets() error {
	total := v.img.Blocks()
	v.used = make(map[int]bool, total/4)
	v.free = make(map[int]bool, total)
	v.freeHeap = nil

	for i := 2; i < total; i++ {
		v.free[i] = true
	}
	v.markUsed(0)
	v.markUsed(1)

	root, err := v.readRoot()
	if err != nil {
		return err
	}
	for i := 0; i < BMPagesLen; i++ {
		page := int(root.BMPage(i))
		if page == 0 {
			continue
		}
		v.markUsed(page)
		bm, err := v.readBitmap(page)
		if err != nil {
			return wrapErr(KindInvalidImage, "open", "", err)
		}
		base := i * BlocksPerBMPage
		for bit := 0; bit < BlocksPerBMPage; bit++ {
			block := base + bit
			if block >= total {
				break
			}
			if !bm.IsFree(bit) {
				v.markUsed(block)
			}
		}
	}

	v.markUsed(v.rootBlockNum)

	for i := 0; i < HashTableSize; i++ {
		slot := int(root.HashSlot(i))
		if slot != 0 {
			if err := v.scanUsed(slot, map[int]bool{}); err != nil {
				return err
			}
		}
	}

	heap.Init(&v.freeHeap)
	for b := range v.free {
		heap.Push(&v.freeHeap, b)
	}
	return nil
}

// scanUsed is the recursive used-block walk, guarding against cycles
// with a per-call visited set (the on-disk invariant that hash
// chains and directory trees are acyclic is exactly what parse must not
// trust blindly on a possibly-corrupt image).
func (v *Volume) scanUsed(block int, visiting map[int]bool) error {
	if block == 0 || visiting[block] {
		return nil
	}
	visiting[block] = true
	v.markUsed(block)

	hdr, err := v.readHeader(block)
	if err != nil {
		return nil // tolerate a dangling pointer rather than fail the whole mount
	}
	switch hdr.SecType() {
	case SecTypeRoot, SecTypeDir, 0:
		for i := 0; i < HashTableSize; i++ {
			slot := int(hdr.HashSlot(i))
			if slot != 0 {
				if err := v.scanUsed(slot, visiting); err != nil {
					return err
				}
			}
		}
	case SecTypeFile:
		data := int(hdr.FirstData())
		seen := map[int]bool{}
		for data != 0 && !seen[data] {
			seen[data] = true
			v.markUsed(data)
			db, err := v.readData(data)
			if err != nil {
				break
			}
			data = int(db.NextData())
		}
	}

	if next := int(hdr.HashChain()); next != 0 {
		return v.scanUsed(next, visiting)
	}
	return nil
}

func (v *Volume) markUsed(block int) {
	if v.used[block] {
		return
	}
	v.used[block] = true
	delete(v.free, block)
}

func (v *Volume) markFree(block int) {
	if v.free[block] {
		return
	}
	delete(v.used, block)
	v.free[block] = true
	heap.Push(&v.freeHeap, block)
}

// ReadOnly reports whether mutating operations are rejected.
func (v *Volume) ReadOnly() bool { return v.readOnly }

// FFS reports whether the boot block advertised a Fast File System
// variant.
func (v *Volume) FFS() bool { return v.ffs }

// Name returns the decoded volume label.
func (v *Volume) Name() string { return v.volumeName }

// Blocks returns the image's total block count.
func (v *Volume) Blocks() int { return v.img.Blocks() }

// FreeBlocks and UsedBlocks report the current set sizes, for `info`
// and property tests.
func (v *Volume) FreeBlocks() int { return len(v.free) }
func (v *Volume) UsedBlocks() int { return len(v.used) }

// IsUsed reports whether block n is currently marked used.
func (v *Volume) IsUsed(n int) bool { return v.used[n] }

// Flush forces the backing image to durable storage.
func (v *Volume) Flush() error { return v.img.Flush() }

// Close flushes (if writable) and releases the backing image.
func (v *Volume) Close() error {
	if !v.readOnly {
		if err := v.img.Flush(); err != nil {
			return err
		}
	}
	return v.img.Close()
}

// --- typed block I/O helpers shared by the allocator, directory and
// file I/O layers ---

func (v *Volume) readRaw(n int) (*rawBlock, error) {
	if n < 0 || n >= v.img.Blocks() {
		return nil, fmt.Errorf("adf: block %d out of range", n)
	}
	b, err := v.img.ReadBlock(n)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (v *Volume) writeRaw(n int, b *rawBlock) error {
	return v.img.WriteBlock(n, *b)
}

func (v *Volume) readHeader(n int) (HeaderBlock, error) {
	b, err := v.readRaw(n)
	if err != nil {
		return HeaderBlock{}, err
	}
	return newHeaderBlock(b), nil
}

func (v *Volume) readData(n int) (DataBlock, error) {
	b, err := v.readRaw(n)
	if err != nil {
		return DataBlock{}, err
	}
	return newDataBlock(b), nil
}

func (v *Volume) readBitmap(n int) (BitmapBlock, error) {
	b, err := v.readRaw(n)
	if err != nil {
		return BitmapBlock{}, err
	}
	return newBitmapBlock(b), nil
}

func (v *Volume) writeHeader(hb HeaderBlock) error { return v.writeRaw(int(hb.HeaderKey()), hb.b) }
func (v *Volume) writeData(n int, db DataBlock) error { return v.writeRaw(n, db.b) }
func (v *Volume) writeBitmap(n int, bm BitmapBlock) error { return v.writeRaw(n, bm.b) }
func (v *Volume) writeRoot(rb RootBlock) error { return v.writeRaw(v.rootBlockNum, rb.b) }

// intHeap is a container/heap min-heap of block numbers, used to hand
// out the lowest-numbered free block first. Minimising fragmentation
// is left to future work.
type intHeap []int

func (h intHeap) Len() int            { return len(h) }
func (h intHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
