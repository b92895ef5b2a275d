// file: pkg/adf/allocation.go

package adf

import "container/heap"

// allocate hands out the lowest-numbered free block, zero-fills it on
// disk, and moves it from the free set to the used set. It fails with
// KindNoSpace once the free set is exhausted.
func (v *Volume) allocate(op string) (int, error) {
	for v.freeHeap.Len() > 0 {
		block := heap.Pop(&v.freeHeap).(int)
		if !v.free[block] {
			continue
		}
		delete(v.free, block)
		v.used[block] = true

		var zero rawBlock
		if err := v.writeRaw(block, &zero); err != nil {
			v.markFree(block)
			return 0, wrapErr(KindIO, op, "", err)
		}
		if err := v.setBitmapBit(block, false); err != nil {
			v.markFree(block)
			return 0, err
		}
		return block, nil
	}
	return 0, newErr(KindNoSpace, op, "")
}

// free releases block back to the free set and flips its bitmap bit.
// Blocks 0, 1 and the root block can never be freed; callers must not
// pass them.
func (v *Volume) freeBlock(op string, block int) error {
	if block == 0 || block == 1 || block == v.rootBlockNum {
		return newErr(KindIO, op, "")
	}
	if err := v.setBitmapBit(block, true); err != nil {
		return err
	}
	v.markFree(block)
	return nil
}

// setBitmapBit locates the bitmap page and bit offset covering block
// and writes free/used into it, recomputing that page's checksum.
func (v *Volume) setBitmapBit(block int, free bool) error {
	page := block / BlocksPerBMPage
	bit := block % BlocksPerBMPage
	if page >= BMPagesLen {
		return newErr(KindNoSpace, "bitmap", "")
	}
	root, err := v.readRoot()
	if err != nil {
		return wrapErr(KindIO, "bitmap", "", err)
	}
	pageBlock := int(root.BMPage(page))
	if pageBlock == 0 {
		return newErr(KindNoSpace, "bitmap", "")
	}
	bm, err := v.readBitmap(pageBlock)
	if err != nil {
		return wrapErr(KindIO, "bitmap", "", err)
	}
	bm.SetFree(bit, free)
	bm.updateChecksum()
	return v.writeBitmap(pageBlock, bm)
}
