// file: pkg/adf/format.go

package adf

// Format writes a fresh, empty OFS or FFS volume of the given block
// count into img: a boot block, a root block at RootBlockNum with an
// empty hash table, and enough bitmap pages to cover every block.
// img must already have exactly blocks blocks.
func Format(img Image, name string, ffs bool) error {
	total := img.Blocks()
	if total <= RootBlockNum {
		return newErr(KindInvalidImage, "format", "")
	}
	if len(name) > MaxNameLen {
		return newErr(KindNameTooLong, "format", name)
	}

	var bootRaw rawBlock
	boot := newBootBlock(&bootRaw)
	variant := byte(DosOFS)
	if ffs {
		variant = DosFFS
	}
	dosType := uint32(dosPrefix[0])<<24 | uint32(dosPrefix[1])<<16 | uint32(dosPrefix[2])<<8 | uint32(variant)
	boot.SetDosType(dosType)
	boot.SetRootBlockPtr(RootBlockNum)
	boot.updateChecksum()
	if err := img.WriteBlock(0, bootRaw); err != nil {
		return err
	}
	var reserved rawBlock
	if err := img.WriteBlock(1, reserved); err != nil {
		return err
	}

	numPages := (total + BlocksPerBMPage - 1) / BlocksPerBMPage
	if numPages > BMPagesLen {
		return newErr(KindInvalidImage, "format", "")
	}
	pageBlocks := make([]int, numPages)
	next := 2
	for i := range pageBlocks {
		pageBlocks[i] = next
		next++
	}
	if next > RootBlockNum {
		return newErr(KindInvalidImage, "format", "")
	}

	var rootRaw rawBlock
	root := newRootBlock(&rootRaw)
	root.SetType(TypeHeader)
	root.SetSecType(SecTypeRoot)
	root.SetHashTableSize(HashTableSize)
	root.SetBMFlagValid(true)
	for i, pb := range pageBlocks {
		root.SetBMPage(i, uint32(pb))
	}
	root.SetName(name)
	days, mins, ticks := nowAmiga()
	root.SetModTime(days, mins, ticks)
	root.SetCreatedTime(days, mins, ticks)
	root.updateChecksum()
	if err := img.WriteBlock(RootBlockNum, rootRaw); err != nil {
		return err
	}

	reservedBlocks := map[int]bool{0: true, 1: true, RootBlockNum: true}
	for _, pb := range pageBlocks {
		reservedBlocks[pb] = true
	}

	for i, pb := range pageBlocks {
		var bmRaw rawBlock
		bm := newBitmapBlock(&bmRaw)
		base := i * BlocksPerBMPage
		for bit := 0; bit < BlocksPerBMPage; bit++ {
			block := base + bit
			if block >= total {
				break
			}
			bm.SetFree(bit, !reservedBlocks[block])
		}
		bm.updateChecksum()
		if err := img.WriteBlock(pb, bmRaw); err != nil {
			return err
		}
	}

	return img.Flush()
}
