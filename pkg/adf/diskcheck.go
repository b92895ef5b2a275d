// file: pkg/adf/diskcheck.go

package adf

import "fmt"

// Check re-derives the free/used block sets and the directory tree from
// scratch and reports every discrepancy against the volume's live
// in-memory state. It never mutates v: this is an independent oracle
// kept deliberately separate from the parse-time walk in Open, so a bug
// shared between the two wouldn't be caught by comparing a volume
// against itself.
func Check(v *Volume) []error {
	var problems []error

	total := v.Blocks()
	used := map[int]bool{0: true, 1: true, v.rootBlockNum: true}

	root, err := v.readRoot()
	if err != nil {
		return []error{fmt.Errorf("read root block: %w", err)}
	}

	bmSeen := map[int]bool{}
	for i := 0; i < BMPagesLen; i++ {
		page := int(root.BMPage(i))
		if page == 0 {
			continue
		}
		used[page] = true
		bm, err := v.readBitmap(page)
		if err != nil {
			problems = append(problems, fmt.Errorf("bitmap page %d: %w", page, err))
			continue
		}
		base := i * BlocksPerBMPage
		for bit := 0; bit < BlocksPerBMPage; bit++ {
			block := base + bit
			if block >= total {
				break
			}
			bmSeen[block] = !bm.IsFree(bit)
		}
	}

	visiting := map[int]bool{}
	var walkErr error
	walk(v, RootBlockNum, used, visiting, &walkErr)
	if walkErr != nil {
		problems = append(problems, walkErr)
	}

	for block := 0; block < total; block++ {
		wantUsed := used[block]
		gotUsed := v.used[block]
		if wantUsed != gotUsed {
			problems = append(problems, fmt.Errorf("block %d: recomputed used=%v, volume state used=%v", block, wantUsed, gotUsed))
		}
		if bit, ok := bmSeen[block]; ok && block >= 2 {
			if bit != wantUsed {
				problems = append(problems, fmt.Errorf("block %d: bitmap says used=%v but directory walk says used=%v", block, bit, wantUsed))
			}
		}
	}

	for block := range v.used {
		if !used[block] && block >= 2 && block != v.rootBlockNum {
			problems = append(problems, fmt.Errorf("block %d: marked used in volume state but unreachable", block))
		}
	}

	if err := checkDirNoDupes(v, RootBlockNum); err != nil {
		problems = append(problems, err)
	}

	return problems
}

// walk mirrors the recursive used-block scan of Open's parse pass,
// written independently so a checksum in one doesn't hide a bug in
// the other.
func walk(v *Volume, block int, used map[int]bool, visiting map[int]bool, errOut *error) {
	if block == 0 || visiting[block] {
		return
	}
	visiting[block] = true
	used[block] = true

	hdr, err := v.readHeader(block)
	if err != nil {
		if *errOut == nil {
			*errOut = fmt.Errorf("read header %d: %w", block, err)
		}
		return
	}
	if !verifyChecksum(hdr.b, hdrWordChecksum) {
		if *errOut == nil {
			*errOut = fmt.Errorf("header %d: invalid checksum", block)
		}
	}

	switch hdr.SecType() {
	case SecTypeRoot, SecTypeDir:
		for i := 0; i < HashTableSize; i++ {
			if slot := int(hdr.HashSlot(i)); slot != 0 {
				walk(v, slot, used, visiting, errOut)
			}
		}
	case SecTypeFile:
		data := int(hdr.FirstData())
		seen := map[int]bool{}
		for data != 0 && !seen[data] {
			seen[data] = true
			used[data] = true
			db, err := v.readData(data)
			if err != nil {
				break
			}
			if !verifyChecksum(db.b, dataWordChecksum) {
				if *errOut == nil {
					*errOut = fmt.Errorf("data block %d: invalid checksum", data)
				}
			}
			data = int(db.NextData())
		}
	}

	if next := int(hdr.HashChain()); next != 0 {
		walk(v, next, used, visiting, errOut)
	}
}

// checkDirNoDupes verifies that no directory holds two entries with the
// same name, and that every listed name resolves back to its own block
// through dirLookup.
func checkDirNoDupes(v *Volume, dirBlock int) error {
	entries, err := v.dirList(dirBlock)
	if err != nil {
		return fmt.Errorf("list %d: %w", dirBlock, err)
	}
	local := map[string]bool{}
	for _, e := range entries {
		if local[e.Name] {
			return fmt.Errorf("directory %d: duplicate name %q", dirBlock, e.Name)
		}
		local[e.Name] = true
		found, err := v.dirLookup(dirBlock, e.Name)
		if err != nil {
			return fmt.Errorf("directory %d: lookup %q: %w", dirBlock, e.Name, err)
		}
		if found != e.Block {
			return fmt.Errorf("directory %d: entry %q lists block %d but lookup resolves to %d", dirBlock, e.Name, e.Block, found)
		}
		if e.IsDir {
			if err := checkDirNoDupes(v, e.Block); err != nil {
				return err
			}
		}
	}
	return nil
}
