// file: pkg/adf/directory.go

package adf

// hashName computes the Amiga directory hash bucket for name: seed with
// the byte length, fold in each uppercased byte, then reduce mod the
// hash table size.
func hashName(name string) int {
	hash := uint32(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		hash = hash*13 + uint32(c)
	}
	return int(hash % HashTableSize)
}

// sameName compares two decoded filenames the Amiga way: the hash
// bucket folds case, but the chain walk that resolves collisions
// matches case-sensitively.
func sameName(a, b string) bool {
	return a == b
}

// dirLookup walks the hash chain for name inside the directory (or
// root) header block dirBlock, returning the header block number of a
// match, or 0 if none exists.
func (v *Volume) dirLookup(dirBlock int, name string) (int, error) {
	bucket := hashName(name)
	next, err := v.hashSlot(dirBlock, bucket)
	if err != nil {
		return 0, err
	}
	seen := map[int]bool{}
	for next != 0 && !seen[next] {
		seen[next] = true
		hdr, err := v.readHeader(next)
		if err != nil {
			return 0, wrapErr(KindIO, "lookup", name, err)
		}
		if sameName(hdr.Name(), name) {
			return next, nil
		}
		next = int(hdr.HashChain())
	}
	return 0, nil
}

// DirEntry is one child of a listed directory.
type DirEntry struct {
	Block int
	Name  string
	IsDir bool
}

// dirList enumerates every entry reachable from dirBlock's hash table,
// walking every bucket's chain to the end. A corrupt entry (empty name,
// dangling pointer) is skipped, not treated as a chain terminator: an
// empty name earlier in a bucket must not hide the entries after it.
func (v *Volume) dirList(dirBlock int) ([]DirEntry, error) {
	var entries []DirEntry
	for bucket := 0; bucket < HashTableSize; bucket++ {
		next, err := v.hashSlot(dirBlock, bucket)
		if err != nil {
			return nil, err
		}
		seen := map[int]bool{}
		for next != 0 && !seen[next] {
			seen[next] = true
			hdr, err := v.readHeader(next)
			if err != nil {
				break
			}
			name := hdr.Name()
			if name != "" {
				entries = append(entries, DirEntry{
					Block: next,
					Name:  name,
					IsDir: hdr.SecType() == SecTypeDir || hdr.SecType() == SecTypeRoot,
				})
			}
			next = int(hdr.HashChain())
		}
	}
	return entries, nil
}

// dirInsert threads childBlock onto the front of dirBlock's bucket
// chain for name's hash.
func (v *Volume) dirInsert(dirBlock int, childBlock int, name string) error {
	bucket := hashName(name)
	head, err := v.hashSlot(dirBlock, bucket)
	if err != nil {
		return err
	}
	child, err := v.readHeader(childBlock)
	if err != nil {
		return wrapErr(KindIO, "insert", name, err)
	}
	child.SetHashChain(uint32(head))
	child.updateChecksum()
	if err := v.writeHeader(child); err != nil {
		return wrapErr(KindIO, "insert", name, err)
	}
	return v.setHashSlot(dirBlock, bucket, childBlock)
}

// dirRemove unthreads childBlock from dirBlock's bucket chain for name,
// relinking the previous chain element (or the bucket head) to the
// removed entry's successor. The predecessor's on-disk representation
// stores hash_chain as a big-endian uint32 regardless of whether it sits
// in a root/header block's own field or the bucket-head slot; both paths
// go through the same word accessor here, avoiding the original's bug
// of writing the head slot back in host byte order.
func (v *Volume) dirRemove(dirBlock int, childBlock int, name string) error {
	bucket := hashName(name)
	head, err := v.hashSlot(dirBlock, bucket)
	if err != nil {
		return err
	}

	if head == childBlock {
		child, err := v.readHeader(childBlock)
		if err != nil {
			return wrapErr(KindIO, "remove", name, err)
		}
		return v.setHashSlot(dirBlock, bucket, int(child.HashChain()))
	}

	prev := head
	seen := map[int]bool{}
	for prev != 0 && !seen[prev] {
		seen[prev] = true
		prevHdr, err := v.readHeader(prev)
		if err != nil {
			return wrapErr(KindIO, "remove", name, err)
		}
		next := int(prevHdr.HashChain())
		if next == childBlock {
			child, err := v.readHeader(childBlock)
			if err != nil {
				return wrapErr(KindIO, "remove", name, err)
			}
			prevHdr.SetHashChain(child.HashChain())
			prevHdr.updateChecksum()
			return v.writeHeader(prevHdr)
		}
		prev = next
	}
	return newErr(KindNotFound, "remove", name)
}

// hashSlot reads bucket i of dirBlock, whether dirBlock is the root
// block or an ordinary directory header block.
func (v *Volume) hashSlot(dirBlock, i int) (int, error) {
	if dirBlock == v.rootBlockNum {
		root, err := v.readRoot()
		if err != nil {
			return 0, wrapErr(KindIO, "lookup", "", err)
		}
		return int(root.HashSlot(i)), nil
	}
	hdr, err := v.readHeader(dirBlock)
	if err != nil {
		return 0, wrapErr(KindIO, "lookup", "", err)
	}
	return int(hdr.HashSlot(i)), nil
}

// touchDir sets dirBlock's modified timestamp to now and refreshes its
// checksum. dirBlock may be the root block or an ordinary directory
// header.
func (v *Volume) touchDir(dirBlock int) error {
	days, mins, ticks := nowAmiga()
	if dirBlock == v.rootBlockNum {
		root, err := v.readRoot()
		if err != nil {
			return wrapErr(KindIO, "touch", "", err)
		}
		root.SetModTime(days, mins, ticks)
		root.updateChecksum()
		return v.writeRoot(root)
	}
	hdr, err := v.readHeader(dirBlock)
	if err != nil {
		return wrapErr(KindIO, "touch", "", err)
	}
	hdr.SetModTime(days, mins, ticks)
	hdr.updateChecksum()
	return v.writeHeader(hdr)
}

func (v *Volume) setHashSlot(dirBlock, i, block int) error {
	if dirBlock == v.rootBlockNum {
		root, err := v.readRoot()
		if err != nil {
			return wrapErr(KindIO, "update", "", err)
		}
		root.SetHashSlot(i, uint32(block))
		root.updateChecksum()
		return v.writeRoot(root)
	}
	hdr, err := v.readHeader(dirBlock)
	if err != nil {
		return wrapErr(KindIO, "update", "", err)
	}
	hdr.SetHashSlot(i, uint32(block))
	hdr.updateChecksum()
	return v.writeHeader(hdr)
}
