// file: pkg/adf/fileio.go

package adf

// readFile implements the sparse-aware read of a file's data-block
// chain. It never fails on a hole: a data block missing entirely, or
// shorter than the full 488-byte stride, yields zeros for the
// remainder of its stride.
func (v *Volume) readFile(fileBlock int, offset int64, n int) ([]byte, error) {
	hdr, err := v.readHeader(fileBlock)
	if err != nil {
		return nil, wrapErr(KindIO, "read", "", err)
	}
	size := int64(hdr.FileSize())
	if offset >= size {
		return []byte{}, nil
	}
	if offset+int64(n) > size {
		n = int(size - offset)
	}
	out := make([]byte, n)

	startBlock := int(offset / DataPayload)
	block := int(hdr.FirstData())
	for i := 0; i < startBlock && block != 0; i++ {
		db, err := v.readData(block)
		if err != nil {
			return nil, wrapErr(KindIO, "read", "", err)
		}
		block = int(db.NextData())
	}

	pos := offset
	written := 0
	for written < n {
		strideOff := int(pos % DataPayload)
		strideLen := DataPayload - strideOff
		if strideLen > n-written {
			strideLen = n - written
		}
		if block == 0 {
			// virtual hole: leave the zero-initialised slice as-is
		} else {
			db, err := v.readData(block)
			if err != nil {
				return nil, wrapErr(KindIO, "read", "", err)
			}
			payload := db.Payload()
			dataSize := int(db.DataSize())
			for i := 0; i < strideLen; i++ {
				srcOff := strideOff + i
				if srcOff < dataSize {
					out[written+i] = payload[srcOff]
				}
			}
			block = int(db.NextData())
		}
		written += strideLen
		pos += int64(strideLen)
	}
	return out, nil
}

// writeFile is the allocating, gap-bridging write of a file's data
// chain. It returns the number of bytes actually committed: on an
// allocation failure mid-write it stops and reports the partial count
// rather than rolling anything back.
func (v *Volume) writeFile(fileBlock int, buf []byte, offset int64) (int, error) {
	hdr, err := v.readHeader(fileBlock)
	if err != nil {
		return 0, wrapErr(KindIO, "write", "", err)
	}

	// file_size grows to cover the whole requested extent up front, per
	// the requested length rather than what ends up actually committed:
	// a mid-write allocation failure leaves the tail as an implicit
	// sparse hole instead of shrinking the file back to what was
	// written.
	requestedEnd := offset + int64(len(buf))
	if requestedEnd > int64(hdr.FileSize()) {
		hdr.SetFileSize(uint32(requestedEnd))
		hdr.updateChecksum()
		if err := v.writeHeader(hdr); err != nil {
			return 0, wrapErr(KindIO, "write", "", err)
		}
	}

	written := 0
	pos := offset
	block := int(hdr.FirstData())
	seq := uint32(1)
	prevBlock := 0

	targetIndex := int(offset / DataPayload)
	for idx := 0; idx < targetIndex; idx++ {
		if block == 0 {
			nb, aerr := v.allocateChained(fileBlock, prevBlock, seq)
			if aerr != nil {
				if ferr := v.touchFile(fileBlock); ferr != nil {
					return written, ferr
				}
				return written, aerr
			}
			block = nb
		}
		db, err := v.readData(block)
		if err != nil {
			return written, wrapErr(KindIO, "write", "", err)
		}
		prevBlock = block
		block = int(db.NextData())
		seq++
	}

	for written < len(buf) {
		if block == 0 {
			nb, err := v.allocateChained(fileBlock, prevBlock, seq)
			if err != nil {
				if ferr := v.touchFile(fileBlock); ferr != nil {
					return written, ferr
				}
				return written, err
			}
			block = nb
		}
		db, err := v.readData(block)
		if err != nil {
			return written, wrapErr(KindIO, "write", "", err)
		}
		strideOff := int(pos % DataPayload)
		strideLen := DataPayload - strideOff
		if strideLen > len(buf)-written {
			strideLen = len(buf) - written
		}
		payload := db.Payload()
		copy(payload[strideOff:strideOff+strideLen], buf[written:written+strideLen])
		newDataSize := strideOff + strideLen
		if int(db.DataSize()) > newDataSize {
			newDataSize = int(db.DataSize())
		}
		db.SetDataSize(uint32(newDataSize))
		db.updateChecksum()
		if err := v.writeData(block, db); err != nil {
			return written, wrapErr(KindIO, "write", "", err)
		}

		written += strideLen
		pos += int64(strideLen)
		prevBlock = block
		block = int(db.NextData())
		seq++
	}

	if err := v.touchFile(fileBlock); err != nil {
		return written, err
	}
	return written, nil
}

// allocateChained allocates a new data block, seq-numbers it, links it
// from prevBlock (or the file header's first_data if prevBlock is 0),
// and returns its block number.
func (v *Volume) allocateChained(fileBlock, prevBlock int, seq uint32) (int, error) {
	if seq > HashTableSize {
		return 0, newErr(KindNoSpace, "write", "")
	}
	n, err := v.allocate("write")
	if err != nil {
		return 0, err
	}
	db := newDataBlock(mustRaw(v, n))
	db.SetType(TypeData)
	db.SetHeaderKey(uint32(fileBlock))
	db.SetSeqNum(seq)
	db.SetDataSize(0)
	db.SetNextData(0)
	db.updateChecksum()
	if err := v.writeData(n, db); err != nil {
		return 0, wrapErr(KindIO, "write", "", err)
	}
	if prevBlock == 0 {
		hdr, err := v.readHeader(fileBlock)
		if err != nil {
			return 0, wrapErr(KindIO, "write", "", err)
		}
		hdr.SetFirstData(uint32(n))
		hdr.updateChecksum()
		if err := v.writeHeader(hdr); err != nil {
			return 0, wrapErr(KindIO, "write", "", err)
		}
	} else {
		prev, err := v.readData(prevBlock)
		if err != nil {
			return 0, wrapErr(KindIO, "write", "", err)
		}
		prev.SetNextData(uint32(n))
		prev.updateChecksum()
		if err := v.writeData(prevBlock, prev); err != nil {
			return 0, wrapErr(KindIO, "write", "", err)
		}
	}
	return n, nil
}

// touchFile refreshes a file header's modified timestamp and checksum.
// file_size is updated eagerly by writeFile itself before any block is
// touched, so this never adjusts it.
func (v *Volume) touchFile(fileBlock int) error {
	hdr, err := v.readHeader(fileBlock)
	if err != nil {
		return wrapErr(KindIO, "write", "", err)
	}
	days, mins, ticks := nowAmiga()
	hdr.SetModTime(days, mins, ticks)
	hdr.updateChecksum()
	return v.writeHeader(hdr)
}

// truncateFile sets a file's size. Shrinking frees the data blocks past
// the new end and trims the terminal block; growing only raises
// file_size, leaving the added range as a sparse hole that reads back as
// zeros.
func (v *Volume) truncateFile(fileBlock int, newSize int64) error {
	hdr, err := v.readHeader(fileBlock)
	if err != nil {
		return wrapErr(KindIO, "truncate", "", err)
	}
	cur := int64(hdr.FileSize())
	if newSize == cur {
		return nil
	}
	if newSize > cur {
		hdr.SetFileSize(uint32(newSize))
		days, mins, ticks := nowAmiga()
		hdr.SetModTime(days, mins, ticks)
		hdr.updateChecksum()
		return v.writeHeader(hdr)
	}

	blocksNeeded := 0
	if newSize > 0 {
		blocksNeeded = int((newSize + DataPayload - 1) / DataPayload)
	}

	if blocksNeeded == 0 {
		block := int(hdr.FirstData())
		if err := v.freeChain(block); err != nil {
			return err
		}
		hdr.SetFirstData(0)
	} else {
		block := int(hdr.FirstData())
		var last int
		for i := 0; i < blocksNeeded && block != 0; i++ {
			last = block
			db, err := v.readData(block)
			if err != nil {
				return wrapErr(KindIO, "truncate", "", err)
			}
			block = int(db.NextData())
		}
		if last != 0 {
			tail, err := v.readData(last)
			if err != nil {
				return wrapErr(KindIO, "truncate", "", err)
			}
			terminalSize := int(newSize % DataPayload)
			if terminalSize == 0 {
				terminalSize = DataPayload
			}
			if err := v.freeChain(int(tail.NextData())); err != nil {
				return err
			}
			tail.SetNextData(0)
			tail.SetDataSize(uint32(terminalSize))
			tail.updateChecksum()
			if err := v.writeData(last, tail); err != nil {
				return wrapErr(KindIO, "truncate", "", err)
			}
		}
	}

	hdr.SetFileSize(uint32(newSize))
	days, mins, ticks := nowAmiga()
	hdr.SetModTime(days, mins, ticks)
	hdr.updateChecksum()
	return v.writeHeader(hdr)
}

// freeChain frees every data block from block to the end of the chain.
func (v *Volume) freeChain(block int) error {
	seen := map[int]bool{}
	for block != 0 && !seen[block] {
		seen[block] = true
		db, err := v.readData(block)
		if err != nil {
			return wrapErr(KindIO, "truncate", "", err)
		}
		next := int(db.NextData())
		if err := v.freeBlock("truncate", block); err != nil {
			return err
		}
		block = next
	}
	return nil
}

// mustRaw reads a freshly-allocated block back as a rawBlock pointer.
// allocate() already zero-filled and wrote it, so this only re-reads
// what was just written.
func mustRaw(v *Volume, n int) *rawBlock {
	b, err := v.readRaw(n)
	if err != nil {
		var zero rawBlock
		return &zero
	}
	return b
}
