// file: pkg/adf/facade.go

package adf

import (
	"path"
	"strings"
)

// Attr is the metadata façade.GetAttr returns, host-neutral: no
// syscall types leak out of this package.
type Attr struct {
	Block   int
	IsDir   bool
	Size    int64
	ModTime int64 // Unix seconds
}

// Facade is the path-indexed operation surface consumed by a host
// binding. It wraps a Volume with a small directory-resolution cache,
// invalidated on every mutating operation.
type Facade struct {
	vol   *Volume
	cache map[string]int
}

// NewFacade wraps an already-open Volume.
func NewFacade(v *Volume) *Facade {
	return &Facade{vol: v, cache: make(map[string]int)}
}

func (f *Facade) invalidate() { f.cache = make(map[string]int) }

func cleanPath(p string) string {
	p = path.Clean("/" + p)
	return p
}

// resolve walks p component by component from the root block,
// consulting and populating the lookup cache along the way.
func (f *Facade) resolve(op, p string) (int, error) {
	p = cleanPath(p)
	if p == "/" {
		return RootBlockNum, nil
	}
	if block, ok := f.cache[p]; ok {
		return block, nil
	}
	dir, name := path.Split(p)
	parentBlock, err := f.resolveDir(op, dir)
	if err != nil {
		return 0, err
	}
	block, err := f.vol.dirLookup(parentBlock, name)
	if err != nil {
		return 0, err
	}
	if block == 0 {
		return 0, newErr(KindNotFound, op, p)
	}
	f.cache[p] = block
	return block, nil
}

func (f *Facade) resolveDir(op, dir string) (int, error) {
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" {
		return RootBlockNum, nil
	}
	block, err := f.resolve(op, dir)
	if err != nil {
		return 0, err
	}
	hdr, err := f.vol.readHeader(block)
	if err != nil {
		return 0, wrapErr(KindIO, op, dir, err)
	}
	if hdr.SecType() != SecTypeDir && hdr.SecType() != SecTypeRoot {
		return 0, newErr(KindNotDir, op, dir)
	}
	return block, nil
}

func splitParent(p string) (parent, name string) {
	p = cleanPath(p)
	dir, base := path.Split(p)
	return strings.TrimSuffix(dir, "/"), base
}

// GetAttr resolves p and returns its metadata.
func (f *Facade) GetAttr(p string) (Attr, error) {
	block, err := f.resolve("getattr", p)
	if err != nil {
		return Attr{}, err
	}
	if block == RootBlockNum {
		root, err := f.vol.readRoot()
		if err != nil {
			return Attr{}, wrapErr(KindIO, "getattr", p, err)
		}
		days, mins, ticks := root.ModTime()
		return Attr{Block: block, IsDir: true, ModTime: amigaToUnix(days, mins, ticks)}, nil
	}
	hdr, err := f.vol.readHeader(block)
	if err != nil {
		return Attr{}, wrapErr(KindIO, "getattr", p, err)
	}
	days, mins, ticks := hdr.ModTime()
	isDir := hdr.SecType() == SecTypeDir
	size := int64(0)
	if !isDir {
		size = int64(hdr.FileSize())
	}
	return Attr{Block: block, IsDir: isDir, Size: size, ModTime: amigaToUnix(days, mins, ticks)}, nil
}

// List returns "." and ".." followed by every child of directory p.
func (f *Facade) List(p string) ([]DirEntry, error) {
	block, err := f.resolve("readdir", p)
	if err != nil {
		return nil, err
	}
	hdr, err := f.attrKindAt(block)
	if err != nil {
		return nil, err
	}
	if hdr != SecTypeDir && hdr != SecTypeRoot {
		return nil, newErr(KindNotDir, "readdir", p)
	}
	entries, err := f.vol.dirList(block)
	if err != nil {
		return nil, wrapErr(KindIO, "readdir", p, err)
	}
	out := make([]DirEntry, 0, len(entries)+2)
	out = append(out, DirEntry{Block: block, Name: ".", IsDir: true})
	out = append(out, DirEntry{Block: block, Name: "..", IsDir: true})
	out = append(out, entries...)
	return out, nil
}

func (f *Facade) attrKindAt(block int) (int32, error) {
	if block == RootBlockNum {
		return SecTypeRoot, nil
	}
	hdr, err := f.vol.readHeader(block)
	if err != nil {
		return 0, wrapErr(KindIO, "stat", "", err)
	}
	return hdr.SecType(), nil
}

// Open resolves p to its header block number, used as an opaque handle
// by the host binding. write requests are rejected on a read-only
// volume; directories cannot be opened for I/O.
func (f *Facade) Open(p string, write bool) (int, error) {
	block, err := f.resolve("open", p)
	if err != nil {
		return 0, err
	}
	kind, err := f.attrKindAt(block)
	if err != nil {
		return 0, err
	}
	if kind == SecTypeDir || kind == SecTypeRoot {
		return 0, newErr(KindIsDir, "open", p)
	}
	if write && f.vol.readOnly {
		return 0, newErr(KindReadOnly, "open", p)
	}
	return block, nil
}

// Read reads n bytes at offset off from the file identified by handle.
func (f *Facade) Read(handle int, off int64, n int) ([]byte, error) {
	return f.vol.readFile(handle, off, n)
}

// Write writes buf at offset off into the file identified by handle.
func (f *Facade) Write(handle int, buf []byte, off int64) (int, error) {
	if f.vol.readOnly {
		return 0, newErr(KindReadOnly, "write", "")
	}
	n, err := f.vol.writeFile(handle, buf, off)
	if n > 0 {
		f.invalidate()
	}
	return n, err
}

// Create makes a new, empty file at p.
func (f *Facade) Create(p string) (int, error) {
	return f.createEntry(p, SecTypeFile)
}

// Mkdir makes a new, empty directory at p.
func (f *Facade) Mkdir(p string) (int, error) {
	return f.createEntry(p, SecTypeDir)
}

func (f *Facade) createEntry(p string, secType int32) (int, error) {
	if f.vol.readOnly {
		return 0, newErr(KindReadOnly, "create", p)
	}
	parentPath, name := splitParent(p)
	if len(name) > MaxNameLen {
		return 0, newErr(KindNameTooLong, "create", p)
	}
	if name == "" {
		return 0, newErr(KindNotFound, "create", p)
	}
	parentBlock, err := f.resolveDir("create", parentPath+"/")
	if err != nil {
		return 0, err
	}
	existing, err := f.vol.dirLookup(parentBlock, name)
	if err != nil {
		return 0, err
	}
	if existing != 0 {
		return 0, newErr(KindExists, "create", p)
	}

	block, err := f.vol.allocate("create")
	if err != nil {
		return 0, err
	}
	raw, err := f.vol.readRaw(block)
	if err != nil {
		return 0, wrapErr(KindIO, "create", p, err)
	}
	hdr := newHeaderBlock(raw)
	hdr.SetType(TypeHeader)
	hdr.SetHeaderKey(uint32(block))
	hdr.SetSecType(secType)
	hdr.SetParent(uint32(parentBlock))
	hdr.SetName(name)
	hdr.SetFileSize(0)
	hdr.SetFirstData(0)
	days, mins, ticks := nowAmiga()
	hdr.SetModTime(days, mins, ticks)
	hdr.updateChecksum()
	if err := f.vol.writeHeader(hdr); err != nil {
		return 0, wrapErr(KindIO, "create", p, err)
	}

	if err := f.vol.dirInsert(parentBlock, block, name); err != nil {
		return 0, wrapErr(KindIO, "create", p, err)
	}
	if err := f.vol.touchDir(parentBlock); err != nil {
		return 0, wrapErr(KindIO, "create", p, err)
	}
	f.invalidate()
	return block, nil
}

// Unlink removes the file at p, freeing its data chain and header.
func (f *Facade) Unlink(p string) error {
	if f.vol.readOnly {
		return newErr(KindReadOnly, "unlink", p)
	}
	block, err := f.resolve("unlink", p)
	if err != nil {
		return err
	}
	hdr, err := f.vol.readHeader(block)
	if err != nil {
		return wrapErr(KindIO, "unlink", p, err)
	}
	if hdr.SecType() != SecTypeFile {
		return newErr(KindIsDir, "unlink", p)
	}
	parentPath, name := splitParent(p)
	parentBlock, err := f.resolveDir("unlink", parentPath+"/")
	if err != nil {
		return err
	}
	if err := f.vol.dirRemove(parentBlock, block, name); err != nil {
		return wrapErr(KindIO, "unlink", p, err)
	}
	if err := f.vol.freeChain(int(hdr.FirstData())); err != nil {
		return err
	}
	if err := f.vol.freeBlock("unlink", block); err != nil {
		return err
	}
	if err := f.vol.touchDir(parentBlock); err != nil {
		return wrapErr(KindIO, "unlink", p, err)
	}
	f.invalidate()
	return nil
}

// Rmdir removes the empty directory at p. Rejects the root and
// non-empty directories.
func (f *Facade) Rmdir(p string) error {
	if f.vol.readOnly {
		return newErr(KindReadOnly, "rmdir", p)
	}
	block, err := f.resolve("rmdir", p)
	if err != nil {
		return err
	}
	if block == RootBlockNum {
		return newErr(KindInvalidArg, "rmdir", p)
	}
	hdr, err := f.vol.readHeader(block)
	if err != nil {
		return wrapErr(KindIO, "rmdir", p, err)
	}
	if hdr.SecType() != SecTypeDir {
		return newErr(KindNotDir, "rmdir", p)
	}
	for i := 0; i < HashTableSize; i++ {
		if hdr.HashSlot(i) != 0 {
			return newErr(KindNotEmpty, "rmdir", p)
		}
	}
	parentPath, name := splitParent(p)
	parentBlock, err := f.resolveDir("rmdir", parentPath+"/")
	if err != nil {
		return err
	}
	if err := f.vol.dirRemove(parentBlock, block, name); err != nil {
		return wrapErr(KindIO, "rmdir", p, err)
	}
	if err := f.vol.freeBlock("rmdir", block); err != nil {
		return err
	}
	if err := f.vol.touchDir(parentBlock); err != nil {
		return wrapErr(KindIO, "rmdir", p, err)
	}
	f.invalidate()
	return nil
}

// Truncate resizes the file at p.
func (f *Facade) Truncate(p string, size int64) error {
	if f.vol.readOnly {
		return newErr(KindReadOnly, "truncate", p)
	}
	block, err := f.resolve("truncate", p)
	if err != nil {
		return err
	}
	if err := f.vol.truncateFile(block, size); err != nil {
		return err
	}
	f.invalidate()
	return nil
}

// Flush forces the backing image to durable storage.
func (f *Facade) Flush() error { return f.vol.Flush() }

// Close flushes (if writable) and releases the volume.
func (f *Facade) Close() error { return f.vol.Close() }

// Volume exposes the underlying volume for callers (e.g. info/check
// tooling) that need read-only introspection beyond the façade's
// path-oriented surface.
func (f *Facade) Volume() *Volume { return f.vol }
