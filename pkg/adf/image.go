// file: pkg/adf/image.go

package adf

import (
	"fmt"
	"os"
)

// Image is a fixed-size, randomly-addressable array of bytes whose
// length is a multiple of BlockSize. It is the core's only downward
// dependency: whether the bytes live in a file, a memory mapping, or a
// plain buffer is a choice made by the caller of Open, not by the core.
type Image interface {
	// ReadBlock returns the contents of block n.
	ReadBlock(n int) ([BlockSize]byte, error)
	// WriteBlock overwrites block n with b.
	WriteBlock(n int, b [BlockSize]byte) error
	// Blocks returns the total number of addressable blocks.
	Blocks() int
	// Flush forces any buffered writes to durable storage.
	Flush() error
	// Close releases resources backing the image.
	Close() error
}

// MemImage is a flat in-memory Image, used by tests; Bytes exposes its
// buffer to callers that persist it themselves.
type MemImage struct {
	data []byte
}

// NewMemImage allocates a zero-filled image of the given block count.
func NewMemImage(blocks int) *MemImage {
	return &MemImage{data: make([]byte, blocks*BlockSize)}
}

// NewMemImageFromBytes wraps an existing byte slice whose length must be
// a multiple of BlockSize.
func NewMemImageFromBytes(b []byte) (*MemImage, error) {
	if len(b)%BlockSize != 0 {
		return nil, fmt.Errorf("adf: image length %d is not a multiple of %d", len(b), BlockSize)
	}
	return &MemImage{data: b}, nil
}

func (m *MemImage) Blocks() int { return len(m.data) / BlockSize }

func (m *MemImage) ReadBlock(n int) ([BlockSize]byte, error) {
	var out [BlockSize]byte
	if n < 0 || n >= m.Blocks() {
		return out, fmt.Errorf("adf: block %d out of range [0,%d)", n, m.Blocks())
	}
	copy(out[:], m.data[n*BlockSize:(n+1)*BlockSize])
	return out, nil
}

func (m *MemImage) WriteBlock(n int, b [BlockSize]byte) error {
	if n < 0 || n >= m.Blocks() {
		return fmt.Errorf("adf: block %d out of range [0,%d)", n, m.Blocks())
	}
	copy(m.data[n*BlockSize:(n+1)*BlockSize], b[:])
	return nil
}

func (m *MemImage) Flush() error { return nil }
func (m *MemImage) Close() error { return nil }

// Bytes returns the underlying buffer, for callers that want to persist
// a MemImage themselves (e.g. writing it to a file after formatting).
func (m *MemImage) Bytes() []byte { return m.data }

// FileImage backs an Image with pread/pwrite against an *os.File,
// rather than mapping the whole file into memory.
type FileImage struct {
	f      *os.File
	blocks int
}

// OpenFileImage opens path for the image, preferring read/write and
// falling back to read-only when the open is denied for permission
// reasons. It reports which mode it ended up in via readOnly.
func OpenFileImage(path string, wantWrite bool) (img *FileImage, readOnly bool, err error) {
	flag := os.O_RDONLY
	if wantWrite {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil && wantWrite && os.IsPermission(err) {
		f, err = os.OpenFile(path, os.O_RDONLY, 0)
		readOnly = true
	} else {
		readOnly = !wantWrite
	}
	if err != nil {
		return nil, false, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, false, err
	}
	if st.Size()%BlockSize != 0 {
		f.Close()
		return nil, false, fmt.Errorf("adf: %s length %d is not a multiple of %d", path, st.Size(), BlockSize)
	}
	return &FileImage{f: f, blocks: int(st.Size() / BlockSize)}, readOnly, nil
}

// CreateFileImage creates a new file of the given block count, zero
// filled, and returns a writable FileImage over it.
func CreateFileImage(path string, blocks int) (*FileImage, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(blocks) * BlockSize); err != nil {
		f.Close()
		return nil, err
	}
	return &FileImage{f: f, blocks: blocks}, nil
}

func (fi *FileImage) Blocks() int { return fi.blocks }

func (fi *FileImage) ReadBlock(n int) ([BlockSize]byte, error) {
	var out [BlockSize]byte
	if n < 0 || n >= fi.blocks {
		return out, fmt.Errorf("adf: block %d out of range [0,%d)", n, fi.blocks)
	}
	_, err := fi.f.ReadAt(out[:], int64(n)*BlockSize)
	return out, err
}

func (fi *FileImage) WriteBlock(n int, b [BlockSize]byte) error {
	if n < 0 || n >= fi.blocks {
		return fmt.Errorf("adf: block %d out of range [0,%d)", n, fi.blocks)
	}
	_, err := fi.f.WriteAt(b[:], int64(n)*BlockSize)
	return err
}

func (fi *FileImage) Flush() error { return fi.f.Sync() }
func (fi *FileImage) Close() error { return fi.f.Close() }
