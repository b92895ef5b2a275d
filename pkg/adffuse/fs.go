// file: pkg/adffuse/fs.go

package adffuse

import (
	"context"
	"sync"
	"syscall"

	"github.com/amigafs/adfvol/pkg/adf"
	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// Root mounts a façade at the filesystem root. Every call into the
// core must be serialised; mu is held for the duration of each
// façade call, the minimal serialisation the design leaves to the host
// binding.
type Root struct {
	fs.Inode

	facade *adf.Facade
	mu     *sync.Mutex
}

// NewRoot builds the go-fuse root node for facade.
func NewRoot(facade *adf.Facade) *Root {
	return &Root{facade: facade, mu: &sync.Mutex{}}
}

var _ fs.InodeEmbedder = (*Root)(nil)

// node is every non-root inode: a path segment resolved lazily against
// the façade rather than cached as a tree, since the façade already
// keeps its own directory-block cache.
type node struct {
	fs.Inode

	facade *adf.Facade
	mu     *sync.Mutex
	path   string
}

var (
	_ fs.NodeGetattrer = (*node)(nil)
	_ fs.NodeLookuper  = (*node)(nil)
	_ fs.NodeReaddirer = (*node)(nil)
	_ fs.NodeOpener    = (*node)(nil)
	_ fs.NodeReader    = (*node)(nil)
	_ fs.NodeWriter    = (*node)(nil)
	_ fs.NodeCreater   = (*node)(nil)
	_ fs.NodeUnlinker  = (*node)(nil)
	_ fs.NodeMkdirer   = (*node)(nil)
	_ fs.NodeRmdirer   = (*node)(nil)
	_ fs.NodeSetattrer = (*node)(nil)
	_ fs.NodeFlusher   = (*node)(nil)
	_ fs.NodeFsyncer   = (*node)(nil)
)

func childPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

func attrToFuse(a adf.Attr, out *fuse.Attr) {
	out.Size = uint64(a.Size)
	out.Mtime = uint64(a.ModTime)
	if a.IsDir {
		out.Mode = fuse.S_IFDIR | 0755
	} else {
		out.Mode = fuse.S_IFREG | 0644
	}
}

func (r *Root) OnAdd(ctx context.Context) {}

func (r *Root) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.facade.GetAttr("/")
	if err != nil {
		return toErrno(err)
	}
	attrToFuse(a, &out.Attr)
	return fs.OK
}

func (r *Root) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	return lookupChild(&r.Inode, r.facade, r.mu, "/", name, out)
}

func (r *Root) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	return readdirAt(r.facade, r.mu, "/")
}

func (r *Root) Mkdir(ctx context.Context, name string, mode uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	return mkdirAt(&r.Inode, r.facade, r.mu, "/", name, out)
}

func (r *Root) Create(ctx context.Context, name string, flags uint32, mode uint32, out *fuse.EntryOut) (*fs.Inode, fs.FileHandle, uint32, syscall.Errno) {
	return createAt(&r.Inode, r.facade, r.mu, "/", name, out)
}

func (r *Root) Unlink(ctx context.Context, name string) syscall.Errno {
	return unlinkAt(r.facade, r.mu, "/", name)
}

func (r *Root) Rmdir(ctx context.Context, name string) syscall.Errno {
	return rmdirAt(r.facade, r.mu, "/", name)
}

func lookupChild(parent *fs.Inode, facade *adf.Facade, mu *sync.Mutex, dir, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	mu.Lock()
	defer mu.Unlock()
	p := childPath(dir, name)
	a, err := facade.GetAttr(p)
	if err != nil {
		return nil, toErrno(err)
	}
	attrToFuse(a, &out.Attr)
	child := &node{facade: facade, mu: mu, path: p}
	mode := uint32(fuse.S_IFREG)
	if a.IsDir {
		mode = fuse.S_IFDIR
	}
	return parent.NewInode(context.Background(), child, fs.StableAttr{Mode: mode, Ino: uint64(a.Block)}), fs.OK
}

func readdirAt(facade *adf.Facade, mu *sync.Mutex, dir string) (fs.DirStream, syscall.Errno) {
	mu.Lock()
	defer mu.Unlock()
	entries, err := facade.List(dir)
	if err != nil {
		return nil, toErrno(err)
	}
	list := make([]fuse.DirEntry, 0, len(entries))
	for _, e := range entries {
		mode := uint32(fuse.S_IFREG)
		if e.IsDir {
			mode = fuse.S_IFDIR
		}
		list = append(list, fuse.DirEntry{Name: e.Name, Mode: mode, Ino: uint64(e.Block)})
	}
	return fs.NewListDirStream(list), fs.OK
}

func mkdirAt(parent *fs.Inode, facade *adf.Facade, mu *sync.Mutex, dir, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	mu.Lock()
	defer mu.Unlock()
	p := childPath(dir, name)
	block, err := facade.Mkdir(p)
	if err != nil {
		return nil, toErrno(err)
	}
	a, err := facade.GetAttr(p)
	if err != nil {
		return nil, toErrno(err)
	}
	attrToFuse(a, &out.Attr)
	child := &node{facade: facade, mu: mu, path: p}
	return parent.NewInode(context.Background(), child, fs.StableAttr{Mode: fuse.S_IFDIR, Ino: uint64(block)}), fs.OK
}

func createAt(parent *fs.Inode, facade *adf.Facade, mu *sync.Mutex, dir, name string, out *fuse.EntryOut) (*fs.Inode, fs.FileHandle, uint32, syscall.Errno) {
	mu.Lock()
	defer mu.Unlock()
	p := childPath(dir, name)
	block, err := facade.Create(p)
	if err != nil {
		return nil, nil, 0, toErrno(err)
	}
	a, err := facade.GetAttr(p)
	if err != nil {
		return nil, nil, 0, toErrno(err)
	}
	attrToFuse(a, &out.Attr)
	child := &node{facade: facade, mu: mu, path: p}
	inode := parent.NewInode(context.Background(), child, fs.StableAttr{Mode: fuse.S_IFREG, Ino: uint64(block)})
	return inode, nil, 0, fs.OK
}

func unlinkAt(facade *adf.Facade, mu *sync.Mutex, dir, name string) syscall.Errno {
	mu.Lock()
	defer mu.Unlock()
	return toErrno(facade.Unlink(childPath(dir, name)))
}

func rmdirAt(facade *adf.Facade, mu *sync.Mutex, dir, name string) syscall.Errno {
	mu.Lock()
	defer mu.Unlock()
	return toErrno(facade.Rmdir(childPath(dir, name)))
}

func (n *node) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	n.mu.Lock()
	defer n.mu.Unlock()
	a, err := n.facade.GetAttr(n.path)
	if err != nil {
		return toErrno(err)
	}
	attrToFuse(a, &out.Attr)
	return fs.OK
}

func (n *node) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	return lookupChild(&n.Inode, n.facade, n.mu, n.path, name, out)
}

func (n *node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	return readdirAt(n.facade, n.mu, n.path)
}

func (n *node) Mkdir(ctx context.Context, name string, mode uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	return mkdirAt(&n.Inode, n.facade, n.mu, n.path, name, out)
}

func (n *node) Create(ctx context.Context, name string, flags uint32, mode uint32, out *fuse.EntryOut) (*fs.Inode, fs.FileHandle, uint32, syscall.Errno) {
	return createAt(&n.Inode, n.facade, n.mu, n.path, name, out)
}

func (n *node) Unlink(ctx context.Context, name string) syscall.Errno {
	return unlinkAt(n.facade, n.mu, n.path, name)
}

func (n *node) Rmdir(ctx context.Context, name string) syscall.Errno {
	return rmdirAt(n.facade, n.mu, n.path, name)
}

func (n *node) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	n.mu.Lock()
	defer n.mu.Unlock()
	write := flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0
	if _, err := n.facade.Open(n.path, write); err != nil {
		return nil, 0, toErrno(err)
	}
	return nil, 0, fs.OK
}

func (n *node) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	n.mu.Lock()
	defer n.mu.Unlock()
	block, err := n.facade.Open(n.path, false)
	if err != nil {
		return nil, toErrno(err)
	}
	data, err := n.facade.Read(block, off, len(dest))
	if err != nil {
		return nil, toErrno(err)
	}
	return fuse.ReadResultData(data), fs.OK
}

func (n *node) Write(ctx context.Context, f fs.FileHandle, data []byte, off int64) (uint32, syscall.Errno) {
	n.mu.Lock()
	defer n.mu.Unlock()
	block, err := n.facade.Open(n.path, true)
	if err != nil {
		return 0, toErrno(err)
	}
	written, err := n.facade.Write(block, data, off)
	if err != nil && written == 0 {
		return 0, toErrno(err)
	}
	return uint32(written), fs.OK
}

func (n *node) Setattr(ctx context.Context, f fs.FileHandle, in *fuse.SetAttrIn, out *fuse.AttrOut) syscall.Errno {
	n.mu.Lock()
	defer n.mu.Unlock()
	if size, ok := in.GetSize(); ok {
		if err := n.facade.Truncate(n.path, int64(size)); err != nil {
			return toErrno(err)
		}
	}
	a, err := n.facade.GetAttr(n.path)
	if err != nil {
		return toErrno(err)
	}
	attrToFuse(a, &out.Attr)
	return fs.OK
}

func (n *node) Flush(ctx context.Context, f fs.FileHandle) syscall.Errno {
	n.mu.Lock()
	defer n.mu.Unlock()
	return toErrno(n.facade.Flush())
}

func (n *node) Fsync(ctx context.Context, f fs.FileHandle, flags uint32) syscall.Errno {
	n.mu.Lock()
	defer n.mu.Unlock()
	return toErrno(n.facade.Flush())
}
