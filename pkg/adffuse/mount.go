// file: pkg/adffuse/mount.go

package adffuse

import (
	"github.com/amigafs/adfvol/pkg/adf"
	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// Mount attaches facade at mountpoint. The returned server is already
// serving; call Wait on it to block until unmount.
func Mount(facade *adf.Facade, mountpoint string, debug bool) (*fuse.Server, error) {
	root := NewRoot(facade)
	opts := &fs.Options{
		MountOptions: fuse.MountOptions{
			Debug:      debug,
			FsName:     "adfvol",
			Name:       "adf",
			AllowOther: false,
		},
	}
	server, err := fs.Mount(mountpoint, root, opts)
	if err != nil {
		return nil, err
	}
	return server, nil
}
