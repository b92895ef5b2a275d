// file: cmd/adfvol/internal/mount/mount.go

package mount

import (
	"fmt"

	"github.com/amigafs/adfvol/pkg/adf"
	"github.com/amigafs/adfvol/pkg/adffuse"
)

// MountOptions configures Mount.
type MountOptions struct {
	ReadWrite bool
	Debug     bool
}

// DefaultMountOptions returns default options for Mount.
func DefaultMountOptions() *MountOptions {
	return &MountOptions{ReadWrite: false, Debug: false}
}

// Mount attaches imagePath at mountpoint and blocks until unmounted,
// flushing on exit for read-write mounts.
func Mount(imagePath, mountpoint string, opts *MountOptions) error {
	if opts == nil {
		opts = DefaultMountOptions()
	}

	img, readOnly, err := adf.OpenFileImage(imagePath, opts.ReadWrite)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer img.Close()

	vol, err := adf.Open(img, readOnly)
	if err != nil {
		return fmt.Errorf("parse volume: %w", err)
	}

	facade := adf.NewFacade(vol)
	server, err := adffuse.Mount(facade, mountpoint, opts.Debug)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	server.Wait()
	return facade.Close()
}
