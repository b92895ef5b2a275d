// file: cmd/adfvol/internal/add/add.go

package add

import (
	"fmt"
	"io"
	"os"

	"github.com/amigafs/adfvol/pkg/adf"
)

// AddOptions configures Add.
type AddOptions struct {
	ChunkSize int // host-read chunk size; 0 means a sensible default
}

// DefaultAddOptions returns default options for Add.
func DefaultAddOptions() *AddOptions {
	return &AddOptions{ChunkSize: 32 * 1024}
}

// Add imports hostPath into the image at adfPath via Create followed by
// chunked Write.
func Add(imagePath, hostPath, adfPath string, opts *AddOptions) error {
	if opts == nil {
		opts = DefaultAddOptions()
	}
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = 32 * 1024
	}

	src, err := os.Open(hostPath)
	if err != nil {
		return fmt.Errorf("open host file: %w", err)
	}
	defer src.Close()

	img, readOnly, err := adf.OpenFileImage(imagePath, true)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer img.Close()

	vol, err := adf.Open(img, readOnly)
	if err != nil {
		return fmt.Errorf("parse volume: %w", err)
	}
	defer vol.Close()

	facade := adf.NewFacade(vol)
	handle, err := facade.Create(adfPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", adfPath, err)
	}

	buf := make([]byte, chunk)
	var offset int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			written, werr := facade.Write(handle, buf[:n], offset)
			if werr != nil {
				return fmt.Errorf("write %s at %d: %w", adfPath, offset, werr)
			}
			offset += int64(written)
			if written < n {
				return fmt.Errorf("write %s: disk full after %d bytes", adfPath, offset)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("read host file: %w", rerr)
		}
	}
	return facade.Flush()
}
