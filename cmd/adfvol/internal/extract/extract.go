// file: cmd/adfvol/internal/extract/extract.go

package extract

import (
	"fmt"
	"os"

	"github.com/amigafs/adfvol/pkg/adf"
)

// ExtractOptions configures Extract.
type ExtractOptions struct {
	ChunkSize int
}

// DefaultExtractOptions returns default options for Extract.
func DefaultExtractOptions() *ExtractOptions {
	return &ExtractOptions{ChunkSize: 32 * 1024}
}

// Extract exports adfPath from the image to hostPath via chunked Read.
func Extract(imagePath, adfPath, hostPath string, opts *ExtractOptions) error {
	if opts == nil {
		opts = DefaultExtractOptions()
	}
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = 32 * 1024
	}

	img, _, err := adf.OpenFileImage(imagePath, false)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer img.Close()

	vol, err := adf.Open(img, true)
	if err != nil {
		return fmt.Errorf("parse volume: %w", err)
	}
	defer vol.Close()

	facade := adf.NewFacade(vol)
	handle, err := facade.Open(adfPath, false)
	if err != nil {
		return fmt.Errorf("open %s: %w", adfPath, err)
	}
	attr, err := facade.GetAttr(adfPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", adfPath, err)
	}

	dst, err := os.Create(hostPath)
	if err != nil {
		return fmt.Errorf("create host file: %w", err)
	}
	defer dst.Close()

	var offset int64
	for offset < attr.Size {
		n := chunk
		if remaining := attr.Size - offset; int64(n) > remaining {
			n = int(remaining)
		}
		data, err := facade.Read(handle, offset, n)
		if err != nil {
			return fmt.Errorf("read %s at %d: %w", adfPath, offset, err)
		}
		if _, err := dst.Write(data); err != nil {
			return fmt.Errorf("write host file: %w", err)
		}
		offset += int64(len(data))
		if len(data) == 0 {
			break
		}
	}
	return nil
}
