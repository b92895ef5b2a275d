// file: cmd/adfvol/internal/create/create.go

package create

import (
	"fmt"

	"github.com/amigafs/adfvol/pkg/adf"
)

// CreateOptions configures Create.
type CreateOptions struct {
	Blocks int    // total blocks in the new image; 0 means adf.DDBlocks
	Name   string // volume label
	FFS    bool   // format as FFS instead of OFS
}

// DefaultCreateOptions returns default options for Create.
func DefaultCreateOptions() *CreateOptions {
	return &CreateOptions{
		Blocks: adf.DDBlocks,
		Name:   "Empty",
		FFS:    false,
	}
}

// Create writes a freshly formatted, empty image to path.
func Create(path string, opts *CreateOptions) error {
	if opts == nil {
		opts = DefaultCreateOptions()
	}
	blocks := opts.Blocks
	if blocks == 0 {
		blocks = adf.DDBlocks
	}

	img, err := adf.CreateFileImage(path, blocks)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	defer img.Close()

	if err := adf.Format(img, opts.Name, opts.FFS); err != nil {
		return fmt.Errorf("format image: %w", err)
	}
	return nil
}
