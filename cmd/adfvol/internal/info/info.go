// file: cmd/adfvol/internal/info/info.go

package info

import (
	"fmt"

	"github.com/amigafs/adfvol/pkg/adf"
)

// VolumeInfo is the structured result of Info.
type VolumeInfo struct {
	Path       string
	Name       string
	FFS        bool
	TotalBytes int64
	FreeBytes  int64
	UsedBytes  int64
	Blocks     int
	FreeBlocks int
	UsedBlocks int
}

// InfoOptions configures Info.
type InfoOptions struct {
	Validate bool // run the consistency checker and report findings
}

// DefaultInfoOptions returns default options for Info.
func DefaultInfoOptions() *InfoOptions {
	return &InfoOptions{Validate: true}
}

// Info opens path read-only and reports volume-level statistics, plus
// any consistency findings if requested.
func Info(path string, opts *InfoOptions) (*VolumeInfo, []error, error) {
	if opts == nil {
		opts = DefaultInfoOptions()
	}

	img, _, err := adf.OpenFileImage(path, false)
	if err != nil {
		return nil, nil, fmt.Errorf("open image: %w", err)
	}
	defer img.Close()

	vol, err := adf.Open(img, true)
	if err != nil {
		return nil, nil, fmt.Errorf("parse volume: %w", err)
	}
	defer vol.Close()

	vi := &VolumeInfo{
		Path:       path,
		Name:       vol.Name(),
		FFS:        vol.FFS(),
		Blocks:     vol.Blocks(),
		FreeBlocks: vol.FreeBlocks(),
		UsedBlocks: vol.UsedBlocks(),
		TotalBytes: int64(vol.Blocks()) * adf.BlockSize,
		FreeBytes:  int64(vol.FreeBlocks()) * adf.BlockSize,
		UsedBytes:  int64(vol.UsedBlocks()) * adf.BlockSize,
	}

	var findings []error
	if opts.Validate {
		findings = adf.Check(vol)
	}
	return vi, findings, nil
}
