// file: cmd/adfvol/internal/list/list.go

package list

import (
	"fmt"
	"time"

	"github.com/amigafs/adfvol/pkg/adf"
)

// Entry is one directory listing row.
type Entry struct {
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// List opens path read-only and lists dir's children (excluding "."
// and "..").
func List(path, dir string) ([]Entry, error) {
	img, _, err := adf.OpenFileImage(path, false)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer img.Close()

	vol, err := adf.Open(img, true)
	if err != nil {
		return nil, fmt.Errorf("parse volume: %w", err)
	}
	defer vol.Close()

	facade := adf.NewFacade(vol)
	entries, err := facade.List(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		a, err := facade.GetAttr(dir + "/" + e.Name)
		if err != nil {
			continue
		}
		out = append(out, Entry{
			Name:    e.Name,
			IsDir:   e.IsDir,
			Size:    a.Size,
			ModTime: time.Unix(a.ModTime, 0).UTC(),
		})
	}
	return out, nil
}
