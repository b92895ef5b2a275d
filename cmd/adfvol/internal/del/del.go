// file: cmd/adfvol/internal/del/del.go

package del

import (
	"fmt"

	"github.com/amigafs/adfvol/pkg/adf"
)

// Delete unlinks adfPath from the image.
func Delete(imagePath, adfPath string) error {
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
	if err := facade.Unlink(adfPath); err != nil {
		return fmt.Errorf("unlink %s: %w", adfPath, err)
	}
	return facade.Flush()
}
