// file: cmd/adfvol/internal/mkrm/mkrm.go

// Package mkrm implements the mkdir and rmdir verbs. They're small and
// symmetrical enough to share one package and one open/flush helper.
package mkrm

import (
	"fmt"

	"github.com/amigafs/adfvol/pkg/adf"
)

// Mkdir creates adfPath as a new, empty directory.
func Mkdir(imagePath, adfPath string) error {
	return withWritableFacade(imagePath, func(f *adf.Facade) error {
		if _, err := f.Mkdir(adfPath); err != nil {
			return fmt.Errorf("mkdir %s: %w", adfPath, err)
		}
		return nil
	})
}

// Rmdir removes the empty directory at adfPath.
func Rmdir(imagePath, adfPath string) error {
	return withWritableFacade(imagePath, func(f *adf.Facade) error {
		if err := f.Rmdir(adfPath); err != nil {
			return fmt.Errorf("rmdir %s: %w", adfPath, err)
		}
		return nil
	})
}

func withWritableFacade(imagePath string, fn func(*adf.Facade) error) error {
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
	if err := fn(facade); err != nil {
		return err
	}
	return facade.Flush()
}
