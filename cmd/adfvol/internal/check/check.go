// file: cmd/adfvol/internal/check/check.go

package check

import (
	"fmt"

	"github.com/amigafs/adfvol/pkg/adf"
)

// Check opens path read-only and runs the consistency checker,
// returning every finding.
func Check(path string) ([]error, error) {
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

	return adf.Check(vol), nil
}
