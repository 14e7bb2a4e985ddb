package playerbar

import (
	"fmt"

	"github.com/llehouerou/eqwaves/internal/icons"
)

// RenderVolume renders the output gain as a percentage.
// Format: "vol 100%"
func RenderVolume(volume float64) string {
	return fmt.Sprintf("%s %3d%%", icons.Volume(), int(volume*100+0.5))
}
