package visualize

import (
	"github.com/guptarohit/asciigraph"

	"github.com/manabi-ml/manabi/pkg/errors"
)

// TerminalCurve renders values as an ASCII line chart for CLI output.
// Non-positive width or height fall back to 60x10.
func TerminalCurve(values []float64, caption string, width, height int) (string, error) {
	if len(values) == 0 {
		return "", errors.NewModelError("visualize.TerminalCurve", "empty data", errors.ErrEmptyData)
	}
	if width <= 0 {
		width = 60
	}
	if height <= 0 {
		height = 10
	}

	return asciigraph.Plot(values,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	), nil
}
