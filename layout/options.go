package layout

// Measurer reports the rendered width, in points, of text set in font at size points.
// Implementations must be deterministic and safe for concurrent use.
type Measurer interface {
	MeasureWidth(text, font string, size float64) (float64, error)
}

// MeasureFunc adapts a plain function to the Measurer interface.
type MeasureFunc func(text, font string, size float64) (float64, error)

// MeasureWidth calls f.
func (f MeasureFunc) MeasureWidth(text, font string, size float64) (float64, error) {
	return f(text, font, size)
}
