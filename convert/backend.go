package convert

import (
	"github.com/JoquimMarques/flipdoc/renderer"
	canvasrenderer "github.com/JoquimMarques/flipdoc/renderer/canvas"
	fpdfrenderer "github.com/JoquimMarques/flipdoc/renderer/fpdf"
)

// BackendOptions selects and configures a render backend.
type BackendOptions struct {
	Name    string // fpdf or canvas
	Creator string
	// Font and FontPath replace the face used for Font on the canvas backend.
	Font     string
	FontPath string
}

// OpenBackend builds the named backend with options. Names other than the two built-in backends
// go through the renderer registry without options.
func OpenBackend(o BackendOptions) (renderer.Backend, error) {
	switch o.Name {
	case fpdfrenderer.Name:
		return fpdfrenderer.NewWithOptions(fpdfrenderer.Options{Creator: o.Creator}), nil
	case canvasrenderer.Name:
		opts := canvasrenderer.Options{Creator: o.Creator}
		if o.FontPath != "" && o.Font != "" {
			opts.Fonts = map[string]canvasrenderer.Resource{o.Font: {Path: o.FontPath}}
		}
		return canvasrenderer.NewRendererWithOptions(opts)
	default:
		return renderer.Open(o.Name)
	}
}
