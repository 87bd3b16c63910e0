package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"

	canvasrenderer "github.com/JoquimMarques/flipdoc/renderer/canvas"
	fpdfrenderer "github.com/JoquimMarques/flipdoc/renderer/fpdf"
)

func TestOpenBackend(t *testing.T) {
	b, err := OpenBackend(BackendOptions{Name: "fpdf", Creator: "flipdoc"})
	require.NoError(t, err)
	assert.IsType(t, &fpdfrenderer.Renderer{}, b)

	path := filepath.Join(t.TempDir(), "mono.ttf")
	require.NoError(t, os.WriteFile(path, gomono.TTF, 0o644))
	b, err = OpenBackend(BackendOptions{Name: "canvas", Font: "Corpo", FontPath: path})
	require.NoError(t, err)
	assert.IsType(t, &canvasrenderer.Renderer{}, b)
	narrow, err := b.MeasureWidth("iiii", "Corpo", 10)
	require.NoError(t, err)
	wide, err := b.MeasureWidth("MMMM", "Corpo", 10)
	require.NoError(t, err)
	assert.InDelta(t, wide, narrow, 1e-6, "the configured monospaced face should be used")
}

func TestOpenBackendMissingFont(t *testing.T) {
	_, err := OpenBackend(BackendOptions{Name: "canvas", Font: "Corpo", FontPath: filepath.Join(t.TempDir(), "none.ttf")})
	assert.ErrorContains(t, err, "Corpo")

	_, err = OpenBackend(BackendOptions{Name: "postscript"})
	assert.Error(t, err)
}
