package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JoquimMarques/flipdoc/layout"
)

// Renderer serializes a laid-out document, for example into PDF bytes.
type Renderer interface {
	Render(doc *layout.Document) ([]byte, error)
}

// Backend pairs the font metrics used for line breaking with the renderer that draws the same fonts.
// Layout and serialization must use one backend, otherwise measured widths and drawn widths disagree.
type Backend interface {
	layout.Measurer
	Renderer
}

// Factory builds a backend.
type Factory func() (Backend, error)

var factories = map[string]Factory{}

// Register makes a backend available by name. It panics on duplicates, like database/sql drivers.
func Register(name string, f Factory) {
	name = strings.ToLower(name)
	if _, dup := factories[name]; dup {
		panic("renderer: Register called twice for backend " + name)
	}
	factories[name] = f
}

// Open builds the named backend.
func Open(name string) (Backend, error) {
	f, ok := factories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown render backend %q (have %s)", name, strings.Join(Backends(), ", "))
	}
	return f()
}

// Backends lists registered backend names in sorted order.
func Backends() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckDocument rejects documents no backend can draw.
func CheckDocument(doc *layout.Document) error {
	if doc == nil {
		return fmt.Errorf("nothing to render")
	}
	if len(doc.Pages) == 0 {
		return fmt.Errorf("document has no pages")
	}
	for i, p := range doc.Pages {
		if !(p.Width > 0) || !(p.Height > 0) {
			return fmt.Errorf("page %d has size %gx%g", i+1, p.Width, p.Height)
		}
		if p.Image != nil {
			if _, ok := doc.Resources.Images[p.Image.Ref]; !ok {
				return fmt.Errorf("page %d references missing image %q", i+1, p.Image.Ref)
			}
		}
	}
	return nil
}
