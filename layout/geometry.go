package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/JoquimMarques/flipdoc/dsl"
)

// Default page policy: ISO A4 in points, 50pt margins, Helvetica 12pt, 1.5 leading.
const (
	A4Width         = 595.28
	A4Height        = 841.89
	DefaultMargin   = 50.0
	DefaultFontSize = 12.0
	DefaultFont     = "Helvetica"
)

// Geometry is the page configuration shared by every page of one job. All lengths are points.
type Geometry struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Margin     float64 `json:"margin"`
	FontSize   float64 `json:"fontSize"`
	LineHeight float64 `json:"lineHeight"`
	Font       string  `json:"font"`
}

// DefaultGeometry returns the A4 text policy.
func DefaultGeometry() Geometry {
	return NewGeometry(A4Width, A4Height, DefaultMargin, DefaultFont, DefaultFontSize, DefaultLineHeightFactor)
}

// NewGeometry derives the line height from the font size and a leading factor.
func NewGeometry(width, height, margin float64, font string, fontSize, lineHeightFactor float64) Geometry {
	return Geometry{
		Width:      width,
		Height:     height,
		Margin:     margin,
		FontSize:   fontSize,
		LineHeight: fontSize * lineHeightFactor,
		Font:       font,
	}
}

// MaxLineWidth is the horizontal room between the left and right margins.
func (g Geometry) MaxLineWidth() float64 { return g.Width - 2*g.Margin }

// LinesPerPage is the number of lines the paginator places on a full page.
func (g Geometry) LinesPerPage() int {
	if g.LineHeight <= 0 {
		return 0
	}
	top := g.Height - g.Margin
	n := math.Floor((top-g.Margin-g.LineHeight)/g.LineHeight) + 1
	return int(math.Max(n, 1))
}

// Validate rejects geometries the paginator cannot make progress with.
func (g Geometry) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"width", g.Width}, {"height", g.Height}, {"margin", g.Margin},
		{"font size", g.FontSize}, {"line height", g.LineHeight},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalidInput(RuleGeometry, fmt.Sprintf("%s is not finite", f.name))
		}
	}
	switch {
	case g.Width <= 0 || g.Height <= 0:
		return invalidInput(RuleGeometry, fmt.Sprintf("page size %gx%g must be positive", g.Width, g.Height))
	case g.Margin < 0:
		return invalidInput(RuleGeometry, fmt.Sprintf("margin %g is negative", g.Margin))
	case g.FontSize <= 0:
		return invalidInput(RuleGeometry, fmt.Sprintf("font size %g must be positive", g.FontSize))
	case g.LineHeight <= 0:
		return invalidInput(RuleGeometry, fmt.Sprintf("line height %g must be positive", g.LineHeight))
	case g.MaxLineWidth() <= 0:
		return invalidInput(RuleGeometry, fmt.Sprintf("margin %g leaves no room on a %g wide page", g.Margin, g.Width))
	case g.Height-2*g.Margin < g.LineHeight:
		return invalidInput(RuleGeometry, fmt.Sprintf("margin %g leaves no room for a %g line on a %g high page", g.Margin, g.LineHeight, g.Height))
	case strings.TrimSpace(g.Font) == "":
		return invalidInput(RuleGeometry, "font name is empty")
	}
	return nil
}

// Bounds limits the page produced for an image.
type Bounds struct {
	MaxWidth  float64 `json:"maxWidth"`
	MaxHeight float64 `json:"maxHeight"`
}

// DefaultImageBounds caps image pages at A4.
func DefaultImageBounds() Bounds {
	return Bounds{MaxWidth: A4Width, MaxHeight: A4Height}
}

// paperSizes in points, portrait.
var paperSizes = map[string][2]float64{
	"A3":     {841.89, 1190.55},
	"A4":     {A4Width, A4Height},
	"A5":     {419.53, 595.28},
	"LETTER": {612, 792},
	"LEGAL":  {612, 1008},
}

// GeometryFromSpec resolves a parsed page spec on top of base. Parameters absent from the spec keep
// their value from base; a size parameter without line-height keeps base's leading factor.
func GeometryFromSpec(spec *dsl.PageSpec, base Geometry) (Geometry, error) {
	if spec == nil {
		return base, nil
	}
	g := base
	width, height, err := resolvePageSize(spec, base)
	if err != nil {
		return Geometry{}, err
	}
	g.Width, g.Height = width, height

	if p, ok := spec.Lookup("margin"); ok {
		l, err := ParseLength(p.Value.Raw())
		if err != nil {
			return Geometry{}, invalidInput(RuleGeometry, fmt.Sprintf("%s: margin %q: %v", p.Pos, p.Value.Raw(), err))
		}
		g.Margin = l.ToPT()
	}
	if p, ok := spec.Lookup("font"); ok {
		g.Font = p.Value.Raw()
	}
	factor := DefaultLineHeightFactor
	if base.FontSize > 0 {
		factor = base.LineHeight / base.FontSize
	}
	lh := LineHeightSpec{Kind: LineHeightFactor, Factor: factor}
	if p, ok := spec.Lookup("size"); ok {
		l, err := ParseLength(p.Value.Raw())
		if err != nil {
			return Geometry{}, invalidInput(RuleGeometry, fmt.Sprintf("%s: size %q: %v", p.Pos, p.Value.Raw(), err))
		}
		g.FontSize = l.ToPT()
	}
	if p, ok := spec.Lookup("line-height"); ok {
		lh, err = ParseLineHeight(p.Value.Raw())
		if err != nil {
			return Geometry{}, invalidInput(RuleGeometry, fmt.Sprintf("%s: line-height %q: %v", p.Pos, p.Value.Raw(), err))
		}
	}
	g.LineHeight = lh.Resolve(g.FontSize)

	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

func resolvePageSize(spec *dsl.PageSpec, base Geometry) (float64, float64, error) {
	var width, height float64
	switch size := strings.ToUpper(spec.Size); size {
	case "CUSTOM":
		width, height = base.Width, base.Height
		for _, dim := range []struct {
			key string
			dst *float64
		}{{"width", &width}, {"height", &height}} {
			p, ok := spec.Lookup(dim.key)
			if !ok {
				continue
			}
			l, err := ParseLength(p.Value.Raw())
			if err != nil {
				return 0, 0, invalidInput(RuleGeometry, fmt.Sprintf("%s: %s %q: %v", p.Pos, dim.key, p.Value.Raw(), err))
			}
			*dim.dst = l.ToPT()
		}
	default:
		dims, ok := paperSizes[size]
		if !ok {
			return 0, 0, invalidInput(RuleGeometry, fmt.Sprintf("%s: unknown page size %q", spec.Pos, spec.Size))
		}
		width, height = dims[0], dims[1]
	}
	if spec.Landscape() && width < height {
		width, height = height, width
	}
	return width, height, nil
}
