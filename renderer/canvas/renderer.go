package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/JoquimMarques/flipdoc/fonts"
	"github.com/JoquimMarques/flipdoc/layout"
	"github.com/JoquimMarques/flipdoc/renderer"
)

// Name is the backend's registry name.
const Name = "canvas"

func init() {
	renderer.Register(Name, func() (renderer.Backend, error) { return NewRenderer(), nil })
}

// Renderer draws documents via github.com/tdewolff/canvas, embedding TrueType faces.
// Layout works in points while canvas works in millimetres; conversion happens only here.
type Renderer struct {
	// injected fonts, by name
	fontBlobs map[string][]byte
	creator   string

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily

	// shaping inside TextWidth is not documented as goroutine safe
	measureMu sync.Mutex
}

var _ renderer.Backend = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	Fonts   map[string]Resource // extra faces, addressed by the layout font name
	Creator string
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer using only the bundled faces.
func NewRenderer() *Renderer {
	r, _ := NewRendererWithOptions(Options{}) // no font files to read
	return r
}

// NewRendererWithOptions creates a renderer with injected fonts. A font file that cannot be read
// is an error; the bundled faces never stand in for a configured one.
func NewRendererWithOptions(opts Options) (*Renderer, error) {
	r := &Renderer{
		fontBlobs:    map[string][]byte{},
		creator:      opts.Creator,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	if r.creator == "" {
		r.creator = "flipdoc"
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				return nil, fmt.Errorf("font %s: %w", name, err)
			}
			if len(data) == 0 {
				return nil, fmt.Errorf("font %s: %s is empty", name, res.Path)
			}
			r.fontBlobs[name] = data
		}
	}
	return r, nil
}

// MeasureWidth implements layout.Measurer. size is in points, the result is in points.
func (r *Renderer) MeasureWidth(text, font string, size float64) (float64, error) {
	face, err := r.fontFace(font, size)
	if err != nil {
		return 0, err
	}
	r.measureMu.Lock()
	w := face.TextWidth(text)
	r.measureMu.Unlock()
	return w * layout.MmToPt, nil
}

// Render renders the document into a PDF byte slice.
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if err := renderer.CheckDocument(doc); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	first := doc.Pages[0]
	writer := pdf.New(&buf, toMm(first.Width), toMm(first.Height), nil)
	r.applyMeta(writer, doc.Meta)
	for i, page := range doc.Pages {
		if i > 0 {
			writer.NewPage(toMm(page.Width), toMm(page.Height))
		}
		c := canvas.New(toMm(page.Width), toMm(page.Height))
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianI) // origin bottom-left, as in the layout

		if err := r.drawPage(ctx, page, doc.Resources); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	creator := meta.Creator
	if creator == "" {
		creator = r.creator
	}
	writer.SetInfo(meta.Title, meta.Subject, "", meta.Author, creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, resources layout.ResourceSet) error {
	if page.Image != nil {
		if err := drawImage(ctx, *page.Image, resources); err != nil {
			return err
		}
	}
	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	if tb.Blank || tb.Content == "" {
		return nil
	}
	face, err := r.fontFace(tb.Font, tb.FontSize)
	if err != nil {
		return err
	}
	// Y is the baseline; a single-line text draws its baseline at the given coordinate.
	ctx.DrawText(toMm(tb.X), toMm(tb.Y), canvas.NewTextLine(face, tb.Content, canvas.Left))
	return nil
}

func drawImage(ctx *canvas.Context, box layout.ImageBox, resources layout.ResourceSet) error {
	res, ok := resources.Images[box.Ref]
	if !ok {
		return fmt.Errorf("image resource %q not found", box.Ref)
	}
	img, _, err := image.Decode(bytes.NewReader(res.Data))
	if err != nil {
		return fmt.Errorf("decoding image %q: %w", box.Ref, err)
	}
	widthMM := toMm(box.Width)
	dpmm := 1.0
	if widthMM > 0 && img.Bounds().Dx() > 0 {
		dpmm = float64(img.Bounds().Dx()) / widthMM
	}
	ctx.DrawImage(toMm(box.X), toMm(box.Y), img, canvas.DPMM(dpmm))
	return nil
}

// fontFace returns a face for the layout font name at sizePt points.
func (r *Renderer) fontFace(name string, sizePt float64) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(name)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, canvas.Black, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[name]; ok {
		return family, nil
	}
	data, injected := r.fontBlobs[name]
	if !injected {
		var err error
		if data, err = fonts.Load(name); err != nil {
			// names outside the bundled set draw with the default face
			fallback, fbErr := r.fallback()
			if fbErr != nil {
				return nil, layout.MeasurementFailure("loading fallback font", fbErr)
			}
			r.fontFamilies[name] = fallback
			return fallback, nil
		}
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, layout.MeasurementFailure(fmt.Sprintf("loading font %s", name), err)
	}
	r.fontFamilies[name] = family
	return family, nil
}

// fallback must be called with fontMu held.
func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if family, ok := r.fontFamilies[fonts.Default]; ok {
		return family, nil
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(fonts.Default)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fontFamilies[fonts.Default] = family
	return family, nil
}

// toMm converts points to millimetres.
func toMm(pt float64) float64 { return pt * layout.PtToMm }
