// Package fpdfrenderer lays out and draws documents with the standard PDF fonts through
// codeberg.org/go-pdf/fpdf. Nothing is embedded for text, so output stays small.
package fpdfrenderer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/JoquimMarques/flipdoc/layout"
	"github.com/JoquimMarques/flipdoc/renderer"
)

// Name is the backend's registry name.
const Name = "fpdf"

// DefaultCreator is written to the info dictionary when the document does not name one.
const DefaultCreator = "flipdoc"

func init() {
	renderer.Register(Name, func() (renderer.Backend, error) { return New(), nil })
}

// Renderer measures and draws text with fpdf's built-in font metrics.
type Renderer struct {
	opts Options
}

var _ renderer.Backend = (*Renderer)(nil)

// Options configures the fpdf renderer.
type Options struct {
	Creator       string
	NoCompression bool
	// Timestamp is stored as creation and modification date. Zero means the time of rendering.
	Timestamp time.Time
}

// New returns a renderer with default options.
func New() *Renderer { return NewWithOptions(Options{}) }

// NewWithOptions returns a renderer configured by opts.
func NewWithOptions(opts Options) *Renderer {
	if opts.Creator == "" {
		opts.Creator = DefaultCreator
	}
	return &Renderer{opts: opts}
}

// Render serializes doc into PDF bytes.
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if err := renderer.CheckDocument(doc); err != nil {
		return nil, err
	}
	first := doc.Pages[0]
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(!r.opts.NoCompression)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(r.opts.Timestamp)
	pdf.SetModificationDate(r.opts.Timestamp)
	r.applyMeta(pdf, doc.Meta)

	registered := map[string]bool{}
	for i, page := range doc.Pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		if page.Image != nil {
			if err := drawImage(pdf, page, doc.Resources, registered); err != nil {
				return nil, fmt.Errorf("page %d: %w", i+1, err)
			}
		}
		if err := drawTexts(pdf, page); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(pdf *fpdf.Fpdf, meta layout.DocumentMeta) {
	creator := meta.Creator
	if creator == "" {
		creator = r.opts.Creator
	}
	pdf.SetCreator(creator, true)
	if meta.Title != "" {
		pdf.SetTitle(meta.Title, true)
	}
	if meta.Subject != "" {
		pdf.SetSubject(meta.Subject, true)
	}
	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, true)
	}
}

// drawTexts places each line at its baseline. Layout y grows upwards, fpdf y grows downwards.
func drawTexts(pdf *fpdf.Fpdf, page layout.Page) error {
	current := ""
	for _, tb := range page.Texts {
		if tb.Blank || tb.Content == "" {
			continue
		}
		cf, err := parseCoreFont(tb.Font)
		if err != nil {
			return err
		}
		if key := fmt.Sprintf("%s@%g", cf.key(), tb.FontSize); key != current {
			pdf.SetFont(cf.family, cf.style, tb.FontSize)
			current = key
		}
		enc, err := encodeWinAnsi(tb.Content)
		if err != nil {
			return err
		}
		pdf.Text(tb.X, page.Height-tb.Y, enc)
	}
	return nil
}

func drawImage(pdf *fpdf.Fpdf, page layout.Page, resources layout.ResourceSet, registered map[string]bool) error {
	box := page.Image
	res := resources.Images[box.Ref]
	opts := fpdf.ImageOptions{}
	switch layout.NormalizeImageFormat(res.Format) {
	case "jpeg":
		opts.ImageType = "JPG"
	case "png":
		opts.ImageType = "PNG"
	default:
		return layout.UnsupportedFormat(layout.RuleImageFormat, fmt.Sprintf("image %q has encoding %q", box.Ref, res.Format))
	}
	if !registered[box.Ref] {
		data := res.Data
		if opts.ImageType == "PNG" {
			var err error
			if data, err = flattenPNG(data); err != nil {
				return fmt.Errorf("image %q: %w", box.Ref, err)
			}
		}
		pdf.RegisterImageOptionsReader(box.Ref, opts, bytes.NewReader(data))
		registered[box.Ref] = true
	}
	top := page.Height - (box.Y + box.Height)
	pdf.ImageOptions(box.Ref, box.X, top, box.Width, box.Height, false, opts, 0, "")
	return nil
}

// flattenPNG re-encodes interlaced or 16-bit PNGs, which fpdf cannot embed, as plain 8-bit NRGBA.
func flattenPNG(data []byte) ([]byte, error) {
	// IHDR follows the 8-byte signature: length(4) type(4) width(4) height(4) depth(1) color(1)
	// compression(1) filter(1) interlace(1).
	if len(data) < 29 || binary.BigEndian.Uint32(data[12:16]) != 0x49484452 {
		return nil, fmt.Errorf("not a PNG stream")
	}
	depth, interlace := data[24], data[28]
	if depth <= 8 && interlace == 0 {
		return data, nil
	}
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
