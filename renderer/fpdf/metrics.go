package fpdfrenderer

import (
	"fmt"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/JoquimMarques/flipdoc/layout"
)

// coreFont is one of the standard PDF fonts every viewer ships, addressed the way fpdf expects.
type coreFont struct {
	family string
	style  string
}

func (c coreFont) key() string { return c.family + "/" + c.style }

// parseCoreFont accepts PostScript-style names such as "Helvetica", "Helvetica-Bold" or "Times-Roman".
func parseCoreFont(name string) (coreFont, error) {
	family, variant, _ := strings.Cut(strings.ToLower(strings.TrimSpace(name)), "-")
	var cf coreFont
	switch family {
	case "helvetica", "arial":
		cf.family = "Helvetica"
	case "times":
		cf.family = "Times"
	case "courier":
		cf.family = "Courier"
	default:
		return coreFont{}, fmt.Errorf("font %q is not a standard PDF font", name)
	}
	switch variant {
	case "", "roman", "regular":
	case "bold":
		cf.style = "B"
	case "oblique", "italic":
		cf.style = "I"
	case "boldoblique", "bolditalic":
		cf.style = "BI"
	default:
		return coreFont{}, fmt.Errorf("font %q has unknown variant %q", name, variant)
	}
	return cf, nil
}

// widthTable holds glyph advances in 1/1000 em for each WinAnsi byte.
type widthTable [256]float64

var widthTables sync.Map // coreFont.key() -> *widthTable

// widthsFor returns the immutable advance table for a core font, building it on first use.
func widthsFor(cf coreFont) (*widthTable, error) {
	if t, ok := widthTables.Load(cf.key()); ok {
		return t.(*widthTable), nil
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{UnitStr: "pt", Size: fpdf.SizeType{Wd: layout.A4Width, Ht: layout.A4Height}})
	// At 1000pt with pt units, GetStringWidth returns the raw AFM advance.
	pdf.SetFont(cf.family, cf.style, 1000)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("loading metrics for %s: %w", cf.family, err)
	}
	t := new(widthTable)
	for b := 1; b < len(t); b++ {
		t[b] = pdf.GetStringWidth(string([]byte{byte(b)}))
	}
	actual, _ := widthTables.LoadOrStore(cf.key(), t)
	return actual.(*widthTable), nil
}

// encodeWinAnsi converts UTF-8 text to the single-byte encoding used by the standard fonts.
func encodeWinAnsi(s string) (string, error) {
	enc, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		return "", fmt.Errorf("text %q cannot be encoded in WinAnsi: %w", s, err)
	}
	return enc, nil
}

// MeasureWidth returns the advance width of text in points, using standard font metrics.
func (r *Renderer) MeasureWidth(text, font string, size float64) (float64, error) {
	cf, err := parseCoreFont(font)
	if err != nil {
		return 0, err
	}
	t, err := widthsFor(cf)
	if err != nil {
		return 0, err
	}
	enc, err := encodeWinAnsi(text)
	if err != nil {
		return 0, err
	}
	var units float64
	for i := 0; i < len(enc); i++ {
		units += t[enc[i]]
	}
	return units * size / 1000, nil
}
