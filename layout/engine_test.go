package layout

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

// monoMeasurer gives every rune the same advance, independent of font and size.
type monoMeasurer struct {
	advance float64
}

func (m monoMeasurer) MeasureWidth(text, font string, size float64) (float64, error) {
	return float64(utf8.RuneCountInString(text)) * m.advance, nil
}

func collectLines(t *testing.T, p Paragraph, maxWidth float64, m Measurer) []Line {
	t.Helper()
	var lines []Line
	for ln, err := range WrapParagraph(p, maxWidth, DefaultFont, DefaultFontSize, m) {
		if err != nil {
			t.Fatalf("wrap failed: %v", err)
		}
		lines = append(lines, ln)
	}
	return lines
}

func TestNormalizeLineEndings(t *testing.T) {
	paras, err := Normalize("a  b\r\n\r\nc\rd \t\n")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	want := []Paragraph{
		{Index: 0, Words: []string{"a", "b"}},
		{Index: 1, Blank: true},
		{Index: 2, Words: []string{"c"}},
		{Index: 3, Words: []string{"d", "\t"}},
		{Index: 4, Blank: true},
	}
	if diff := cmp.Diff(want, paras); diff != "" {
		t.Fatalf("paragraphs mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeRejectsBlankText(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\r\n\t "} {
		_, err := Normalize(in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Normalize(%q): want ErrInvalidInput, got %v", in, err)
		}
		if RuleOf(err) != RuleTextBlank {
			t.Fatalf("Normalize(%q): want rule %s, got %q", in, RuleTextBlank, RuleOf(err))
		}
	}
}

func TestWrapParagraphGreedy(t *testing.T) {
	p := Paragraph{Index: 3, Words: []string{"aa", "bbb", "cccc", "dd"}}
	lines := collectLines(t, p, 50, monoMeasurer{advance: 5})
	want := []Line{
		{Content: "aa bbb", Paragraph: 3, Width: 30},
		{Content: "cccc dd", Paragraph: 3, Width: 35},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapParagraphExactFit(t *testing.T) {
	p := Paragraph{Words: []string{"aaaa", "bbbbb"}}
	lines := collectLines(t, p, 50, monoMeasurer{advance: 5})
	if len(lines) != 1 || lines[0].Width != 50 {
		t.Fatalf("a line exactly maxWidth wide should fit, got %+v", lines)
	}
}

func TestWrapParagraphOverflowWord(t *testing.T) {
	long := strings.Repeat("x", 20)
	p := Paragraph{Words: []string{"ab", long, "cd"}}
	lines := collectLines(t, p, 50, monoMeasurer{advance: 5})
	if len(lines) != 3 {
		t.Fatalf("want 3 lines, got %d: %+v", len(lines), lines)
	}
	if lines[1].Content != long || !lines[1].Overflow || lines[1].Width != 100 {
		t.Fatalf("oversized word should sit alone with overflow, got %+v", lines[1])
	}
	if lines[0].Overflow || lines[2].Overflow {
		t.Fatalf("only the oversized word may overflow: %+v", lines)
	}
}

func TestWrapParagraphWidthAndWordInvariants(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog while a supercalifragilistic word tries to escape the margin"
	words := strings.Fields(text)
	m := monoMeasurer{advance: 4}
	for _, maxWidth := range []float64{10, 37, 60, 95, 200, 1000} {
		lines := collectLines(t, Paragraph{Words: words}, maxWidth, m)
		var got []string
		for _, ln := range lines {
			if ln.Width > maxWidth && strings.Contains(ln.Content, " ") {
				t.Fatalf("maxWidth=%g: multi-word line %q is %g wide", maxWidth, ln.Content, ln.Width)
			}
			if ln.Overflow != (ln.Width > maxWidth) {
				t.Fatalf("maxWidth=%g: overflow flag wrong on %+v", maxWidth, ln)
			}
			got = append(got, strings.Fields(ln.Content)...)
		}
		if diff := cmp.Diff(words, got); diff != "" {
			t.Fatalf("maxWidth=%g: word sequence changed (-want +got):\n%s", maxWidth, diff)
		}
	}
}

func TestWrapParagraphBlank(t *testing.T) {
	lines := collectLines(t, Paragraph{Index: 7, Blank: true}, 50, monoMeasurer{advance: 5})
	want := []Line{{Paragraph: 7, Blank: true}}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("blank paragraph (-want +got):\n%s", diff)
	}
}

func TestWrapParagraphStopsEarly(t *testing.T) {
	p := Paragraph{Words: []string{"one", "two", "three", "four"}}
	calls := 0
	m := MeasureFunc(func(text, font string, size float64) (float64, error) {
		calls++
		return float64(len(text)) * 10, nil
	})
	for range WrapParagraph(p, 40, DefaultFont, DefaultFontSize, m) {
		break
	}
	if calls > 3 {
		t.Fatalf("breaking out of the sequence should stop measuring, got %d calls", calls)
	}
}

func TestWrapParagraphMeasurementFailure(t *testing.T) {
	boom := errors.New("no glyph")
	failing := MeasureFunc(func(text, font string, size float64) (float64, error) {
		return 0, boom
	})
	nan := MeasureFunc(func(text, font string, size float64) (float64, error) {
		return math.NaN(), nil
	})
	for name, m := range map[string]Measurer{"error": failing, "nan": nan} {
		_, err := LayoutText("hello world", DefaultGeometry(), m)
		if !errors.Is(err, ErrMeasurementFailure) {
			t.Fatalf("%s: want ErrMeasurementFailure, got %v", name, err)
		}
		if RuleOf(err) != RuleMeasureWidth {
			t.Fatalf("%s: want rule %s, got %q", name, RuleMeasureWidth, RuleOf(err))
		}
	}
	_, err := LayoutText("hello", DefaultGeometry(), failing)
	if !errors.Is(err, boom) {
		t.Fatalf("the measurer's cause should be kept, got %v", err)
	}
	_, err = LayoutText("hello", DefaultGeometry(), nil)
	if !errors.Is(err, ErrMeasurementFailure) || RuleOf(err) != RuleMeasurer {
		t.Fatalf("nil measurer: got %v", err)
	}
}

func TestDefaultGeometry(t *testing.T) {
	g := DefaultGeometry()
	if g.LineHeight != 18 {
		t.Fatalf("default line height: want 18, got %g", g.LineHeight)
	}
	if math.Abs(g.MaxLineWidth()-495.28) > 1e-9 {
		t.Fatalf("default line width: want 495.28, got %g", g.MaxLineWidth())
	}
	if got := g.LinesPerPage(); got != 41 {
		t.Fatalf("default capacity: want 41, got %d", got)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("default geometry rejected: %v", err)
	}
}

func TestGeometryValidate(t *testing.T) {
	cases := map[string]Geometry{
		"zero width":       {Width: 0, Height: 800, Margin: 10, FontSize: 12, LineHeight: 18, Font: "Helvetica"},
		"negative margin":  {Width: 600, Height: 800, Margin: -1, FontSize: 12, LineHeight: 18, Font: "Helvetica"},
		"margin too wide":  {Width: 100, Height: 800, Margin: 50, FontSize: 12, LineHeight: 18, Font: "Helvetica"},
		"no vertical room": {Width: 600, Height: 100, Margin: 45, FontSize: 12, LineHeight: 18, Font: "Helvetica"},
		"zero line height": {Width: 600, Height: 800, Margin: 10, FontSize: 12, LineHeight: 0, Font: "Helvetica"},
		"infinite height":  {Width: 600, Height: math.Inf(1), Margin: 10, FontSize: 12, LineHeight: 18, Font: "Helvetica"},
		"no font":          {Width: 600, Height: 800, Margin: 10, FontSize: 12, LineHeight: 18},
	}
	for name, g := range cases {
		err := g.Validate()
		if !errors.Is(err, ErrInvalidInput) || RuleOf(err) != RuleGeometry {
			t.Fatalf("%s: want invalid geometry, got %v", name, err)
		}
	}
}

func TestPaginateCapacity(t *testing.T) {
	g := DefaultGeometry()
	lines := make([]Line, 100)
	for i := range lines {
		lines[i] = Line{Content: "x", Paragraph: i}
	}
	doc := Paginate(lines, g)
	counts := make([]int, len(doc.Pages))
	for i, p := range doc.Pages {
		counts[i] = len(p.Texts)
	}
	if diff := cmp.Diff([]int{41, 41, 18}, counts); diff != "" {
		t.Fatalf("lines per page (-want +got):\n%s", diff)
	}

	limit := int(math.Floor((g.Height-2*g.Margin)/g.LineHeight)) + 1
	next := 0
	for pi, p := range doc.Pages {
		if len(p.Texts) > limit {
			t.Fatalf("page %d holds %d lines, limit %d", pi, len(p.Texts), limit)
		}
		for li, tb := range p.Texts {
			if tb.Y < g.Margin {
				t.Fatalf("page %d line %d placed below the margin at y=%g", pi, li, tb.Y)
			}
			if tb.X != g.Margin {
				t.Fatalf("page %d line %d: x=%g, want %g", pi, li, tb.X, g.Margin)
			}
			if want := g.Height - g.Margin - float64(li)*g.LineHeight; math.Abs(tb.Y-want) > 1e-9 {
				t.Fatalf("page %d line %d: y=%g, want %g", pi, li, tb.Y, want)
			}
			if tb.Paragraph != next {
				t.Fatalf("line order broken: got paragraph %d, want %d", tb.Paragraph, next)
			}
			next++
		}
		if p.Width != g.Width || p.Height != g.Height {
			t.Fatalf("page %d size %gx%g", pi, p.Width, p.Height)
		}
	}
}

func TestPaginateNoLines(t *testing.T) {
	doc := Paginate(nil, DefaultGeometry())
	if len(doc.Pages) != 1 || len(doc.Pages[0].Texts) != 0 {
		t.Fatalf("want one empty page, got %+v", doc.Pages)
	}
}

func TestLayoutTextSingleCharacter(t *testing.T) {
	g := DefaultGeometry()
	doc, err := LayoutText("A", g, monoMeasurer{advance: 7})
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	if len(doc.Pages) != 1 || len(doc.Pages[0].Texts) != 1 {
		t.Fatalf("want one page with one line, got %+v", doc.Pages)
	}
	tb := doc.Pages[0].Texts[0]
	if tb.Content != "A" || tb.X != g.Margin || tb.Y != g.Height-g.Margin {
		t.Fatalf("unexpected placement %+v", tb)
	}
	if tb.Font != DefaultFont || tb.FontSize != DefaultFontSize {
		t.Fatalf("placement should carry the geometry font, got %s %g", tb.Font, tb.FontSize)
	}
}

func TestLayoutTextRejectsEmpty(t *testing.T) {
	for _, in := range []string{"", " \n \t"} {
		if _, err := LayoutText(in, DefaultGeometry(), monoMeasurer{advance: 5}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("LayoutText(%q): want ErrInvalidInput, got %v", in, err)
		}
	}
}

// TestLayoutTextThreeParagraphs walks a wrapped paragraph, a blank line and an oversized word through
// the whole pipeline, with and without a page break.
func TestLayoutTextThreeParagraphs(t *testing.T) {
	m := monoMeasurer{advance: 6}
	g := DefaultGeometry()
	first := strings.TrimSpace(strings.Repeat("lorem ipsum dolor ", 30))
	huge := strings.Repeat("W", 100) // 600pt, wider than 495.28
	text := first + "\n\n" + huge

	doc, err := LayoutText(text, g, m)
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("want 1 page, got %d", len(doc.Pages))
	}
	texts := doc.Pages[0].Texts
	if len(texts) < 4 {
		t.Fatalf("want wrapped paragraph plus two lines, got %d", len(texts))
	}
	n := len(texts)
	blank, last := texts[n-2], texts[n-1]
	if !blank.Blank || blank.Content != "" || blank.Paragraph != 1 {
		t.Fatalf("second to last line should be the blank paragraph, got %+v", blank)
	}
	if last.Content != huge || last.Paragraph != 2 || last.Width <= g.MaxLineWidth() {
		t.Fatalf("last line should be the overflowing word, got %+v", last)
	}
	for _, tb := range texts[:n-2] {
		if tb.Paragraph != 0 || tb.Width > g.MaxLineWidth() {
			t.Fatalf("wrapped line out of bounds: %+v", tb)
		}
	}

	// Same content pushed past the page capacity: the break happens exactly at line 41.
	filler := strings.TrimSpace(strings.Repeat("x\n", 40))
	doc, err = LayoutText(filler+"\n"+text, g, m)
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("want 2 pages, got %d", len(doc.Pages))
	}
	if got := len(doc.Pages[0].Texts); got != g.LinesPerPage() {
		t.Fatalf("first page should be full with %d lines, got %d", g.LinesPerPage(), got)
	}
	if doc.LineCount() != 40+n {
		t.Fatalf("want %d lines in total, got %d", 40+n, doc.LineCount())
	}
}

func TestLayoutTextDeterministic(t *testing.T) {
	text := "First paragraph with several words.\n\nSecond one, shorter.\nThird."
	g := NewGeometry(300, 200, 20, DefaultFont, 10, 1.5)
	m := monoMeasurer{advance: 5.5}
	a, err := LayoutText(text, g, m)
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		b, err := LayoutText(text, g, m)
		if err != nil {
			t.Fatalf("layout failed: %v", err)
		}
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestLayoutWordDocumentEmpty(t *testing.T) {
	_, err := LayoutWordDocument(" \n ", DefaultGeometry(), monoMeasurer{advance: 5})
	if !errors.Is(err, ErrInvalidInput) || RuleOf(err) != RuleDocumentEmpty {
		t.Fatalf("want empty document error, got %v", err)
	}
	doc, err := LayoutWordDocument("Relatório\nfinal", DefaultGeometry(), monoMeasurer{advance: 5})
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	if doc.LineCount() != 2 {
		t.Fatalf("want 2 lines, got %d", doc.LineCount())
	}
}
