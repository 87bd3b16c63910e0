package layout

import (
	"fmt"
	"iter"
	"math"
)

// WrapParagraph greedily packs the paragraph's words into lines no wider than maxWidth.
//
// Every candidate line is measured through m. A word that does not fit starts a new line on its own,
// even when it is wider than maxWidth by itself: such a line is emitted whole with Overflow set, never
// split or truncated. A blank paragraph yields exactly one empty line. The sequence stops after the
// first error.
func WrapParagraph(p Paragraph, maxWidth float64, font string, size float64, m Measurer) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		if m == nil {
			yield(Line{}, &ConversionError{Kind: ErrMeasurementFailure, Rule: RuleMeasurer, Detail: "no font metrics provider"})
			return
		}
		if !(maxWidth > 0) || math.IsInf(maxWidth, 0) {
			yield(Line{}, invalidInput(RuleGeometry, fmt.Sprintf("line width %g must be positive and finite", maxWidth)))
			return
		}
		if p.Blank {
			yield(Line{Paragraph: p.Index, Blank: true}, nil)
			return
		}

		measure := func(s string) (float64, error) {
			w, err := m.MeasureWidth(s, font, size)
			if err != nil {
				return 0, measurementFailure(fmt.Sprintf("%q in %s %gpt", s, font, size), err)
			}
			if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
				return 0, measurementFailure(fmt.Sprintf("width %g of %q is not a finite length", w, s), nil)
			}
			return w, nil
		}
		line := func(content string, width float64) Line {
			return Line{Content: content, Paragraph: p.Index, Width: width, Overflow: width > maxWidth}
		}

		var acc string
		var accWidth float64
		for _, word := range p.Words {
			candidate := word
			if acc != "" {
				candidate = acc + " " + word
			}
			w, err := measure(candidate)
			if err != nil {
				yield(Line{}, err)
				return
			}
			if w <= maxWidth {
				acc, accWidth = candidate, w
				continue
			}
			if acc != "" {
				if !yield(line(acc, accWidth), nil) {
					return
				}
				if w, err = measure(word); err != nil {
					yield(Line{}, err)
					return
				}
			}
			acc, accWidth = word, w
		}
		if acc != "" {
			yield(line(acc, accWidth), nil)
		}
	}
}

// WrapParagraphs runs the line breaker over every paragraph with the geometry's width, font and size.
func WrapParagraphs(paras []Paragraph, g Geometry, m Measurer) ([]Line, error) {
	lines := make([]Line, 0, len(paras))
	for _, p := range paras {
		for ln, err := range WrapParagraph(p, g.MaxLineWidth(), g.Font, g.FontSize, m) {
			if err != nil {
				return nil, err
			}
			lines = append(lines, ln)
		}
	}
	return lines, nil
}
