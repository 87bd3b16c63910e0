package layout

import "strings"

// LayoutText normalizes, wraps and paginates text. The text and Word paths both go through here.
func LayoutText(text string, g Geometry, m Measurer) (*Document, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, &ConversionError{Kind: ErrMeasurementFailure, Rule: RuleMeasurer, Detail: "no font metrics provider"}
	}
	paras, err := Normalize(text)
	if err != nil {
		return nil, err
	}
	lines, err := WrapParagraphs(paras, g, m)
	if err != nil {
		return nil, err
	}
	return Paginate(lines, g), nil
}

// LayoutWordDocument lays out text already extracted from a word-processor file. An extraction that
// produced no text is reported as an empty document rather than empty text.
func LayoutWordDocument(extracted string, g Geometry, m Measurer) (*Document, error) {
	if strings.TrimSpace(extracted) == "" {
		return nil, invalidInput(RuleDocumentEmpty, "the document is empty or its text could not be extracted")
	}
	return LayoutText(extracted, g, m)
}
