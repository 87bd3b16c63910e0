package layout

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by this package wraps exactly one of them.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrMeasurementFailure = errors.New("measurement failure")
)

// Validation rules reported in ConversionError.Rule.
const (
	RuleTextBlank       = "text.blank"
	RuleDocumentEmpty   = "document.empty"
	RuleDocumentFormat  = "document.extension"
	RuleDocumentLegacy  = "document.legacy"
	RuleImageFormat     = "image.format"
	RuleImageDimensions = "image.dimensions"
	RuleImageBounds     = "image.bounds"
	RuleGeometry        = "page.geometry"
	RuleMeasureWidth    = "measure.width"
	RuleMeasurer        = "measure.provider"
)

// ConversionError describes why a conversion was rejected.
// errors.Is matches both the Kind sentinel and the wrapped cause.
type ConversionError struct {
	Kind   error
	Rule   string
	Detail string
	Err    error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("%v [%s]", e.Kind, e.Rule)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalidInput(rule, detail string) error {
	return &ConversionError{Kind: ErrInvalidInput, Rule: rule, Detail: detail}
}

func unsupportedFormat(rule, detail string) error {
	return &ConversionError{Kind: ErrUnsupportedFormat, Rule: rule, Detail: detail}
}

func measurementFailure(detail string, err error) error {
	return &ConversionError{Kind: ErrMeasurementFailure, Rule: RuleMeasureWidth, Detail: detail, Err: err}
}

// InvalidInput builds an InvalidInput error for callers outside the engine (extractors, handlers).
func InvalidInput(rule, detail string) error { return invalidInput(rule, detail) }

// UnsupportedFormat builds an UnsupportedFormat error for callers outside the engine.
func UnsupportedFormat(rule, detail string) error { return unsupportedFormat(rule, detail) }

// MeasurementFailure builds a MeasurementFailure error for measurers that cannot produce a width.
func MeasurementFailure(detail string, err error) error { return measurementFailure(detail, err) }

// RuleOf returns the validation rule carried by err, or "" when err is not a ConversionError.
func RuleOf(err error) string {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Rule
	}
	return ""
}
