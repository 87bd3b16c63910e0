package server

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/JoquimMarques/flipdoc/layout"
)

var setupValidatorOnce sync.Once

// setupValidator registers the notblank tag and reports fields by their JSON names.
// gin's validator engine is process-wide, so this runs once.
func setupValidator() {
	setupValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

// TextRequest is the body of POST /text-to-pdf.
type TextRequest struct {
	Text string `json:"text" binding:"required,notblank"`
}

// validationError turns a binding failure into the error envelope.
func validationError(err error) Response {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errorResponse(CodeValidation, `field "text" is required and must be a string`, "")
	}
	for _, e := range verrs {
		if e.Field() == "text" {
			return errorResponse(CodeInvalidInput, `field "text" is required and must not be blank`, layout.RuleTextBlank)
		}
	}
	return errorResponse(CodeValidation, verrs.Error(), "")
}
