package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JoquimMarques/flipdoc/internal/logger"
	"github.com/JoquimMarques/flipdoc/layout"
)

// Response is the JSON envelope for every non-PDF reply.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo describes a failed request. Rule names the validation rule that rejected the input.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Rule    string `json:"rule,omitempty"`
}

// Error codes.
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeMissingFile       = "MISSING_FILE"
	CodeTooLarge          = "REQUEST_TOO_LARGE"
	CodeInternal          = "INTERNAL_ERROR"
)

func errorResponse(code, message, rule string) Response {
	return Response{Success: false, Error: &ErrorInfo{Code: code, Message: message, Rule: rule}}
}

// respondError maps a conversion error to a status code. Input problems are the client's (400) and
// carry the engine's message; anything else is logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
			errorResponse(CodeTooLarge, "request body exceeds maximum allowed size", ""))
	case errors.Is(err, layout.ErrInvalidInput):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(CodeInvalidInput, err.Error(), layout.RuleOf(err)))
	case errors.Is(err, layout.ErrUnsupportedFormat):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(CodeUnsupportedFormat, err.Error(), layout.RuleOf(err)))
	default:
		_ = c.Error(err)
		logger.GetGinLogger(c).Error("conversion error", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			errorResponse(CodeInternal, "failed to generate PDF", layout.RuleOf(err)))
	}
}

func sendPDF(c *gin.Context, filename string, pdf []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
