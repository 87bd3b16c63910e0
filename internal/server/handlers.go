package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoquimMarques/flipdoc/extract"
)

// Attachment names sent back to the browser.
const (
	DocumentFilename = "documento.pdf"
	ImageFilename    = "imagem.pdf"
)

type statusResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Routes  map[string]string `json:"routes"`
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{
		Status:  "online",
		Message: s.name + " is running",
		Routes: map[string]string{
			"POST /text-to-pdf":  "Convert text to PDF",
			"POST /image-to-pdf": "Convert an image (JPG/PNG) to PDF",
			"POST /word-to-pdf":  "Convert Word (.doc, .docx) to PDF",
		},
	})
}

func (s *Server) textToPDF(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, err)
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, validationError(err))
		return
	}

	res, err := s.svc.Text(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, DocumentFilename, res.PDF)
}

func (s *Server) imageToPDF(c *gin.Context) {
	data, name, ok := s.readUpload(c, "image", "an image file is required")
	if !ok {
		return
	}
	res, err := s.svc.Image(c.Request.Context(), data, name)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, ImageFilename, res.PDF)
}

func (s *Server) wordToPDF(c *gin.Context) {
	fh, err := c.FormFile("document")
	if err != nil {
		s.missingFile(c, err, "a Word file is required")
		return
	}
	if !s.checkFileSize(c, fh) {
		return
	}
	if err := extract.CheckWordFile(fh.Filename); err != nil {
		respondError(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	res, err := s.svc.Word(c.Request.Context(), f, fh.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, DocumentFilename, res.PDF)
}

func (s *Server) readUpload(c *gin.Context, field, missing string) ([]byte, string, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		s.missingFile(c, err, missing)
		return nil, "", false
	}
	if !s.checkFileSize(c, fh) {
		return nil, "", false
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return nil, "", false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, err)
		return nil, "", false
	}
	return data, fh.Filename, true
}

// checkFileSize applies the upload limit to the file itself, not to the multipart body around it.
func (s *Server) checkFileSize(c *gin.Context, fh *multipart.FileHeader) bool {
	if s.maxFile > 0 && fh.Size > s.maxFile {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
			errorResponse(CodeTooLarge, fmt.Sprintf("file exceeds maximum allowed size of %d bytes", s.maxFile), ""))
		return false
	}
	return true
}

func (s *Server) missingFile(c *gin.Context, err error, message string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(c, err)
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(CodeMissingFile, message, ""))
}
