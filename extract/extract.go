// Package extract pulls plain text out of word-processor files.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/tabula/docx"
	"github.com/tsawler/tabula/odt"

	"github.com/JoquimMarques/flipdoc/layout"
)

// Extractor returns the plain text of the document stored at path, one paragraph per line.
type Extractor interface {
	ExtractText(path string) (string, error)
}

// Func adapts a plain function to the Extractor interface.
type Func func(path string) (string, error)

// ExtractText calls f.
func (f Func) ExtractText(path string) (string, error) { return f(path) }

// WordExtensions are the file extensions accepted as Word documents.
var WordExtensions = []string{".doc", ".docx"}

// IsWordFile reports whether name carries a Word extension.
func IsWordFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range WordExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// CheckWordFile rejects names without a Word extension.
func CheckWordFile(name string) error {
	if IsWordFile(name) {
		return nil
	}
	return layout.UnsupportedFormat(layout.RuleDocumentFormat,
		fmt.Sprintf("%q is not a Word document (expected %s)", filepath.Base(name), strings.Join(WordExtensions, " or ")))
}

// oleMagic starts every legacy binary Office file.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Office reads Office Open XML (.docx) and OpenDocument (.odt) text documents.
type Office struct{}

var _ Extractor = Office{}

// ExtractText dispatches on the file extension. A .doc file is read as .docx when it really is one;
// genuine binary Word 97-2003 files are reported as unsupported.
func (Office) ExtractText(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".doc", ".docx":
		legacy, err := hasPrefix(path, oleMagic)
		if err != nil {
			return "", err
		}
		if legacy {
			return "", layout.UnsupportedFormat(layout.RuleDocumentLegacy,
				fmt.Sprintf("%s is a binary Word 97-2003 file; save it as .docx", filepath.Base(path)))
		}
		return readDocx(path)
	case ".odt":
		return readODT(path)
	default:
		return "", layout.UnsupportedFormat(layout.RuleDocumentFormat, fmt.Sprintf("no text extractor for %q files", ext))
	}
}

func readDocx(path string) (string, error) {
	r, err := docx.Open(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	defer r.Close()
	text, err := r.Text()
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", filepath.Base(path), err)
	}
	return text, nil
}

func readODT(path string) (string, error) {
	r, err := odt.Open(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	defer r.Close()
	text, err := r.Text()
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", filepath.Base(path), err)
	}
	return text, nil
}

func hasPrefix(path string, magic []byte) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(f, head); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(head, magic), nil
}
