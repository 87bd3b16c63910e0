package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/JoquimMarques/flipdoc/layout"
)

var wordTypes = []string{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/msword",
	"application/x-ole-storage",
	"application/vnd.oasis.opendocument.text",
}

// Detect picks the input kind from the content, falling back to the file extension for containers
// mimetype cannot tell apart (a .docx saved without its content types, for example).
func Detect(data []byte, filename string) (Kind, error) {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("image/jpeg"), mt.Is("image/png"):
		return KindImage, nil
	case mimetype.EqualsAny(mt.String(), wordTypes...):
		return KindWord, nil
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".doc", ".docx", ".odt":
		return KindWord, nil
	case ".jpg", ".jpeg", ".png":
		return "", layout.UnsupportedFormat(layout.RuleImageFormat, fmt.Sprintf("%s has a %s extension but contains %s", filepath.Base(filename), ext, mt.String()))
	}

	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return KindText, nil
		}
	}
	return "", layout.UnsupportedFormat(layout.RuleDocumentFormat, fmt.Sprintf("cannot convert %s content", mt.String()))
}

// DecodeText turns file bytes into a string. A UTF-8 or UTF-16 byte order mark selects the encoding;
// without one, valid UTF-8 is kept and anything else is read as Windows-1252 (a superset of Latin-1).
func DecodeText(data []byte) (string, error) {
	var dec transform.Transformer
	switch {
	case hasBOM(data):
		dec = unicode.BOMOverride(unicode.UTF8.NewDecoder())
	case utf8.Valid(data):
		return string(data), nil
	default:
		dec = charmap.Windows1252.NewDecoder()
	}
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decoding text: %w", err)
	}
	return string(out), nil
}

var boms = [][]byte{{0xEF, 0xBB, 0xBF}, {0xFE, 0xFF}, {0xFF, 0xFE}}

func hasBOM(data []byte) bool {
	for _, bom := range boms {
		if bytes.HasPrefix(data, bom) {
			return true
		}
	}
	return false
}
