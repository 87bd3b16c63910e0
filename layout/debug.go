package layout

import (
	"encoding/json"
	"io"
	"os"
)

// WriteDebugJSON dumps the document as indented JSON so a layout can be inspected without rendering.
func WriteDebugJSON(doc *Document, path string) error {
	if doc == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebugJSON(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeDebugJSON writes the indented JSON form of doc to w.
func EncodeDebugJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
