package layout

// This file defines the layout result shared by the engine, the renderers and the debug JSON dump.

// Document is the engine's output: ordered pages plus the geometry they were laid out with.
type Document struct {
	Geometry  Geometry     `json:"geometry"`
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet holds the binary assets referenced by placements.
type ResourceSet struct {
	Images map[string]ImageResource `json:"images,omitempty"`
}

// ImageResource is an encoded raster image together with its native pixel size.
// Format is the short encoding name ("jpeg" or "png").
type ImageResource struct {
	Name        string  `json:"name"`
	Format      string  `json:"format"`
	PixelWidth  float64 `json:"pixelWidth"`
	PixelHeight float64 `json:"pixelHeight"`
	Data        []byte  `json:"-"`
}

// Page is one fixed-size canvas. Coordinates are PDF points with the origin at the bottom-left corner.
type Page struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Texts  []TextBox `json:"texts"`
	Image  *ImageBox `json:"image,omitempty"`
}

// TextBox is a laid-out line placed at its baseline origin.
type TextBox struct {
	Content   string  `json:"content"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Font      string  `json:"font"`
	FontSize  float64 `json:"fontSize"`
	Paragraph int     `json:"paragraph"`
	Blank     bool    `json:"blank,omitempty"` // occupies a slot, nothing to draw
}

// ImageBox places an image resource on a page.
type ImageBox struct {
	Ref    string  `json:"ref"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// Paragraph is the run of words between two input line breaks.
// A Blank paragraph marks an empty (or whitespace-only) input line.
type Paragraph struct {
	Index int      `json:"index"`
	Words []string `json:"words,omitempty"`
	Blank bool     `json:"blank,omitempty"`
}

// Line is one row produced by the line breaker.
type Line struct {
	Content   string  `json:"content"`
	Paragraph int     `json:"paragraph"`
	Width     float64 `json:"width"`
	Blank     bool    `json:"blank,omitempty"`
	// Overflow is set when the line is a single word wider than the line width.
	Overflow bool `json:"overflow,omitempty"`
}

// ScaledImage records how an image was fitted into the page bounds.
type ScaledImage struct {
	PixelWidth  float64 `json:"pixelWidth"`
	PixelHeight float64 `json:"pixelHeight"`
	Scale       float64 `json:"scale"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

// DocumentMeta is written into the PDF info dictionary.
type DocumentMeta struct {
	Title   string `json:"title"`
	Subject string `json:"subject,omitempty"`
	Author  string `json:"author,omitempty"`
	Creator string `json:"creator"`
}

// LineCount returns the number of text placements across all pages.
func (d *Document) LineCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, p := range d.Pages {
		n += len(p.Texts)
	}
	return n
}
