package layout

import (
	"fmt"
	"math"
	"strings"
)

// DefaultImageName is the resource name used when the caller does not name the image.
const DefaultImageName = "image"

// NormalizeImageFormat maps MIME types and common aliases to "jpeg" or "png". Other values are
// returned lower-cased and unchanged.
func NormalizeImageFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	f = strings.TrimPrefix(f, "image/")
	switch f {
	case "jpg", "jpeg", "pjpeg":
		return "jpeg"
	default:
		return f
	}
}

// SupportedImageFormat reports whether format is one of the two raster encodings we embed.
func SupportedImageFormat(format string) bool {
	switch NormalizeImageFormat(format) {
	case "jpeg", "png":
		return true
	default:
		return false
	}
}

// FitImage computes a uniform scale min(maxW/w, maxH/h, 1) so the image fits the bounds without ever
// being enlarged.
func FitImage(pixelWidth, pixelHeight float64, b Bounds) (ScaledImage, error) {
	if !positiveFinite(pixelWidth) || !positiveFinite(pixelHeight) {
		return ScaledImage{}, invalidInput(RuleImageDimensions, fmt.Sprintf("image size %gx%g must be positive and finite", pixelWidth, pixelHeight))
	}
	if !positiveFinite(b.MaxWidth) || !positiveFinite(b.MaxHeight) {
		return ScaledImage{}, invalidInput(RuleImageBounds, fmt.Sprintf("page bounds %gx%g must be positive and finite", b.MaxWidth, b.MaxHeight))
	}
	scale := math.Min(math.Min(b.MaxWidth/pixelWidth, b.MaxHeight/pixelHeight), 1)
	return ScaledImage{
		PixelWidth:  pixelWidth,
		PixelHeight: pixelHeight,
		Scale:       scale,
		Width:       pixelWidth * scale,
		Height:      pixelHeight * scale,
	}, nil
}

// LayoutImage produces a single-page document sized exactly to the fitted image, with the image placed
// at the origin.
func LayoutImage(img ImageResource, b Bounds) (*Document, error) {
	if !SupportedImageFormat(img.Format) {
		return nil, unsupportedFormat(RuleImageFormat, fmt.Sprintf("image encoding %q is not JPEG or PNG", img.Format))
	}
	s, err := FitImage(img.PixelWidth, img.PixelHeight, b)
	if err != nil {
		return nil, err
	}
	if img.Name == "" {
		img.Name = DefaultImageName
	}
	img.Format = NormalizeImageFormat(img.Format)

	page := Page{
		Width:  s.Width,
		Height: s.Height,
		Texts:  []TextBox{},
		Image: &ImageBox{
			Ref:    img.Name,
			Width:  s.Width,
			Height: s.Height,
			Scale:  s.Scale,
		},
	}
	return &Document{
		Geometry:  Geometry{Width: s.Width, Height: s.Height},
		Pages:     []Page{page},
		Resources: ResourceSet{Images: map[string]ImageResource{img.Name: img}},
	}, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
