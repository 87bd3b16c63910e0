package layout

import (
	"errors"
	"math"
	"testing"
)

func TestFitImageSmallKeepsNativeSize(t *testing.T) {
	s, err := FitImage(320, 240, DefaultImageBounds())
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if s.Scale != 1 || s.Width != 320 || s.Height != 240 {
		t.Fatalf("small image must not be scaled, got %+v", s)
	}
}

func TestFitImageOversized(t *testing.T) {
	b := DefaultImageBounds()
	cases := [][2]float64{{4000, 3000}, {1000, 5000}, {600, 842}, {12000, 100}}
	for _, c := range cases {
		s, err := FitImage(c[0], c[1], b)
		if err != nil {
			t.Fatalf("fit %v failed: %v", c, err)
		}
		if s.Scale >= 1 {
			t.Fatalf("%v: oversized image should shrink, scale=%g", c, s.Scale)
		}
		if s.Width > b.MaxWidth+1e-9 || s.Height > b.MaxHeight+1e-9 {
			t.Fatalf("%v: %gx%g exceeds bounds", c, s.Width, s.Height)
		}
		if diff := math.Abs(s.Width/s.Height - c[0]/c[1]); diff > 1e-9 {
			t.Fatalf("%v: aspect ratio drifted by %g", c, diff)
		}
	}
}

func TestFitImageRejectsBadInput(t *testing.T) {
	for _, c := range [][2]float64{{0, 10}, {10, -1}, {math.NaN(), 10}, {10, math.Inf(1)}} {
		_, err := FitImage(c[0], c[1], DefaultImageBounds())
		if !errors.Is(err, ErrInvalidInput) || RuleOf(err) != RuleImageDimensions {
			t.Fatalf("%v: want invalid dimensions, got %v", c, err)
		}
	}
	_, err := FitImage(10, 10, Bounds{MaxWidth: 0, MaxHeight: 100})
	if !errors.Is(err, ErrInvalidInput) || RuleOf(err) != RuleImageBounds {
		t.Fatalf("want invalid bounds, got %v", err)
	}
}

func TestLayoutImageSinglePage(t *testing.T) {
	img := ImageResource{Format: "image/jpg", PixelWidth: 1190.56, PixelHeight: 841.89, Data: []byte{1}}
	doc, err := LayoutImage(img, DefaultImageBounds())
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("want one page, got %d", len(doc.Pages))
	}
	p := doc.Pages[0]
	if p.Image == nil || p.Image.Ref != DefaultImageName {
		t.Fatalf("page should reference the image resource, got %+v", p.Image)
	}
	if math.Abs(p.Image.Scale-0.5) > 1e-9 {
		t.Fatalf("want scale 0.5, got %g", p.Image.Scale)
	}
	if p.Width != p.Image.Width || p.Height != p.Image.Height || p.Image.X != 0 || p.Image.Y != 0 {
		t.Fatalf("page should be sized to the image at the origin: %+v", p)
	}
	res, ok := doc.Resources.Images[DefaultImageName]
	if !ok || res.Format != "jpeg" {
		t.Fatalf("resource not registered with a normalized format: %+v", doc.Resources)
	}
}

func TestLayoutImageUnsupportedFormat(t *testing.T) {
	for _, f := range []string{"gif", "image/webp", ""} {
		_, err := LayoutImage(ImageResource{Format: f, PixelWidth: 10, PixelHeight: 10}, DefaultImageBounds())
		if !errors.Is(err, ErrUnsupportedFormat) || RuleOf(err) != RuleImageFormat {
			t.Fatalf("format %q: want unsupported format, got %v", f, err)
		}
	}
}

func TestNormalizeImageFormat(t *testing.T) {
	cases := map[string]string{"JPG": "jpeg", "image/jpeg": "jpeg", "image/PNG": "png", "png": "png", "gif": "gif"}
	for in, want := range cases {
		if got := NormalizeImageFormat(in); got != want {
			t.Fatalf("NormalizeImageFormat(%q): want %q, got %q", in, want, got)
		}
	}
}
