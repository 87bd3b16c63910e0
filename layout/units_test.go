package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip checks pt->mm->pt conversions stay within float noise.
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt->mm->pt drift too large: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
	for _, mm := range samples {
		pt := mm * MmToPt
		back := pt * PtToMm
		if diff := math.Abs(back - mm); diff > 1e-9 {
			t.Fatalf("mm->pt->mm drift too large: in=%gmm pt=%g back=%g diff=%g", mm, pt, back, diff)
		}
	}
}

func TestLengthConversions(t *testing.T) {
	// 1 in = 25.4 mm = 72 pt
	in := Length{Value: 1, Unit: UnitIN}
	if got := in.ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("1in to mm: want 25.4, got %g", got)
	}
	if got := in.ToPT(); got != 72 {
		t.Fatalf("1in to pt: want 72, got %g", got)
	}
	cm := Length{Value: 2.54, Unit: UnitCM}
	if got := cm.ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("2.54cm to mm: want 25.4, got %g", got)
	}
	mm := Length{Value: 10, Unit: UnitMM}
	if got := mm.ToPT(); math.Abs(got-10*MmToPt) > 1e-9 {
		t.Fatalf("10mm to pt: want %g, got %g", 10*MmToPt, got)
	}
	bare := Length{Value: 50}
	if got := bare.ToPT(); got != 50 {
		t.Fatalf("unit-less length should be points, got %g", got)
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"12pt", Length{Value: 12, Unit: UnitPT}},
		{" 18mm ", Length{Value: 18, Unit: UnitMM}},
		{"2.5cm", Length{Value: 2.5, Unit: UnitCM}},
		{"1IN", Length{Value: 1, Unit: UnitIN}},
		{"50", Length{Value: 50}},
	}
	for _, tc := range cases {
		got, err := ParseLength(tc.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLength(%q): want %+v, got %+v", tc.in, tc.want, got)
		}
	}
	if _, err := ParseLength("twelve"); err == nil {
		t.Fatalf("expected an error for a non-numeric length")
	}
}

// TestLineHeightResolve covers factor and absolute line heights resolved in points.
func TestLineHeightResolve(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.5x", 18},
		{"1.2", 14.4},
		{"18pt", 18},
		{"6mm", 6 * MmToPt},
	}
	for _, tc := range cases {
		spec, err := ParseLineHeight(tc.in)
		if err != nil {
			t.Fatalf("ParseLineHeight(%q) failed: %v", tc.in, err)
		}
		if got := spec.Resolve(12); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("line height %q at 12pt: want %g, got %g", tc.in, tc.want, got)
		}
	}
}
