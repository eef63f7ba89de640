package rgbajpeg

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func within(got, want byte, tol int) bool {
	d := int(got) - int(want)
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// TestSolidGraySixteenRoundTrip is scenario S1: a 16x16 solid-gray image
// round-trips within +/-2 per channel at quality 1.
func TestSolidGraySixteenRoundTrip(t *testing.T) {
	var c Canvas
	if err := c.Init(16, 16); err != nil {
		t.Fatal(err)
	}
	if err := c.FillSolid(128, 128, 128, 255); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "s1.rgbajpeg")
	if _, err := c.Save(path, Options{Quality: 1, BitStreamBacking: PackedBacking}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var dec Canvas
	if err := dec.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	pix := dec.Pixels()
	for i := 0; i < len(pix); i += 4 {
		if !within(pix[i+0], 128, 2) || !within(pix[i+1], 128, 2) || !within(pix[i+2], 128, 2) || !within(pix[i+3], 255, 2) {
			t.Fatalf("pixel %d = (%d,%d,%d,%d), want ~(128,128,128,255)", i/4, pix[i], pix[i+1], pix[i+2], pix[i+3])
		}
	}
}

// TestSolidRedTwentyFourRoundTrip is scenario S2.
func TestSolidRedTwentyFourRoundTrip(t *testing.T) {
	var c Canvas
	if err := c.Init(24, 24); err != nil {
		t.Fatal(err)
	}
	if err := c.FillSolid(255, 0, 0, 255); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "s2.rgbajpeg")
	if _, err := c.Save(path, Options{Quality: 1, BitStreamBacking: PackedBacking}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var dec Canvas
	if err := dec.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	pix := dec.Pixels()
	for i := 0; i < len(pix); i += 4 {
		if pix[i+0] < 250 {
			t.Fatalf("pixel %d R = %d, want >= 250", i/4, pix[i+0])
		}
		if pix[i+1] > 5 {
			t.Fatalf("pixel %d G = %d, want <= 5", i/4, pix[i+1])
		}
		if pix[i+2] > 5 {
			t.Fatalf("pixel %d B = %d, want <= 5", i/4, pix[i+2])
		}
	}
}

// TestImpulseEightRoundTrip is scenario S3: an 8x8 image with a single
// white pixel at the origin on a black background round-trips with
// non-negative samples and the origin remaining the brightest pixel.
func TestImpulseEightRoundTrip(t *testing.T) {
	var c Canvas
	if err := c.Init(8, 8); err != nil {
		t.Fatal(err)
	}
	if err := c.FillSolid(0, 0, 0, 255); err != nil {
		t.Fatal(err)
	}
	if err := c.EditPixel(0, 0, 255, 255, 255, 255, 0); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "s3.rgbajpeg")
	if _, err := c.Save(path, Options{Quality: 1, BitStreamBacking: PackedBacking}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var dec Canvas
	if err := dec.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	pix := dec.Pixels()

	brightest := -1
	brightestVal := -1
	for p := 0; p < 64; p++ {
		off := p * 4
		lum := int(pix[off]) + int(pix[off+1]) + int(pix[off+2])
		if lum > brightestVal {
			brightestVal = lum
			brightest = p
		}
	}
	if brightest != 0 {
		t.Errorf("brightest pixel index = %d, want 0 (the origin)", brightest)
	}
}

// TestGaussianFortyCompressionRatio is scenario S4: a 40x40 image with a
// centered Gaussian bump per channel compresses at least 4x at quality 5.
func TestGaussianFortyCompressionRatio(t *testing.T) {
	var c Canvas
	if err := c.Init(40, 40); err != nil {
		t.Fatal(err)
	}
	gaussian := func(i, j int, params any) float64 {
		cx, cy := 20.0, 20.0
		dx, dy := float64(i)-cx, float64(j)-cy
		return 200 * math.Exp(-(dx*dx+dy*dy)/(2*10*10))
	}
	if err := c.FillFunc(gaussian, nil, false); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "s4.rgbajpeg")
	ratio, err := c.Save(path, Options{Quality: 5, BitStreamBacking: PackedBacking})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ratio < 4 {
		t.Errorf("compression ratio = %.2f, want >= 4", ratio)
	}
}

// TestCorruptedStreamIsFormatError corrupts a saved container by cutting
// its payload off after the header line and backing tag; decoding it must
// fail with a *FormatError.
func TestCorruptedStreamIsFormatError(t *testing.T) {
	var c Canvas
	if err := c.Init(16, 16); err != nil {
		t.Fatal(err)
	}
	if err := c.FillSolid(50, 100, 150, 255); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "s5.rgbajpeg")
	if _, err := c.Save(path, Options{Quality: 1, BitStreamBacking: PackedBacking}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Truncate to the header and backing tag only, with zero payload
	// bytes, so decode runs out of bits on the very first symbol
	// regardless of how well the image happened to compress.
	nl := -1
	for i, b := range data {
		if b == '\n' {
			nl = i
			break
		}
	}
	if nl < 0 {
		t.Fatalf("saved container has no header newline")
	}
	cut := nl + 1 /* tag byte */ + 1
	if cut > len(data) {
		cut = len(data)
	}
	truncated := data[:cut]
	if err := os.WriteFile(path, truncated, 0o644); err != nil {
		t.Fatal(err)
	}

	var dec Canvas
	err = dec.Load(path)
	if err == nil {
		t.Fatalf("expected an error decoding a truncated container, got nil")
	}
	if _, ok := err.(*FormatError); !ok {
		t.Fatalf("expected *FormatError, got %T: %v", err, err)
	}
}

// TestSeventeenBySeventeenRoundTrip is scenario S6: a non-multiple-of-8
// image round-trips without the edge-replicated padding leaking into the
// output buffer's dimensions.
func TestSeventeenBySeventeenRoundTrip(t *testing.T) {
	var c Canvas
	if err := c.Init(17, 17); err != nil {
		t.Fatal(err)
	}
	gradient := func(i, j int, params any) float64 {
		return float64((i*7 + j*13) % 256)
	}
	if err := c.FillFunc(gradient, nil, false); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "s6.rgbajpeg")
	if _, err := c.Save(path, Options{Quality: 1, BitStreamBacking: PackedBacking}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var dec Canvas
	if err := dec.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if dec.Width() != 17 || dec.Height() != 17 {
		t.Fatalf("decoded dimensions = %dx%d, want 17x17", dec.Width(), dec.Height())
	}
	if len(dec.Pixels()) != 17*17*4 {
		t.Fatalf("decoded pixel buffer length = %d, want %d", len(dec.Pixels()), 17*17*4)
	}
}

func TestFillChannelsRespectsMask(t *testing.T) {
	var c Canvas
	if err := c.Init(2, 2); err != nil {
		t.Fatal(err)
	}
	if err := c.FillSolid(10, 20, 30, 40); err != nil {
		t.Fatal(err)
	}

	constFns := [4]EvalFunc{
		func(i, j int, p any) float64 { return 111 },
		nil,
		func(i, j int, p any) float64 { return 222 },
		nil,
	}
	// bit 3 -> channel 0, bit 1 -> channel 2
	const mask = 0b1010
	if err := c.FillChannels(constFns, [4]any{}, mask); err != nil {
		t.Fatal(err)
	}

	pix := c.Pixels()
	if pix[0] != 111 {
		t.Errorf("channel 0 = %d, want 111", pix[0])
	}
	if pix[1] != 20 {
		t.Errorf("channel 1 should be untouched, got %d, want 20", pix[1])
	}
	if pix[2] != 222 {
		t.Errorf("channel 2 = %d, want 222", pix[2])
	}
	if pix[3] != 40 {
		t.Errorf("channel 3 should be untouched, got %d, want 40", pix[3])
	}
}

func TestSaveRejectsInvalidOptions(t *testing.T) {
	var c Canvas
	if err := c.Init(8, 8); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "bad.rgbajpeg")

	if _, err := c.Save(path, Options{Quality: 0, BitStreamBacking: PackedBacking}); err == nil {
		t.Fatalf("expected a ConfigError for Quality=0")
	} else if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
}

func TestInitRejectsNonPositiveDimensions(t *testing.T) {
	var c Canvas
	if err := c.Init(0, 5); err == nil {
		t.Fatalf("expected a ResourceError for zero width")
	} else if _, ok := err.(*ResourceError); !ok {
		t.Fatalf("expected *ResourceError, got %T: %v", err, err)
	}
}
