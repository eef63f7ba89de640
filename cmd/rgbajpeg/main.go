// Command rgbajpeg encodes an input raster image into the RGBA baseline
// codec container and can decode one back out to PNG for inspection.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"

	"github.com/kbrewster/rgbajpeg"
)

func main() {
	var in string
	var out string
	var decode string
	var quality float64
	var packed bool
	flag.StringVar(&in, "i", "", "Input image file path (encode mode)")
	flag.StringVar(&out, "o", "", "Output container file path (encode mode)")
	flag.StringVar(&decode, "d", "", "Input container file path (decode mode, writes a PNG to -o)")
	flag.Float64Var(&quality, "q", 1.0, "Quality scalar (larger means finer quantization)")
	flag.BoolVar(&packed, "packed", true, "Use the packed-byte bit stream backing instead of the string backing")
	flag.Parse()

	if decode != "" {
		if err := decodeToPNG(decode, out); err != nil {
			fmt.Fprintf(os.Stderr, "rgbajpeg: %s\n", err)
			os.Exit(1)
		}
		return
	}

	if in == "" || out == "" {
		fmt.Fprintf(os.Stderr, "rgbajpeg: -i and -o must be specified (or -d to decode)\n")
		os.Exit(1)
	}
	if err := encodeFromImage(in, out, quality, packed); err != nil {
		fmt.Fprintf(os.Stderr, "rgbajpeg: %s\n", err)
		os.Exit(1)
	}
}

func encodeFromImage(in, out string, quality float64, packed bool) error {
	file, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("cant open input %s: %w", in, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return fmt.Errorf("cant decode input %s: %w", in, err)
	}

	var c rgbajpeg.Canvas
	bounds := img.Bounds()
	if err := c.Init(bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}
	pix := c.Pixels()
	w := bounds.Dx()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			off := ((y-bounds.Min.Y)*w + (x - bounds.Min.X)) * 4
			pix[off+0] = byte(r >> 8)
			pix[off+1] = byte(g >> 8)
			pix[off+2] = byte(b >> 8)
			pix[off+3] = byte(a >> 8)
		}
	}

	backing := rgbajpeg.StringBacking
	if packed {
		backing = rgbajpeg.PackedBacking
	}
	ratio, err := c.Save(out, rgbajpeg.Options{Quality: quality, BitStreamBacking: backing})
	if err != nil {
		return fmt.Errorf("cant encode output %s: %w", out, err)
	}
	fmt.Printf("wrote %s, compression ratio %.2f\n", out, ratio)
	return nil
}

func decodeToPNG(in, out string) error {
	var c rgbajpeg.Canvas
	if err := c.Load(in); err != nil {
		return fmt.Errorf("cant load %s: %w", in, err)
	}

	img := image.NewRGBA(image.Rect(0, 0, c.Width(), c.Height()))
	copy(img.Pix, c.Pixels())

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("cant open output %s: %w", out, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("cant encode png %s: %w", out, err)
	}
	return nil
}
