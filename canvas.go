package rgbajpeg

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
)

// Options configures an encode. Quality scales the quantization table per
// quantize.go's convention (larger quality => finer quantization, since the
// effective step for coefficient k is quantTable[k]/quality). BitStreamBacking selects
// the string or packed-byte bit stream representation. The zero value is
// invalid: a Quality of 0 would divide by zero at decode time, so Save
// rejects it with a ConfigError.
type Options struct {
	Quality          float64
	BitStreamBacking Backing
}

// Canvas owns a W x H RGBA pixel buffer (row-major, four bytes per pixel)
// and drives the encode/decode pipeline over it. Grounded in
// original_source/Engine.h's Canvas class; it is single-owner and
// non-reentrant the same way (spec.md §4.G, §5): a Canvas must not be
// Saved or Loaded concurrently with itself.
type Canvas struct {
	width, height int
	pix           []byte
}

// Init allocates a W x H pixel buffer, replacing any previous contents.
// Every sample starts at zero (opaque black would additionally require
// setting alpha; callers needing a specific fill should follow Init with
// FillSolid).
func (c *Canvas) Init(width, height int) error {
	if width <= 0 || height <= 0 {
		return &ResourceError{Op: "Init", Msg: "width and height must be positive"}
	}
	c.width, c.height = width, height
	c.pix = make([]byte, width*height*4)
	return nil
}

// Free releases the pixel buffer, the Go equivalent of Engine.h's explicit
// Free() (Go's GC makes the call optional, but Canvas keeps the method so
// callers can drop the backing array before reuse without waiting on a new
// Init).
func (c *Canvas) Free() {
	c.width, c.height = 0, 0
	c.pix = nil
}

// Width and Height report the canvas's current extent.
func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Pixels returns the live pixel buffer, row-major RGBA, four bytes per
// pixel. Callers must not retain it past the Canvas's next mutating call.
func (c *Canvas) Pixels() []byte { return c.pix }

func (c *Canvas) requireInitialized(op string) error {
	if c.pix == nil {
		return &ResourceError{Op: op, Msg: "canvas not initialized"}
	}
	return nil
}

// FillSolid sets every pixel to rgba. Grounded in Engine.h's first
// SetAllPixels overload (constant color).
func (c *Canvas) FillSolid(r, g, b, a byte) error {
	if err := c.requireInitialized("FillSolid"); err != nil {
		return err
	}
	for i := 0; i < len(c.pix); i += 4 {
		c.pix[i+0], c.pix[i+1], c.pix[i+2], c.pix[i+3] = r, g, b, a
	}
	return nil
}

// EvalFunc computes a channel sample at pixel (i,j) given caller-supplied
// params, matching the f(i,j,params) signature spec.md §6 describes.
type EvalFunc func(i, j int, params any) float64

// FillFunc evaluates f(i,j,params) for every pixel, clamps the result to
// [0,255] and writes it into R, G and B; A is set from the same evaluator
// if withAlpha is true, otherwise A is forced to 255. Grounded in Engine.h's
// second SetAllPixels overload.
func (c *Canvas) FillFunc(f EvalFunc, params any, withAlpha bool) error {
	if err := c.requireInitialized("FillFunc"); err != nil {
		return err
	}
	for j := 0; j < c.height; j++ {
		for i := 0; i < c.width; i++ {
			v := clampByte(float32(f(i, j, params)))
			off := (j*c.width + i) * 4
			c.pix[off+0], c.pix[off+1], c.pix[off+2] = v, v, v
			if withAlpha {
				c.pix[off+3] = v
			} else {
				c.pix[off+3] = 255
			}
		}
	}
	return nil
}

// FillChannels evaluates fs[c](i,j,params[c]) independently per channel for
// every pixel whose bit is set in channelMask (bit 3 -> channel 0, bit 2 ->
// channel 1, bit 1 -> channel 2, bit 0 -> channel 3, per spec.md §6); a nil
// entry in fs leaves that channel untouched regardless of the mask.
// Grounded in Engine.h's third SetAllPixels overload.
func (c *Canvas) FillChannels(fs [4]EvalFunc, params [4]any, channelMask uint8) error {
	if err := c.requireInitialized("FillChannels"); err != nil {
		return err
	}
	for ch := 0; ch < 4; ch++ {
		bit := uint8(1) << uint(3-ch)
		if channelMask&bit == 0 || fs[ch] == nil {
			continue
		}
		for j := 0; j < c.height; j++ {
			for i := 0; i < c.width; i++ {
				off := (j*c.width+i)*4 + ch
				c.pix[off] = clampByte(float32(fs[ch](i, j, params[ch])))
			}
		}
	}
	return nil
}

// EditPixel writes rgba to every pixel in the square
// [x-scale,x+scale] x [y-scale,y+scale], clipped to the canvas extent.
func (c *Canvas) EditPixel(x, y int, r, g, b, a byte, scale int) error {
	if err := c.requireInitialized("EditPixel"); err != nil {
		return err
	}
	x0, x1 := clampInt(x-scale, 0, c.width-1), clampInt(x+scale, 0, c.width-1)
	y0, y1 := clampInt(y-scale, 0, c.height-1), clampInt(y+scale, 0, c.height-1)
	for j := y0; j <= y1; j++ {
		for i := x0; i <= x1; i++ {
			off := (j*c.width + i) * 4
			c.pix[off+0], c.pix[off+1], c.pix[off+2], c.pix[off+3] = r, g, b, a
		}
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Save encodes the canvas through the full pipeline (tile, color convert,
// sub-sample, DCT, quantize, zig-zag, symbolize) and writes the container
// to path. It returns the compression ratio (input bits / output bits),
// supplementing Engine.cpp's SaveAsJPEG, which prints the same ratio.
func (c *Canvas) Save(path string, opts Options) (float64, error) {
	if err := c.requireInitialized("Save"); err != nil {
		return 0, err
	}
	if opts.Quality <= 0 {
		return 0, &ConfigError{Field: "Quality", Msg: "must be positive"}
	}
	if opts.BitStreamBacking != StringBacking && opts.BitStreamBacking != PackedBacking {
		return 0, &ConfigError{Field: "BitStreamBacking", Msg: "must be StringBacking or PackedBacking"}
	}

	bs := NewBitStream(opts.BitStreamBacking)
	grid := NewBlockGrid(c.width, c.height)
	var prevDC [4]int32

	for by := 0; by < grid.Bh; by++ {
		for bx := 0; bx < grid.Bw; bx++ {
			ib := grid.Tile(c.pix, bx, by)
			RGBToYCbCr(&ib)
			cm := Deinterleave(&ib)

			for ch := 0; ch < 4; ch++ {
				chBlk := cm.Channel(ch)
				if ch == 1 || ch == 2 {
					DownSample420(chBlk)
				}
				ForwardDCT(chBlk)
				Quantize(chBlk, opts.Quality)
				ZigZag(chBlk)
				EncodeBlock(bs, chBlk, &prevDC[ch])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, &IOError{Op: "Save: create " + path, Err: err}
	}
	defer f.Close()

	w := newBufferedWriter(f)
	if err := writeHeader(w, c.width, c.height, opts.Quality, opts.BitStreamBacking); err != nil {
		return 0, &IOError{Op: "Save: write header " + path, Err: err}
	}
	if err := bs.Write(w); err != nil {
		return 0, &IOError{Op: "Save: write " + path, Err: errors.Wrap(err, "canvas: save")}
	}
	if err := w.Flush(); err != nil {
		return 0, &IOError{Op: "Save: flush " + path, Err: err}
	}

	inputBits := float64(c.width) * float64(c.height) * 4 * 8
	outputBits := float64(bs.Len())
	if outputBits == 0 {
		return 0, nil
	}
	return inputBits / outputBits, nil
}

// Load decodes the container at path and replaces the canvas's pixel
// buffer with the reconstructed image, mirroring Save's stages in reverse.
func (c *Canvas) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &IOError{Op: "Load: open " + path, Err: err}
	}
	defer f.Close()

	br := bufio.NewReader(f)
	width, height, quality, backing, err := readHeader(br)
	if err != nil {
		return err
	}
	if quality <= 0 {
		return &FormatError{Msg: "container: quality must be positive"}
	}

	bs := NewBitStream(backing)
	if err := bs.Read(br); err != nil {
		return &IOError{Op: "Load: read " + path, Err: errors.Wrap(err, "canvas: load")}
	}

	c.width, c.height = width, height
	c.pix = make([]byte, width*height*4)
	grid := NewBlockGrid(width, height)
	var prevDC [4]int32

	for by := 0; by < grid.Bh; by++ {
		for bx := 0; bx < grid.Bw; bx++ {
			var cm ChannelMajorBlock
			for ch := 0; ch < 4; ch++ {
				zz, err := DecodeBlock(bs, &prevDC[ch])
				if err != nil {
					return err
				}
				chBlk := cm.Channel(ch)
				*chBlk = *zz
				UnZigZag(chBlk)
				Dequantize(chBlk, quality)
				InverseDCT(chBlk)
			}
			ib := Interleave(&cm)
			YCbCrToRGB(&ib)
			grid.Scatter(c.pix, bx, by, &ib)
		}
	}
	return nil
}
