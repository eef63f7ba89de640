package rgbajpeg

// InterleavedBlock is an 8x8x4 tile of floating-point samples in
// (R,G,B,A)-per-pixel, row-major order: sample (i,j,c) lives at index
// (i*8+j)*4+c. Color conversion and chroma sub-sampling operate on this
// layout (spec.md §3).
type InterleavedBlock [256]float32

// ChannelMajorBlock is the same 8x8x4 tile with channel c occupying the
// contiguous sub-range [c*64, c*64+64) in row-major intra-block order. DCT,
// quantization and zig-zag operate on this layout.
type ChannelMajorBlock [256]float32

// Channel returns a view of channel c (0=R/Y, 1=G/Cb, 2=B/Cr, 3=A) as a
// ChannelBlock, suitable for ForwardDCT/InverseDCT and the quantizer.
func (cb *ChannelMajorBlock) Channel(c int) *ChannelBlock {
	return (*ChannelBlock)(cb[c*64 : c*64+64])
}

// Deinterleave converts an InterleavedBlock into channel-major layout, the
// "Union Channels" stage of the pipeline. Grounded in
// original_source/jpeg/jpeg.cpp's UnionChannels, which performs the exact
// same [r,g,b,a]x64 -> [r]x64,[g]x64,[b]x64,[a]x64 regrouping.
func Deinterleave(ib *InterleavedBlock) ChannelMajorBlock {
	var cb ChannelMajorBlock
	for c := 0; c < 4; c++ {
		for i := 0; i < 64; i++ {
			cb[c*64+i] = ib[i*4+c]
		}
	}
	return cb
}

// Interleave is the inverse of Deinterleave, the "Scatter Channels" stage.
// Grounded in original_source/jpeg/jpeg.cpp's ScatterChannels.
func Interleave(cb *ChannelMajorBlock) InterleavedBlock {
	var ib InterleavedBlock
	for c := 0; c < 4; c++ {
		for i := 0; i < 64; i++ {
			ib[i*4+c] = cb[c*64+i]
		}
	}
	return ib
}

// BlockGrid describes the tiling of a W x H pixel buffer into 8x8 blocks,
// with Bw/Bh the ceiling-divided block counts of spec.md §3.
type BlockGrid struct {
	W, H   int
	Bw, Bh int
}

// NewBlockGrid computes the block grid for a W x H image.
func NewBlockGrid(w, h int) BlockGrid {
	return BlockGrid{W: w, H: h, Bw: (w + 7) / 8, Bh: (h + 7) / 8}
}

// Tile extracts the 8x8 block at block-coordinates (bx, by) from an
// interleaved RGBA pixel buffer, replicating edge samples for any part of
// the block that falls outside the image: samples with column >= W copy
// from column W-1, samples with row >= H copy from row H-1. This follows
// the clamping pattern of the teacher's rgbaToYCbCr in writer.go (which
// clamps sx/sy to xmax/ymax per sample) generalized from 3 channels to 4
// and from a single destination channel set to the full interleaved block.
func (g BlockGrid) Tile(pix []byte, bx, by int) InterleavedBlock {
	var blk InterleavedBlock
	xmax, ymax := g.W-1, g.H-1
	for j := 0; j < 8; j++ {
		sy := by*8 + j
		if sy > ymax {
			sy = ymax
		}
		for i := 0; i < 8; i++ {
			sx := bx*8 + i
			if sx > xmax {
				sx = xmax
			}
			srcOff := (sy*g.W + sx) * 4
			dstOff := (j*8 + i) * 4
			blk[dstOff+0] = float32(pix[srcOff+0])
			blk[dstOff+1] = float32(pix[srcOff+1])
			blk[dstOff+2] = float32(pix[srcOff+2])
			blk[dstOff+3] = float32(pix[srcOff+3])
		}
	}
	return blk
}

// Scatter writes the 8x8 block at block-coordinates (bx, by) back into an
// interleaved RGBA pixel buffer, discarding any samples that fall outside
// the image extent (the edge-replicated padding introduced by Tile).
func (g BlockGrid) Scatter(pix []byte, bx, by int, blk *InterleavedBlock) {
	for j := 0; j < 8; j++ {
		dy := by*8 + j
		if dy >= g.H {
			continue
		}
		for i := 0; i < 8; i++ {
			dx := bx*8 + i
			if dx >= g.W {
				continue
			}
			dstOff := (dy*g.W + dx) * 4
			srcOff := (j*8 + i) * 4
			pix[dstOff+0] = clampByte(blk[srcOff+0])
			pix[dstOff+1] = clampByte(blk[srcOff+1])
			pix[dstOff+2] = clampByte(blk[srcOff+2])
			pix[dstOff+3] = clampByte(blk[srcOff+3])
		}
	}
}

// clampByte clips f to [0,255] and truncates to uint8, the level-shift-free
// counterpart of the teacher's clampToUint8 in scan.go (which also adds
// back a 128 level shift that this module's InverseDCT already applies).
func clampByte(f float32) byte {
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return byte(f)
}
