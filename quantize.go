package rgbajpeg

import "math"

// quantTable is the fixed 8x8 luminance quantization table in natural
// (row-major) order, reused for every channel (spec.md §3/§4.E: "the same
// table is used for chrominance in this system"). Transcribed verbatim
// from original_source/jpeg/jpeg.cpp's quant_mat8x8_jpeg2000 — despite its
// name that table is the standard JPEG Annex K luminance table in natural
// order, not a JPEG2000 table; the original author's comment is misleading
// but the values are the ones this module reproduces.
var quantTable = [64]float32{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

// zigzagOrder maps zig-zag position e to its natural-order index: the
// zig-zagged value at e comes from natural position zigzagOrder[e].
// Transcribed verbatim from original_source/jpeg/jpeg.cpp's zigzag_mat8x8.
var zigzagOrder = [64]int{
	0,
	1, 8,
	16, 9, 2,
	3, 10, 17, 24,
	32, 25, 18, 11, 4,
	5, 12, 19, 26, 33, 40,
	48, 41, 34, 27, 20, 13, 6,
	7, 14, 21, 28, 35, 42, 49, 56,
	57, 50, 43, 36, 29, 22, 15,
	23, 30, 37, 44, 51, 58,
	59, 52, 45, 38, 31,
	39, 46, 53, 60,
	61, 54, 47,
	55, 62,
	63,
}

// Quantize divides each of the 64 channel-major coefficients by the
// matching quantization table entry and scales by quality, rounding to the
// nearest integer (represented as a float32). This module fixes the
// direction spec.md §3/§9.4 mandates: multiply by quality on encode,
// divide by quality on decode, so the effective step for coefficient k is
// quantTable[k]/quality and a larger quality means *finer* quantization
// (larger-magnitude quantized values). Grounded in
// original_source/jpeg/jpeg.cpp's Quantize, which performs this exact
// round(x/q*quality).
func Quantize(cb *ChannelBlock, quality float64) {
	for k := 0; k < 64; k++ {
		cb[k] = float32(math.Round(float64(cb[k]) / float64(quantTable[k]) * quality))
	}
}

// Dequantize is the inverse of Quantize: x = q * Q / quality. Grounded in
// original_source/jpeg/jpeg.cpp's Dequantize.
func Dequantize(cb *ChannelBlock, quality float64) {
	for k := 0; k < 64; k++ {
		cb[k] = cb[k] * quantTable[k] / float32(quality)
	}
}

// ZigZag permutes cb from natural row-major order into zig-zag scan order
// in place, so the DC coefficient ends up at index 0 and high-frequency
// coefficients trail. Grounded in original_source/jpeg/jpeg.cpp's Zigzag.
func ZigZag(cb *ChannelBlock) {
	var natural ChannelBlock
	copy(natural[:], cb[:])
	for e := 0; e < 64; e++ {
		cb[e] = natural[zigzagOrder[e]]
	}
}

// UnZigZag is the inverse of ZigZag, restoring natural row-major order.
// Its permutation is the transpose of ZigZag's, per spec.md §3. Grounded
// in original_source/jpeg/jpeg.cpp's Unzigzag.
func UnZigZag(cb *ChannelBlock) {
	var zig ChannelBlock
	copy(zig[:], cb[:])
	for e := 0; e < 64; e++ {
		cb[zigzagOrder[e]] = zig[e]
	}
}
