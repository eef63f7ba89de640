package rgbajpeg

// RGBToYCbCr converts channels 0..2 of an interleaved block in place from
// RGB to YCbCr using the JFIF constants, leaving channel 3 (alpha)
// untouched. Grounded in original_source/jpeg/jpeg.cpp's RGB2YCC, which
// applies the identical per-pixel matrix over the interleaved [r,g,b,a]x64
// buffer; the teacher's writer.go instead calls into
// image/color.RGBToYCbCr per pixel with integer rounding, which loses the
// sub-1.0 round-trip precision spec.md §8.4 requires, so this module uses
// the float matrix from the original source instead.
func RGBToYCbCr(ib *InterleavedBlock) {
	for e := 0; e < 256; e += 4 {
		r, g, b := ib[e+0], ib[e+1], ib[e+2]
		ib[e+0] = 0.299*r + 0.587*g + 0.114*b
		ib[e+1] = 128 - 0.168736*r - 0.331264*g + 0.5*b
		ib[e+2] = 128 + 0.5*r - 0.418688*g - 0.081312*b
	}
}

// YCbCrToRGB is the inverse of RGBToYCbCr, applying the JFIF inverse
// matrix over channels 0..2 of the interleaved block in place.
func YCbCrToRGB(ib *InterleavedBlock) {
	for e := 0; e < 256; e += 4 {
		y, cb, cr := ib[e+0], ib[e+1], ib[e+2]
		ib[e+0] = y + 1.402*(cr-128)
		ib[e+1] = y - 0.344136*(cb-128) - 0.714136*(cr-128)
		ib[e+2] = y + 1.772*(cb-128)
	}
}

// DownSample420 averages each 2x2 cell of channel c (channel-major layout)
// and broadcasts the average back to all four positions, reducing Cb/Cr's
// effective spatial resolution by 2x in each axis without changing the
// sample count. Grounded in original_source/jpeg/jpeg.cpp's
// DownSampling420, which performs the identical 2x2 box-average broadcast;
// there is no separate up-sample step (see DESIGN.md open question 3 /
// spec.md §9.3) — decode uses the broadcast values directly.
func DownSample420(cb *ChannelBlock) {
	for i := 0; i < 8; i += 2 {
		for j := 0; j < 8; j += 2 {
			sum := cb[i*8+j] + cb[i*8+j+1] + cb[(i+1)*8+j] + cb[(i+1)*8+j+1]
			avg := sum * 0.25
			cb[i*8+j] = avg
			cb[i*8+j+1] = avg
			cb[(i+1)*8+j] = avg
			cb[(i+1)*8+j+1] = avg
		}
	}
}
