package rgbajpeg

import "math"

// dctMatrix is the precomputed 8x8 basis matrix
// M[u][x] = (1/2) * C(u) * cos((2x+1)*u*pi/16), C(0) = 1/sqrt(2), C(k>0) = 1,
// laid out row-major (dctMatrix[8*u+x]). Both the forward and inverse
// transforms reduce to two matrix multiplies against this single matrix,
// exactly as original_source/jpeg/jpeg.cpp's dct_mat8x8 is built and used
// by ForwardTransform8x8/InverseTransform8x8.
var dctMatrix [64]float32

func init() {
	const pi = math.Pi
	for u := 0; u < 8; u++ {
		cu := float32(1)
		if u == 0 {
			cu = float32(1 / math.Sqrt2)
		}
		for x := 0; x < 8; x++ {
			dctMatrix[u*8+x] = 0.5 * cu * float32(math.Cos(float64(2*x+1)*float64(u)*pi/16))
		}
	}
}

// ChannelBlock is a single channel's 64 channel-major samples (row-major
// within the 8x8 tile), the layout the DCT, quantization and zig-zag stages
// of spec.md §4 operate on.
type ChannelBlock [64]float32

// matMul8x8 computes dst = a * b for two 8x8 matrices held as flat
// row-major 64-element arrays, the same nested triple loop
// original_source/jpeg/jpeg.cpp's ForwardTransform8x8 uses.
func matMul8x8(a, b *[64]float32) [64]float32 {
	var dst [64]float32
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			var sum float32
			for k := 0; k < 8; k++ {
				sum += a[i*8+k] * b[k*8+j]
			}
			dst[i*8+j] = sum
		}
	}
	return dst
}

// transposeInto8x8 returns the transpose of an 8x8 matrix held as a flat
// row-major 64-element array.
func transposeInto8x8(m *[64]float32) [64]float32 {
	var t [64]float32
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			t[j*8+i] = m[i*8+j]
		}
	}
	return t
}

// ForwardDCT performs the level-shifted, separable 8x8 type-II DCT on b in
// place: T = M . B, X = T . M^T, after subtracting 128 from every sample.
func ForwardDCT(b *ChannelBlock) {
	var shifted [64]float32
	for i := range b {
		shifted[i] = b[i] - 128
	}
	t := matMul8x8(&dctMatrix, &shifted)
	mt := transposeInto8x8(&dctMatrix)
	x := matMul8x8(&t, &mt)
	*b = ChannelBlock(x)
}

// InverseDCT performs the inverse of ForwardDCT in place: T = M^T . X,
// B = T . M, followed by adding 128 back.
func InverseDCT(b *ChannelBlock) {
	mt := transposeInto8x8(&dctMatrix)
	t := matMul8x8(&mt, (*[64]float32)(b))
	x := matMul8x8(&t, &dctMatrix)
	for i := range x {
		x[i] += 128
	}
	*b = ChannelBlock(x)
}
