package imgproc

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"

	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

// GaussianBlur smooths src with a separable Gaussian kernel and writes the
// result to dst.
//
// ksize must have odd positive components, or be zero in which case it is
// derived from the sigmas. A zero sigmaY takes sigmaX; a non-positive sigma
// is derived from the kernel size as 0.3*((k-1)*0.5-1)+0.8.
//
// src must be 8-bit. BorderWrap wraps around; every
// other mode except BorderConstant replicates the edge pixel.
func GaussianBlur(src, dst *mat.Mat, ksize image.Point, sigmaX, sigmaY float64, border BorderType) (err error) {
	defer native.Recover(&err)
	const fn = "GaussianBlur"

	requireU8(fn, src)
	cn := src.Channels()
	if border == BorderConstant {
		native.Throw(native.StsNotImplemented, fn, "BORDER_CONSTANT is not supported")
	}

	if sigmaY <= 0 {
		sigmaY = sigmaX
	}
	if ksize.X <= 0 && sigmaX > 0 {
		ksize.X = int(math.Round(sigmaX*3*2+1)) | 1
	}
	if ksize.Y <= 0 && sigmaY > 0 {
		ksize.Y = int(math.Round(sigmaY*3*2+1)) | 1
	}
	assertf(ksize.X > 0 && ksize.X%2 == 1 && ksize.Y > 0 && ksize.Y%2 == 1, fn,
		"ksize.width > 0 && ksize.width % 2 == 1 && ksize.height > 0 && ksize.height % 2 == 1")

	kx := gaussianKernel(ksize.X, sigmaX)
	ky := gaussianKernel(ksize.Y, sigmaY)

	// A bias of one half turns the truncation of each pass into rounding.
	opts := &convolution.Options{Bias: 0.5, Wrap: border == BorderWrap}
	res, rows, cols := mapChannelGroups(src.Data(), src.Rows(), src.Cols(), cn, func(img *image.RGBA) image.Image {
		out := convolution.Convolve(img, kx, opts)
		return convolution.Convolve(out, ky.Transposed(), opts)
	})
	return writeDst(dst, rows, cols, src.Type(), res)
}

// gaussianKernel returns a normalized kernel of n taps. A horizontal kernel
// is returned for width; transpose it for height.
func gaussianKernel(n int, sigma float64) *convolution.Kernel {
	if sigma <= 0 {
		sigma = 0.3*(float64(n-1)*0.5-1) + 0.8
	}
	k := convolution.NewKernel(n, 1)
	half := n / 2
	var sum float64
	for i := 0; i < n; i++ {
		x := float64(i - half)
		k.Matrix[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k.Matrix[i]
	}
	for i := range k.Matrix {
		k.Matrix[i] /= sum
	}
	return k
}
