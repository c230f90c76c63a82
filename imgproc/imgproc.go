package imgproc

import (
	"image"
	"math"

	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

// BorderType selects how pixels outside the image are extrapolated.
type BorderType int

const (
	// BorderConstant pads with zeros.
	BorderConstant BorderType = 0
	// BorderReplicate repeats the edge pixel: aaaaaa|abcdefgh|hhhhhhh.
	BorderReplicate BorderType = 1
	// BorderReflect mirrors including the edge: fedcba|abcdefgh|hgfedcb.
	BorderReflect BorderType = 2
	// BorderWrap wraps around: cdefgh|abcdefgh|abcdefg.
	BorderWrap BorderType = 3
	// BorderReflect101 mirrors excluding the edge: gfedcb|abcdefgh|gfedcba.
	BorderReflect101 BorderType = 4
	// BorderDefault is BorderReflect101.
	BorderDefault = BorderReflect101
)

// assertf raises a StsAssert failure in fn when cond is false.
func assertf(cond bool, fn, expr string) {
	if !cond {
		native.Throw(native.StsAssert, fn, "Assertion failed: %s", expr)
	}
}

// requireU8 asserts that src is a non-empty 8-bit Mat.
func requireU8(fn string, src *mat.Mat) {
	assertf(!src.Empty(), fn, "!_src.empty()")
	if src.Depth() != mat.U8 {
		native.Throw(native.StsUnsupportedFormat, fn, "unsupported depth %s, expected CV_8U", src.Depth())
	}
}

// writeDst stores data into dst, allocating it as rows x cols of type t.
func writeDst(dst *mat.Mat, rows, cols int, t mat.Type, data []byte) error {
	if err := dst.Create(rows, cols, t); err != nil {
		return err
	}
	copy(dst.Data(), data)
	return nil
}

func clampU8(v float64) uint8 {
	v = math.RoundToEven(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// mapChannelGroups runs f over the channels of interleaved 8-bit data three
// at a time. Each group is packed into the RGB channels of an opaque RGBA
// image and read back from f's result, which may change the image size.
// f must return an *image.RGBA or *image.NRGBA.
func mapChannelGroups(data []byte, rows, cols, cn int, f func(*image.RGBA) image.Image) (out []byte, outRows, outCols int) {
	for c0 := 0; c0 < cn; c0 += 3 {
		n := min(3, cn-c0)

		img := image.NewRGBA(image.Rect(0, 0, cols, rows))
		for i := 0; i < rows*cols; i++ {
			copy(img.Pix[i*4:i*4+n], data[i*cn+c0:i*cn+c0+n])
			img.Pix[i*4+3] = 0xff
		}

		var pix []byte
		var stride int
		var b image.Rectangle
		switch r := f(img).(type) {
		case *image.RGBA:
			pix, stride, b = r.Pix, r.Stride, r.Rect
		case *image.NRGBA:
			pix, stride, b = r.Pix, r.Stride, r.Rect
		default:
			panic("imgproc: unexpected image type from channel group function")
		}

		if out == nil {
			outRows, outCols = b.Dy(), b.Dx()
			out = make([]byte, outRows*outCols*cn)
		}
		for y := 0; y < outRows; y++ {
			row := pix[y*stride:]
			for x := 0; x < outCols; x++ {
				i := y*outCols + x
				copy(out[i*cn+c0:i*cn+c0+n], row[x*4:x*4+n])
			}
		}
	}
	return out, outRows, outCols
}
