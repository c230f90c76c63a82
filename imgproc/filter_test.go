package imgproc

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

func TestGaussianBlur_ConstantImage(t *testing.T) {
	tests := []struct {
		name string
		typ  mat.Type
		px   []byte
	}{
		{"gray", mat.CV8UC1, []byte{100}},
		{"bgr", mat.CV8UC3, []byte{10, 100, 250}},
		{"bgra keeps alpha", mat.CV8UC4, []byte{10, 100, 250, 77}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newMat(t, 5, 5, tt.typ, fill(25, tt.px...))
			dst := newDst(t)

			require.NoError(t, GaussianBlur(src, dst, image.Pt(3, 3), 0, 0, BorderDefault))
			require.Equal(t, tt.typ, dst.Type())
			require.Equal(t, src.Data(), dst.Data())
		})
	}
}

func TestGaussianBlur_Spreads(t *testing.T) {
	src := newMat(t, 1, 5, mat.CV8UC1, []byte{0, 0, 255, 0, 0})
	dst := newDst(t)

	require.NoError(t, GaussianBlur(src, dst, image.Pt(3, 1), 0, 0, BorderReplicate))
	got := dst.Data()
	require.Equal(t, byte(0), got[0])
	require.Equal(t, byte(0), got[4])
	require.Equal(t, got[1], got[3])
	require.Greater(t, got[1], byte(0))
	require.Less(t, got[2], byte(255))
	require.Greater(t, got[2], got[1])
}

func TestGaussianBlur_KernelFromSigma(t *testing.T) {
	src := newMat(t, 4, 4, mat.CV8UC1, fill(16, 42))
	dst := newDst(t)

	require.NoError(t, GaussianBlur(src, dst, image.Point{}, 1.2, 0, BorderDefault))
	require.Equal(t, fill(16, 42), dst.Data())
}

func TestGaussianBlur_Errors(t *testing.T) {
	src := newMat(t, 3, 3, mat.CV8UC1, fill(9, 1))

	err := GaussianBlur(src, newDst(t), image.Pt(4, 3), 0, 0, BorderDefault)
	requireException(t, err, native.StsAssert, "GaussianBlur")

	err = GaussianBlur(src, newDst(t), image.Point{}, 0, 0, BorderDefault)
	requireException(t, err, native.StsAssert, "GaussianBlur")

	err = GaussianBlur(src, newDst(t), image.Pt(3, 3), 0, 0, BorderConstant)
	requireException(t, err, native.StsNotImplemented, "GaussianBlur")
}

func TestThreshold_Types(t *testing.T) {
	data := []byte{0, 50, 100, 150, 200, 250}
	tests := []struct {
		typ  ThresholdType
		want []byte
	}{
		{ThresholdBinary, []byte{0, 0, 0, 200, 200, 200}},
		{ThresholdBinaryInv, []byte{200, 200, 200, 0, 0, 0}},
		{ThresholdTrunc, []byte{0, 50, 100, 100, 100, 100}},
		{ThresholdToZero, []byte{0, 0, 0, 150, 200, 250}},
		{ThresholdToZeroInv, []byte{0, 50, 100, 0, 0, 0}},
	}
	for _, tt := range tests {
		src := newMat(t, 1, 6, mat.CV8UC1, data)
		dst := newDst(t)

		got, err := Threshold(src, dst, 100.7, 200, tt.typ)
		require.NoError(t, err)
		require.Equal(t, 100.0, got)
		require.Equal(t, tt.want, dst.Data(), "type %d", tt.typ)
	}
}

func TestThreshold_Otsu(t *testing.T) {
	data := append(fill(8, 20), fill(8, 200)...)
	src := newMat(t, 4, 4, mat.CV8UC1, data)
	dst := newDst(t)

	got, err := Threshold(src, dst, 0, 255, ThresholdBinary|ThresholdOtsu)
	require.NoError(t, err)
	require.Equal(t, 20.0, got)
	require.Equal(t, append(fill(8, 0), fill(8, 255)...), dst.Data())
}

func TestThreshold_Triangle(t *testing.T) {
	data := append(fill(8, 20), fill(8, 200)...)
	src := newMat(t, 4, 4, mat.CV8UC1, data)
	dst := newDst(t)

	got, err := Threshold(src, dst, 0, 255, ThresholdBinaryInv|ThresholdTriangle)
	require.NoError(t, err)
	require.GreaterOrEqual(t, got, 20.0)
	require.Less(t, got, 200.0)
	require.Equal(t, append(fill(8, 255), fill(8, 0)...), dst.Data())
}

func TestThreshold_Float(t *testing.T) {
	src, err := mat.NewMatWithSize(1, 3, mat.CV32FC1)
	require.NoError(t, err)
	defer src.Release()
	require.NoError(t, src.SetDataFloat32([]float32{0.5, 1.5, 3}))
	dst := newDst(t)

	_, err = Threshold(src, dst, 1, 2, ThresholdBinary)
	require.NoError(t, err)
	vals, err := dst.DataFloat32()
	require.NoError(t, err)
	require.Equal(t, []float32{0, 2, 2}, vals)

	orig, err := src.DataFloat32()
	require.NoError(t, err)
	require.Equal(t, []float32{0.5, 1.5, 3}, orig)
}

func TestThreshold_Errors(t *testing.T) {
	color := newMat(t, 1, 1, mat.CV8UC3, []byte{1, 2, 3})
	_, err := Threshold(color, newDst(t), 0, 255, ThresholdBinary|ThresholdOtsu)
	requireException(t, err, native.StsAssert, "threshold")

	_, err = Threshold(color, newDst(t), 0, 255, ThresholdType(5))
	requireException(t, err, native.StsBadArg, "threshold")

	_, err = Threshold(color, newDst(t), 0, 255, ThresholdOtsu|ThresholdTriangle)
	requireException(t, err, native.StsBadArg, "threshold")
}

// halfPlane returns a rows x cols gray image that is 0 left of column edge
// and 255 from it on.
func halfPlane(rows, cols, edge int) []byte {
	out := make([]byte, rows*cols)
	for y := 0; y < rows; y++ {
		for x := edge; x < cols; x++ {
			out[y*cols+x] = 255
		}
	}
	return out
}

func TestCanny_VerticalEdge(t *testing.T) {
	src := newMat(t, 10, 10, mat.CV8UC1, halfPlane(10, 10, 5))

	for _, l2 := range []bool{false, true} {
		dst := newDst(t)
		// Thresholds given in reverse order are swapped.
		require.NoError(t, Canny(src, dst, 150, 50, l2))
		require.Equal(t, mat.CV8UC1, dst.Type())

		got := dst.Data()
		for y := 0; y < 10; y++ {
			for x := 0; x < 10; x++ {
				want := byte(0)
				if x == 4 {
					want = 255
				}
				require.Equal(t, want, got[y*10+x], "pixel (%d,%d) l2=%v", x, y, l2)
			}
		}
	}
}

func TestCanny_ColorInput(t *testing.T) {
	gray := halfPlane(6, 6, 3)
	rgba := make([]byte, 0, len(gray)*4)
	for _, v := range gray {
		rgba = append(rgba, v, v, v, 255)
	}
	src := newMat(t, 6, 6, mat.CV8UC4, rgba)
	ref := newMat(t, 6, 6, mat.CV8UC1, gray)
	dst, want := newDst(t), newDst(t)

	require.NoError(t, Canny(src, dst, 50, 150, false))
	require.NoError(t, Canny(ref, want, 50, 150, false))
	require.Equal(t, want.Data(), dst.Data())
}

func TestCanny_FlatImageHasNoEdges(t *testing.T) {
	src := newMat(t, 8, 8, mat.CV8UC1, fill(64, 90))
	dst := newDst(t)

	require.NoError(t, Canny(src, dst, 10, 30, false))
	require.Equal(t, fill(64, 0), dst.Data())
}

func TestResize(t *testing.T) {
	src := newMat(t, 4, 4, mat.CV8UC4, fill(16, 10, 20, 30, 40))

	t.Run("explicit size", func(t *testing.T) {
		dst := newDst(t)
		require.NoError(t, Resize(src, dst, image.Pt(2, 3), 0, 0, InterpolationNearestNeighbor))
		require.Equal(t, 3, dst.Rows())
		require.Equal(t, 2, dst.Cols())
		require.Equal(t, mat.CV8UC4, dst.Type())
		require.Equal(t, fill(6, 10, 20, 30, 40), dst.Data())
	})

	t.Run("scale factors", func(t *testing.T) {
		dst := newDst(t)
		require.NoError(t, Resize(src, dst, image.Point{}, 2, 0.5, InterpolationNearestNeighbor))
		require.Equal(t, 2, dst.Rows())
		require.Equal(t, 8, dst.Cols())
	})

	t.Run("errors", func(t *testing.T) {
		err := Resize(src, newDst(t), image.Point{}, 0, 0, InterpolationLinear)
		requireException(t, err, native.StsAssert, "resize")

		err = Resize(src, newDst(t), image.Pt(2, 2), 0, 0, InterpolationFlags(9))
		requireException(t, err, native.StsBadArg, "resize")
	})
}
