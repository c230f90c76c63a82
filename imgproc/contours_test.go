package imgproc

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

// drawRect sets the pixels of r in a rows x cols gray buffer to v.
func drawRect(buf []byte, cols int, r image.Rectangle, v byte) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			buf[y*cols+x] = v
		}
	}
}

// squareWithHole is a 10x10 image holding a 6x6 square with a 2x2 hole.
func squareWithHole(t *testing.T) *mat.Mat {
	buf := make([]byte, 100)
	drawRect(buf, 10, image.Rect(2, 2, 8, 8), 255)
	drawRect(buf, 10, image.Rect(4, 4, 6, 6), 0)
	return newMat(t, 10, 10, mat.CV8UC1, buf)
}

func newContours(t *testing.T) *mat.Vector {
	t.Helper()
	v := mat.NewVector()
	t.Cleanup(func() { _ = v.ReleaseAll() })
	return v
}

func contourPoints(t *testing.T, m *mat.Mat) []image.Point {
	t.Helper()
	require.Equal(t, mat.CV32SC2, m.Type())
	require.Equal(t, 1, m.Cols())
	vals, err := m.DataInt32()
	require.NoError(t, err)
	pts := make([]image.Point, 0, len(vals)/2)
	for i := 0; i < len(vals); i += 2 {
		pts = append(pts, image.Pt(int(vals[i]), int(vals[i+1])))
	}
	return pts
}

func hierarchyOf(t *testing.T, h *mat.Mat) []int32 {
	t.Helper()
	require.Equal(t, mat.CV32SC4, h.Type())
	vals, err := h.DataInt32()
	require.NoError(t, err)
	return vals
}

func TestFindContours_Hierarchy(t *testing.T) {
	tests := []struct {
		mode RetrievalMode
		want []int32
	}{
		{RetrievalExternal, []int32{-1, -1, -1, -1}},
		{RetrievalList, []int32{1, -1, -1, -1, -1, 0, -1, -1}},
		{RetrievalCComp, []int32{-1, -1, 1, -1, -1, -1, -1, 0}},
		{RetrievalTree, []int32{-1, -1, 1, -1, -1, -1, -1, 0}},
	}
	for _, tt := range tests {
		src := squareWithHole(t)
		contours := newContours(t)
		hierarchy := newDst(t)

		require.NoError(t, FindContours(src, contours, hierarchy, tt.mode, ChainApproxSimple))
		require.Equal(t, len(tt.want)/4, contours.Size(), "mode %d", tt.mode)
		require.Equal(t, 1, hierarchy.Rows())
		require.Equal(t, tt.want, hierarchyOf(t, hierarchy), "mode %d", tt.mode)
	}
}

func TestFindContours_SimpleKeepsCorners(t *testing.T) {
	src := squareWithHole(t)
	contours := newContours(t)

	require.NoError(t, FindContours(src, contours, newDst(t), RetrievalExternal, ChainApproxSimple))
	outer, err := contours.Get(0)
	require.NoError(t, err)
	require.ElementsMatch(t,
		[]image.Point{{2, 2}, {7, 2}, {7, 7}, {2, 7}},
		contourPoints(t, outer))
}

func TestFindContours_NoneKeepsEveryBorderPixel(t *testing.T) {
	buf := make([]byte, 50)
	drawRect(buf, 10, image.Rect(1, 1, 3, 3), 1)
	drawRect(buf, 10, image.Rect(6, 1, 8, 3), 1)
	src := newMat(t, 5, 10, mat.CV8UC1, buf)
	contours := newContours(t)
	hierarchy := newDst(t)

	require.NoError(t, FindContours(src, contours, hierarchy, RetrievalExternal, ChainApproxNone))
	require.Equal(t, 2, contours.Size())
	require.Equal(t, []int32{1, -1, -1, -1, -1, 0, -1, -1}, hierarchyOf(t, hierarchy))

	first, err := contours.Get(0)
	require.NoError(t, err)
	require.ElementsMatch(t,
		[]image.Point{{1, 1}, {2, 1}, {2, 2}, {1, 2}},
		contourPoints(t, first))

	second, err := contours.Get(1)
	require.NoError(t, err)
	require.ElementsMatch(t,
		[]image.Point{{6, 1}, {7, 1}, {7, 2}, {6, 2}},
		contourPoints(t, second))
}

func TestFindContours_SinglePixel(t *testing.T) {
	buf := make([]byte, 9)
	buf[4] = 255
	src := newMat(t, 3, 3, mat.CV8UC1, buf)
	contours := newContours(t)

	require.NoError(t, FindContours(src, contours, newDst(t), RetrievalList, ChainApproxNone))
	require.Equal(t, 1, contours.Size())
	m, err := contours.Get(0)
	require.NoError(t, err)
	require.Equal(t, []image.Point{{1, 1}}, contourPoints(t, m))
}

func TestFindContours_TouchingFrame(t *testing.T) {
	src := newMat(t, 3, 4, mat.CV8UC1, fill(12, 1))
	contours := newContours(t)

	require.NoError(t, FindContours(src, contours, newDst(t), RetrievalExternal, ChainApproxSimple))
	require.Equal(t, 1, contours.Size())
	m, err := contours.Get(0)
	require.NoError(t, err)
	require.ElementsMatch(t,
		[]image.Point{{0, 0}, {3, 0}, {3, 2}, {0, 2}},
		contourPoints(t, m))
}

func TestFindContours_Empty(t *testing.T) {
	src := newMat(t, 4, 4, mat.CV8UC1, make([]byte, 16))
	contours := newContours(t)
	hierarchy := newDst(t)

	require.NoError(t, FindContours(src, contours, hierarchy, RetrievalTree, ChainApproxSimple))
	require.Equal(t, 0, contours.Size())
	require.True(t, hierarchy.Empty())
}

func TestFindContours_ClearsVector(t *testing.T) {
	stale, err := mat.Zeros(1, 1, mat.CV8UC1)
	require.NoError(t, err)
	defer stale.Release()

	contours := newContours(t)
	require.NoError(t, contours.PushBack(stale))

	require.NoError(t, FindContours(squareWithHole(t), contours, newDst(t), RetrievalExternal, ChainApproxSimple))
	require.Equal(t, 1, contours.Size())
	// The previous element is dropped from the vector, not released.
	require.True(t, stale.Live())
}

func TestFindContours_Errors(t *testing.T) {
	contours := newContours(t)

	color := newMat(t, 2, 2, mat.CV8UC3, make([]byte, 12))
	err := FindContours(color, contours, newDst(t), RetrievalList, ChainApproxNone)
	requireException(t, err, native.StsUnsupportedFormat, "findContours")

	gray := newMat(t, 2, 2, mat.CV8UC1, make([]byte, 4))
	err = FindContours(gray, contours, newDst(t), RetrievalMode(7), ChainApproxNone)
	requireException(t, err, native.StsBadFlag, "findContours")

	err = FindContours(gray, contours, newDst(t), RetrievalList, ContourApproximationMode(0))
	requireException(t, err, native.StsBadFlag, "findContours")
}
