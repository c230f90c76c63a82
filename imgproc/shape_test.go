package imgproc

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

func pointsMat32S(t *testing.T, pts ...int32) *mat.Mat {
	t.Helper()
	m, err := mat.NewMatWithSize(len(pts)/2, 1, mat.CV32SC2)
	require.NoError(t, err)
	require.NoError(t, m.SetDataInt32(pts))
	t.Cleanup(func() { release(m) })
	return m
}

func TestShape_OuterContour(t *testing.T) {
	contours := newContours(t)
	require.NoError(t, FindContours(squareWithHole(t), contours, newDst(t), RetrievalExternal, ChainApproxSimple))
	outer, err := contours.Get(0)
	require.NoError(t, err)

	r, err := BoundingRect(outer)
	require.NoError(t, err)
	require.Equal(t, image.Rect(2, 2, 8, 8), r)

	area, err := ContourArea(outer, false)
	require.NoError(t, err)
	require.InDelta(t, 25, area, 1e-9)

	length, err := ArcLength(outer, true)
	require.NoError(t, err)
	require.InDelta(t, 20, length, 1e-9)
}

func TestContourArea_Oriented(t *testing.T) {
	clockwise := pointsMat32S(t, 0, 0, 4, 0, 4, 3, 0, 3)
	counter := pointsMat32S(t, 0, 0, 0, 3, 4, 3, 4, 0)

	a, err := ContourArea(clockwise, true)
	require.NoError(t, err)
	require.InDelta(t, 12, a, 1e-9)

	a, err = ContourArea(counter, true)
	require.NoError(t, err)
	require.InDelta(t, -12, a, 1e-9)

	a, err = ContourArea(counter, false)
	require.NoError(t, err)
	require.InDelta(t, 12, a, 1e-9)
}

func TestArcLength_Open(t *testing.T) {
	curve := pointsMat32S(t, 0, 0, 3, 4, 3, 10)

	open, err := ArcLength(curve, false)
	require.NoError(t, err)
	require.InDelta(t, 11, open, 1e-9)

	closed, err := ArcLength(curve, true)
	require.NoError(t, err)
	require.InDelta(t, 11+math.Hypot(3, 10), closed, 1e-9)
}

func TestShape_FloatPoints(t *testing.T) {
	m, err := mat.NewMatWithSize(1, 3, mat.CV32FC2)
	require.NoError(t, err)
	defer release(m)
	require.NoError(t, m.SetDataFloat32([]float32{1.5, 2.5, 4.25, 2.5, 4.25, 6}))

	r, err := BoundingRect(m)
	require.NoError(t, err)
	require.Equal(t, image.Rect(1, 2, 5, 7), r)
}

func TestShape_Degenerate(t *testing.T) {
	empty := newDst(t)
	r, err := BoundingRect(empty)
	require.NoError(t, err)
	require.True(t, r.Empty())

	single := pointsMat32S(t, 5, 6)
	r, err = BoundingRect(single)
	require.NoError(t, err)
	require.Equal(t, image.Rect(5, 6, 6, 7), r)

	a, err := ContourArea(single, false)
	require.NoError(t, err)
	require.Zero(t, a)
}

func TestShape_Errors(t *testing.T) {
	wrong := newMat(t, 2, 2, mat.CV8UC1, fill(4, 1))
	_, err := BoundingRect(wrong)
	requireException(t, err, native.StsAssert, "boundingRect")
	_, err = ContourArea(wrong, false)
	requireException(t, err, native.StsAssert, "contourArea")
	_, err = ArcLength(wrong, true)
	requireException(t, err, native.StsAssert, "arcLength")

	gone := pointsMat32S(t, 0, 0, 1, 1)
	require.NoError(t, gone.Release())
	_, err = ArcLength(gone, false)
	require.ErrorIs(t, err, native.ErrUseAfterRelease)
}
