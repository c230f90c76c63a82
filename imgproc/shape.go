package imgproc

import (
	"image"
	"math"

	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

// BoundingRect returns the smallest upright rectangle containing every point
// of a contour, as produced by FindContours. The rectangle includes its
// bottom-right pixel, so a single point yields a 1 x 1 rectangle.
func BoundingRect(contour *mat.Mat) (r image.Rectangle, err error) {
	defer native.Recover(&err)

	pts, err := readPoints("boundingRect", contour)
	if err != nil || len(pts) == 0 {
		return image.Rectangle{}, err
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = min(minX, p[0]), max(maxX, p[0])
		minY, maxY = min(minY, p[1]), max(maxY, p[1])
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Floor(maxX))+1, int(math.Floor(maxY))+1), nil
}

// ContourArea returns the area enclosed by a contour using the shoelace
// formula. With oriented set the sign follows the traversal direction:
// positive when the points run clockwise on screen (y down).
func ContourArea(contour *mat.Mat, oriented bool) (area float64, err error) {
	defer native.Recover(&err)

	pts, err := readPoints("contourArea", contour)
	if err != nil {
		return 0, err
	}
	n := len(pts)
	for i := 0; i < n; i++ {
		p, q := pts[i], pts[(i+1)%n]
		area += p[0]*q[1] - q[0]*p[1]
	}
	area /= 2
	if !oriented {
		area = math.Abs(area)
	}
	return area, nil
}

// ArcLength returns the perimeter of a closed contour or the length of an
// open curve.
func ArcLength(curve *mat.Mat, closed bool) (length float64, err error) {
	defer native.Recover(&err)

	pts, err := readPoints("arcLength", curve)
	if err != nil {
		return 0, err
	}
	for i := 1; i < len(pts); i++ {
		length += math.Hypot(pts[i][0]-pts[i-1][0], pts[i][1]-pts[i-1][1])
	}
	if closed && len(pts) > 1 {
		last := pts[len(pts)-1]
		length += math.Hypot(pts[0][0]-last[0], pts[0][1]-last[1])
	}
	return length, nil
}

// readPoints reads a CV_32SC2 or CV_32FC2 point set of any shape.
func readPoints(fn string, m *mat.Mat) ([][2]float64, error) {
	if m.Empty() {
		return nil, nil
	}
	var vals []float64
	switch m.Type() {
	case mat.CV32SC2:
		ints, err := m.DataInt32()
		if err != nil {
			return nil, err
		}
		vals = make([]float64, len(ints))
		for i, v := range ints {
			vals[i] = float64(v)
		}
	case mat.CV32FC2:
		floats, err := m.DataFloat32()
		if err != nil {
			return nil, err
		}
		vals = make([]float64, len(floats))
		for i, v := range floats {
			vals[i] = float64(v)
		}
	default:
		native.Throw(native.StsAssert, fn,
			"Assertion failed: npoints >= 0 && (depth == CV_32F || depth == CV_32S)")
	}
	pts := make([][2]float64, len(vals)/2)
	for i := range pts {
		pts[i] = [2]float64{vals[2*i], vals[2*i+1]}
	}
	return pts, nil
}
