package objdetect

import (
	"image"
	"math"
)

// engine locates and decodes QR codes in a grayscale image. Implementations
// may hold native resources, freed by close.
type engine interface {
	// detect returns the corners of one code, if any.
	detect(img image.Image) (quad, bool)
	// detectMulti returns the corners of every code found.
	detectMulti(img image.Image) []quad
	// decode reads the code inside q, returning "" when nothing decodes.
	decode(img image.Image, q quad) string
	close() error
}

// point is a sub-pixel image position.
type point struct {
	X, Y float64
}

func (p point) add(q point) point { return point{p.X + q.X, p.Y + q.Y} }
func (p point) sub(q point) point { return point{p.X - q.X, p.Y - q.Y} }
func (p point) scale(k float64) point { return point{p.X * k, p.Y * k} }
func (p point) norm() float64 { return math.Hypot(p.X, p.Y) }
func (p point) dot(q point) float64 { return p.X*q.X + p.Y*q.Y }
func pt(x, y float64) point { return point{x, y} }
func ptOf(p image.Point) point { return point{float64(p.X), float64(p.Y)} }

// quad holds the corners of a code in the order top-left, top-right,
// bottom-right, bottom-left.
type quad [4]point

// bounds returns the smallest integer rectangle containing q.
func (q quad) bounds() image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range q {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
}

func (q quad) center() point {
	return q[0].add(q[1]).add(q[2]).add(q[3]).scale(0.25)
}

// side returns the mean edge length.
func (q quad) side() float64 {
	var sum float64
	for i := range q {
		sum += q[(i+1)%4].sub(q[i]).norm()
	}
	return sum / 4
}

func (q quad) translate(d point) quad {
	for i := range q {
		q[i] = q[i].add(d)
	}
	return q
}

func (q quad) scale(k float64) quad {
	for i := range q {
		q[i] = q[i].scale(k)
	}
	return q
}

// floats flattens q into x0, y0, ... x3, y3.
func (q quad) floats() []float32 {
	out := make([]float32, 0, 8)
	for _, p := range q {
		out = append(out, float32(p.X), float32(p.Y))
	}
	return out
}

func quadFromFloats(v []float32) quad {
	var q quad
	for i := range q {
		q[i] = pt(float64(v[2*i]), float64(v[2*i+1]))
	}
	return q
}

// squareEnough reports whether the two legs from the top-left corner are
// close to perpendicular and their lengths differ by at most the ratio
// maxMismatch.
func (q quad) squareEnough(maxMismatch float64) bool {
	u := q[1].sub(q[0])
	v := q[3].sub(q[0])
	lu, lv := u.norm(), v.norm()
	if lu == 0 || lv == 0 {
		return false
	}
	if math.Max(lu, lv)/math.Min(lu, lv) > maxMismatch {
		return false
	}
	return math.Abs(u.dot(v))/(lu*lv) < maxSkewCos
}

// maxSkewCos bounds |cos| of the angle between the two legs of an
// acceptable code, about 75 to 105 degrees.
const maxSkewCos = 0.26

// dedupe appends q to qs unless a code with a nearby center is present.
func dedupe(qs []quad, q quad) []quad {
	for _, o := range qs {
		if o.center().sub(q.center()).norm() < 0.5*math.Min(o.side(), q.side()) {
			return qs
		}
	}
	return append(qs, q)
}
