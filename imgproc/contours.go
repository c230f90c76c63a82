package imgproc

import (
	"image"

	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

// RetrievalMode selects which contours FindContours returns and how their
// hierarchy is organized.
type RetrievalMode int

const (
	// RetrievalExternal returns only the outermost contours.
	RetrievalExternal RetrievalMode = 0
	// RetrievalList returns every contour without hierarchy.
	RetrievalList RetrievalMode = 1
	// RetrievalCComp organizes contours in two levels: outer boundaries of
	// components and the boundaries of their holes.
	RetrievalCComp RetrievalMode = 2
	// RetrievalTree returns the full nesting hierarchy.
	RetrievalTree RetrievalMode = 3
)

// ContourApproximationMode selects how contour points are stored.
type ContourApproximationMode int

const (
	// ChainApproxNone stores every boundary point.
	ChainApproxNone ContourApproximationMode = 1
	// ChainApproxSimple keeps only the end points of horizontal, vertical
	// and diagonal runs.
	ChainApproxSimple ContourApproximationMode = 2
)

// FindContours traces the borders of the non-zero regions of a CV_8UC1
// image with the Suzuki-Abe border following algorithm.
//
// contours is cleared (without releasing its previous elements) and filled
// with one N x 1 CV_32SC2 Mat of (x, y) points per contour; the caller owns
// them. hierarchy becomes a 1 x N CV_32SC4 Mat holding, per contour, the
// indices of the next and previous sibling, the first child and the parent,
// or -1 where there is none. hierarchy is empty when no contour is found.
func FindContours(src *mat.Mat, contours *mat.Vector, hierarchy *mat.Mat, mode RetrievalMode, method ContourApproximationMode) (err error) {
	defer native.Recover(&err)
	const fn = "findContours"

	assertf(!src.Empty(), fn, "!_image.empty()")
	if src.Type() != mat.CV8UC1 {
		native.Throw(native.StsUnsupportedFormat, fn,
			"[Start]FindContours supports only CV_8UC1 images when mode != CV_RETR_FLOODFILL otherwise supports CV_32SC1 images only")
	}
	if mode < RetrievalExternal || mode > RetrievalTree {
		native.Throw(native.StsBadFlag, fn, "unknown retrieval mode %d", int(mode))
	}
	if method != ChainApproxNone && method != ChainApproxSimple {
		native.Throw(native.StsBadFlag, fn, "unknown approximation method %d", int(method))
	}

	borders := traceBorders(src.Data(), src.Rows(), src.Cols())
	selected, links := organize(borders, mode)

	if err := contours.Clear(); err != nil {
		return err
	}
	for _, b := range selected {
		pts := b.points
		if method == ChainApproxSimple {
			pts = compressChain(pts)
		}
		m, err := pointsMat(pts)
		if err != nil {
			return err
		}
		if err := contours.PushBack(m); err != nil {
			_ = m.Release()
			return err
		}
	}

	if len(selected) == 0 {
		return hierarchy.Create(0, 0, mat.CV32SC4)
	}
	if err := hierarchy.Create(1, len(selected), mat.CV32SC4); err != nil {
		return err
	}
	return hierarchy.SetDataInt32(links)
}

// border is one traced contour.
type border struct {
	points []image.Point
	hole   bool
	// parent is the index of the enclosing border in the trace order, or -1
	// for borders directly inside the image frame.
	parent int
}

// Neighbour offsets in counter-clockwise order starting east, with y
// growing downwards.
var chainDirs = [8]image.Point{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

func dirIndex(from, to image.Point) int {
	d := to.Sub(from)
	for i, c := range chainDirs {
		if c == d {
			return i
		}
	}
	return -1
}

// traceBorders runs the raster scan of Suzuki and Abe (1985) over a padded
// copy of the image and returns every border in discovery order.
func traceBorders(data []byte, rows, cols int) []border {
	w, h := cols+2, rows+2
	f := make([]int32, w*h)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if data[y*cols+x] != 0 {
				f[(y+1)*w+x+1] = 1
			}
		}
	}
	at := func(p image.Point) int32 { return f[p.Y*w+p.X] }
	set := func(p image.Point, v int32) { f[p.Y*w+p.X] = v }

	// Label 1 is the frame, a hole border with no parent. Border k found by
	// the scan gets label k+2.
	var borders []border
	isHole := func(label int32) bool {
		if label == 1 {
			return true
		}
		return borders[label-2].hole
	}
	parentOf := func(label int32) int {
		if label == 1 {
			return -1
		}
		return borders[label-2].parent
	}

	nbd := int32(1)
	for y := 1; y < h-1; y++ {
		lnbd := int32(1)
		for x := 1; x < w-1; x++ {
			p := image.Point{x, y}
			v := at(p)
			if v == 0 {
				continue
			}

			var from image.Point
			var hole bool
			switch {
			case v == 1 && f[y*w+x-1] == 0:
				from = image.Point{x - 1, y}
			case v >= 1 && f[y*w+x+1] == 0:
				from = image.Point{x + 1, y}
				hole = true
				if v > 1 {
					lnbd = v
				}
			default:
				if v != 1 {
					lnbd = abs32(v)
				}
				continue
			}

			nbd++
			// An outer border inside a hole, or a hole inside an outer border,
			// is enclosed by LNBD itself; otherwise they share a parent.
			parent := parentOf(lnbd)
			if isHole(lnbd) != hole {
				parent = int(lnbd) - 2
			}
			b := border{hole: hole, parent: parent}
			b.points = follow(p, from, nbd, at, set)
			borders = append(borders, b)

			if v := at(p); v != 1 {
				lnbd = abs32(v)
			}
		}
	}

	for i := range borders {
		for j := range borders[i].points {
			borders[i].points[j] = borders[i].points[j].Sub(image.Point{1, 1})
		}
	}
	return borders
}

// follow traces one border starting at start, entering from the 0-pixel
// from, and labels it nbd.
func follow(start, from image.Point, nbd int32, at func(image.Point) int32, set func(image.Point, int32)) []image.Point {
	// Clockwise search for the first non-zero neighbour.
	d0 := dirIndex(start, from)
	first := image.Point{-1, -1}
	for k := 0; k < 8; k++ {
		q := start.Add(chainDirs[(d0-k+8)%8])
		if at(q) != 0 {
			first = q
			break
		}
	}
	if first.X < 0 {
		set(start, -nbd)
		return []image.Point{start}
	}

	var pts []image.Point
	prev, cur := first, start
	for {
		// Counter-clockwise search starting after prev.
		dp := dirIndex(cur, prev)
		var next image.Point
		eastZero := false
		for k := 1; k <= 8; k++ {
			d := (dp + k) % 8
			q := cur.Add(chainDirs[d])
			if at(q) != 0 {
				next = q
				break
			}
			if d == 0 {
				eastZero = true
			}
		}

		if eastZero {
			set(cur, -nbd)
		} else if at(cur) == 1 {
			set(cur, nbd)
		}
		pts = append(pts, cur)

		if next == start && cur == first {
			return pts
		}
		prev, cur = cur, next
	}
}

// organize selects the borders for mode and builds the flattened hierarchy
// (next, prev, child, parent per contour).
func organize(borders []border, mode RetrievalMode) ([]border, []int32) {
	var keep []int
	parent := make(map[int]int)
	for i, b := range borders {
		switch mode {
		case RetrievalExternal:
			if !b.hole && b.parent == -1 {
				keep = append(keep, i)
				parent[i] = -1
			}
		case RetrievalList:
			keep = append(keep, i)
			parent[i] = -1
		case RetrievalCComp:
			keep = append(keep, i)
			if b.hole {
				parent[i] = b.parent
			} else {
				parent[i] = -1
			}
		case RetrievalTree:
			keep = append(keep, i)
			parent[i] = b.parent
		}
	}

	index := make(map[int]int, len(keep))
	for out, i := range keep {
		index[i] = out
	}

	links := make([]int32, 4*len(keep))
	for i := range links {
		links[i] = -1
	}
	last := map[int]int{} // output parent -> last child seen
	selected := make([]border, len(keep))
	for out, i := range keep {
		selected[out] = borders[i]
		p := -1
		if parent[i] >= 0 {
			p = index[parent[i]]
		}
		links[out*4+3] = int32(p)
		if prev, ok := last[p]; ok {
			links[prev*4] = int32(out)
			links[out*4+1] = int32(prev)
		} else if p >= 0 {
			links[p*4+2] = int32(out)
		}
		last[p] = out
	}
	return selected, links
}

// compressChain drops points in the middle of straight runs.
func compressChain(pts []image.Point) []image.Point {
	n := len(pts)
	if n < 3 {
		return pts
	}
	var out []image.Point
	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n]
		next := pts[(i+1)%n]
		if pts[i].Sub(prev) != next.Sub(pts[i]) {
			out = append(out, pts[i])
		}
	}
	if len(out) == 0 {
		out = append(out, pts[0])
	}
	return out
}

// pointsMat returns pts as an N x 1 CV_32SC2 Mat.
func pointsMat(pts []image.Point) (*mat.Mat, error) {
	m, err := mat.NewMatWithSize(len(pts), 1, mat.CV32SC2)
	if err != nil {
		return nil, err
	}
	vals := make([]int32, 0, 2*len(pts))
	for _, p := range pts {
		vals = append(vals, int32(p.X), int32(p.Y))
	}
	if err := m.SetDataInt32(vals); err != nil {
		_ = m.Release()
		return nil, err
	}
	return m, nil
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
