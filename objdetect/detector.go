package objdetect

import (
	"image"

	"github.com/ironsheep/cvbind/imgproc"
	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

// detector carries the operations shared by the QR code detectors.
type detector struct {
	obj *native.Object
	eng engine
}

func newDetector(kind string, eng engine) detector {
	return detector{
		obj: native.Acquire(kind, eng.close),
		eng: eng,
	}
}

// Detect looks for one QR code in img. When one is found points becomes a
// 1x4 CV_32FC2 Mat holding its corners (top-left, top-right, bottom-right,
// bottom-left); otherwise points is left empty.
//
// img must be 8-bit with 1, 3 (BGR) or 4 (BGRA) channels.
func (d *detector) Detect(img, points *mat.Mat) (ok bool, err error) {
	if err := d.obj.Check("Detect"); err != nil {
		return false, err
	}
	defer native.Recover(&err)

	gray := grayFrame("detect", img)
	q, found := d.eng.detect(gray)
	if !found {
		return false, clearPoints(points)
	}
	return true, writeQuads(points, []quad{q})
}

// Decode reads the QR code whose corners are given in points, a CV_32FC2
// Mat of four elements such as the one Detect fills. It returns "" when the
// region does not decode.
func (d *detector) Decode(img, points *mat.Mat) (text string, err error) {
	if err := d.obj.Check("Decode"); err != nil {
		return "", err
	}
	defer native.Recover(&err)

	gray := grayFrame("decode", img)
	qs := readQuads("decode", points)
	assertf(len(qs) == 1, "decode", "points.size() == 4")
	return d.eng.decode(gray, qs[0]), nil
}

// DetectAndDecode runs Detect and then decodes the region it found. points
// is filled as by Detect even when the region does not decode.
func (d *detector) DetectAndDecode(img, points *mat.Mat) (text string, err error) {
	if err := d.obj.Check("DetectAndDecode"); err != nil {
		return "", err
	}
	defer native.Recover(&err)

	gray := grayFrame("detectAndDecode", img)
	q, found := d.eng.detect(gray)
	if !found {
		return "", clearPoints(points)
	}
	if err := writeQuads(points, []quad{q}); err != nil {
		return "", err
	}
	return d.eng.decode(gray, q), nil
}

// DetectMulti looks for every QR code in img. points becomes an N x 4
// CV_32FC2 Mat with one row of corners per code, or empty when none is
// found.
func (d *detector) DetectMulti(img, points *mat.Mat) (ok bool, err error) {
	if err := d.obj.Check("DetectMulti"); err != nil {
		return false, err
	}
	defer native.Recover(&err)

	gray := grayFrame("detectMulti", img)
	qs := d.eng.detectMulti(gray)
	if len(qs) == 0 {
		return false, clearPoints(points)
	}
	return true, writeQuads(points, qs)
}

// DecodeMulti decodes every code given in points, one row of four corners
// per code. The result has one entry per row; codes that do not decode give
// "".
func (d *detector) DecodeMulti(img, points *mat.Mat) (texts []string, err error) {
	if err := d.obj.Check("DecodeMulti"); err != nil {
		return nil, err
	}
	defer native.Recover(&err)

	gray := grayFrame("decodeMulti", img)
	qs := readQuads("decodeMulti", points)
	assertf(len(qs) > 0, "decodeMulti", "!points.empty()")
	texts = make([]string, len(qs))
	for i, q := range qs {
		texts[i] = d.eng.decode(gray, q)
	}
	return texts, nil
}

// DetectAndDecodeMulti runs DetectMulti and decodes every region. The result
// has one entry per row of points.
func (d *detector) DetectAndDecodeMulti(img, points *mat.Mat) (texts []string, err error) {
	if err := d.obj.Check("DetectAndDecodeMulti"); err != nil {
		return nil, err
	}
	defer native.Recover(&err)

	gray := grayFrame("detectAndDecodeMulti", img)
	qs := d.eng.detectMulti(gray)
	if len(qs) == 0 {
		return nil, clearPoints(points)
	}
	if err := writeQuads(points, qs); err != nil {
		return nil, err
	}
	texts = make([]string, len(qs))
	for i, q := range qs {
		texts[i] = d.eng.decode(gray, q)
	}
	native.Logger().Debug("objdetect: decoded codes", "kind", d.obj.Kind(), "count", len(texts))
	return texts, nil
}

// Release frees the detector. A second call returns an error wrapping
// native.ErrDoubleRelease.
func (d *detector) Release() error {
	return d.obj.Release()
}

// Live reports whether the detector has not been released.
func (d *detector) Live() bool { return d.obj.Live() }

func assertf(cond bool, fn, expr string) {
	if !cond {
		native.Throw(native.StsAssert, fn, "Assertion failed: %s", expr)
	}
}

// grayFrame validates img and returns its luminance as an *image.Gray.
func grayFrame(fn string, img *mat.Mat) *image.Gray {
	assertf(!img.Empty(), fn, "!img.empty()")
	assertf(img.Depth() == mat.U8, fn, "img.depth() == CV_8U")
	cn := img.Channels()
	assertf(cn == 1 || cn == 3 || cn == 4, fn, "incn == 1 || incn == 3 || incn == 4")

	src := img
	if cn != 1 {
		code := imgproc.ColorBGRToGray
		if cn == 4 {
			code = imgproc.ColorBGRAToGray
		}
		src = mat.NewMat()
		defer src.Release()
		if err := imgproc.CvtColor(img, src, code); err != nil {
			panic(err)
		}
	}

	rows, cols := src.Rows(), src.Cols()
	g := image.NewGray(image.Rect(0, 0, cols, rows))
	copy(g.Pix, src.Data())
	return g
}

// readQuads validates a corner Mat and returns its quads.
func readQuads(fn string, points *mat.Mat) []quad {
	assertf(points.Type() == mat.CV32FC2, fn, "points.type() == CV_32FC2")
	assertf(points.Total()%4 == 0, fn, "points.total() % 4 == 0")
	vals, err := points.DataFloat32()
	if err != nil {
		panic(err)
	}
	qs := make([]quad, 0, len(vals)/8)
	for i := 0; i+8 <= len(vals); i += 8 {
		qs = append(qs, quadFromFloats(vals[i:i+8]))
	}
	return qs
}

func writeQuads(points *mat.Mat, qs []quad) error {
	if err := points.Create(len(qs), 4, mat.CV32FC2); err != nil {
		return err
	}
	vals := make([]float32, 0, 8*len(qs))
	for _, q := range qs {
		vals = append(vals, q.floats()...)
	}
	return points.SetDataFloat32(vals)
}

func clearPoints(points *mat.Mat) error {
	return points.Create(0, 0, mat.CV32FC2)
}
