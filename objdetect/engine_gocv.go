//go:build gocv

package objdetect

import (
	"encoding/binary"
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/ironsheep/cvbind/native"
)

func newEngine() engine { return newGoCVEngine() }

// gocvEngine delegates to OpenCV's QRCodeDetector.
type gocvEngine struct {
	qr gocv.QRCodeDetector
}

func newGoCVEngine() *gocvEngine {
	return &gocvEngine{qr: gocv.NewQRCodeDetector()}
}

func (e *gocvEngine) detect(img image.Image) (quad, bool) {
	m, err := grayMat(img)
	if err != nil {
		return quad{}, false
	}
	defer m.Close()

	pts := gocv.NewMat()
	defer pts.Close()
	if !e.qr.Detect(m, &pts) {
		return quad{}, false
	}
	qs := quadsOf(pts)
	if len(qs) == 0 {
		return quad{}, false
	}
	return qs[0], true
}

func (e *gocvEngine) detectMulti(img image.Image) []quad {
	m, err := grayMat(img)
	if err != nil {
		return nil
	}
	defer m.Close()

	pts := gocv.NewMat()
	defer pts.Close()
	if !e.qr.DetectMulti(m, &pts) {
		return nil
	}
	return quadsOf(pts)
}

func (e *gocvEngine) decode(img image.Image, q quad) string {
	m, err := grayMat(img)
	if err != nil {
		return ""
	}
	defer m.Close()

	buf := make([]byte, 0, 32)
	for _, v := range q.floats() {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	pts, err := gocv.NewMatFromBytes(1, 4, gocv.MatTypeCV32FC2, buf)
	if err != nil {
		return ""
	}
	defer pts.Close()

	straight := gocv.NewMat()
	defer straight.Close()
	return e.qr.Decode(m, pts, &straight)
}

func (e *gocvEngine) close() error {
	return e.qr.Close()
}

// grayMat copies the luminance of img into a CV_8UC1 gocv Mat.
func grayMat(img image.Image) (gocv.Mat, error) {
	b := img.Bounds()
	g, ok := img.(*image.Gray)
	if !ok || g.Stride != b.Dx() {
		g = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				g.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	}
	return gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC1, g.Pix)
}

// quadsOf reads groups of four corners from an OpenCV points Mat.
func quadsOf(pts gocv.Mat) []quad {
	if pts.Empty() {
		return nil
	}
	vals, err := pts.DataPtrFloat32()
	if err != nil {
		native.Logger().Debug("objdetect: unexpected points layout", "err", err)
		return nil
	}
	var qs []quad
	for i := 0; i+8 <= len(vals); i += 8 {
		qs = append(qs, quadFromFloats(vals[i:i+8]))
	}
	return qs
}
