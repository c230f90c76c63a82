package objdetect

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	qrdetector "github.com/makiuchi-d/gozxing/qrcode/detector"

	"github.com/ironsheep/cvbind/native"
)

const (
	// A version 1 code is 21 modules wide; no image smaller than that in
	// pixels can hold one.
	minCodeModules = 21
	// Codes found per region before splitting it.
	maxCodesPerRegion = 16
	// Halving depth of the region search in detectMulti.
	maxSplitDepth = 3
	// Leg length ratio above which a finder pattern triple is rejected.
	defaultModuleMismatch = 1.3
)

// zxingEngine is the pure Go engine built on the ZXing port.
type zxingEngine struct {
	maxMismatch float64
}

func newZXingEngine() *zxingEngine {
	return &zxingEngine{maxMismatch: defaultModuleMismatch}
}

var tryHarder = map[gozxing.DecodeHintType]interface{}{
	gozxing.DecodeHintType_TRY_HARDER: true,
}

func (e *zxingEngine) detect(img image.Image) (quad, bool) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return quad{}, false
	}
	bits, err := bmp.GetBlackMatrix()
	if err != nil {
		return quad{}, false
	}
	res, err := qrdetector.NewDetector(bits).Detect(tryHarder)
	if err != nil {
		return quad{}, false
	}

	// Points are the finder pattern centers: bottom-left, top-left,
	// top-right, then the alignment pattern when present.
	pts := res.GetPoints()
	if len(pts) < 3 {
		return quad{}, false
	}
	dim := res.GetBits().GetWidth()
	if dim < minCodeModules {
		return quad{}, false
	}
	bl := pt(pts[0].GetX(), pts[0].GetY())
	tl := pt(pts[1].GetX(), pts[1].GetY())
	tr := pt(pts[2].GetX(), pts[2].GetY())

	// Finder centers sit 3.5 modules inside the outer corners, and
	// dim-7 modules apart.
	k := 3.5 / float64(dim-7)
	u := tr.sub(tl).scale(k)
	v := bl.sub(tl).scale(k)
	q := quad{
		tl.sub(u).sub(v),
		tr.add(u).sub(v),
		tr.add(bl).sub(tl).add(u).add(v),
		bl.sub(u).add(v),
	}
	if !q.squareEnough(e.maxMismatch) {
		native.Logger().Debug("objdetect: rejected finder pattern triple", "dimension", dim)
		return quad{}, false
	}
	return q, true
}

// detectMulti finds a code, blanks it out and looks again. When a region
// yields nothing more it is halved along its longer side and each half is
// searched the same way, which separates codes whose finder patterns would
// otherwise be grouped together.
func (e *zxingEngine) detectMulti(img image.Image) []quad {
	var found []quad
	e.searchRegion(imaging.Clone(img), image.Point{}, 0, &found)
	return found
}

func (e *zxingEngine) searchRegion(img *image.NRGBA, offset image.Point, depth int, found *[]quad) {
	for i := 0; i < maxCodesPerRegion; i++ {
		q, ok := e.detect(img)
		if !ok {
			break
		}
		*found = dedupe(*found, q.translate(ptOf(offset)))
		img = blank(img, pad(q.bounds(), int(q.side()/8)+1))
	}

	b := img.Bounds()
	if depth >= maxSplitDepth || min(b.Dx(), b.Dy())/2 < 2*minCodeModules {
		return
	}
	var halves [2]image.Rectangle
	if b.Dx() >= b.Dy() {
		mid := b.Dx() / 2
		halves = [2]image.Rectangle{image.Rect(0, 0, mid, b.Dy()), image.Rect(mid, 0, b.Dx(), b.Dy())}
	} else {
		mid := b.Dy() / 2
		halves = [2]image.Rectangle{image.Rect(0, 0, b.Dx(), mid), image.Rect(0, mid, b.Dx(), b.Dy())}
	}
	for _, h := range halves {
		e.searchRegion(imaging.Crop(img, h), offset.Add(h.Min), depth+1, found)
	}
}

// decode reads the code inside q from a padded crop of img, so that other
// content in the image cannot take part.
func (e *zxingEngine) decode(img image.Image, q quad) string {
	region := pad(q.bounds(), int(q.side()/10)+2).Intersect(img.Bounds())
	if region.Empty() {
		return ""
	}
	crop := imaging.Crop(img, region)

	// Surround the crop with a quiet zone.
	margin := max(8, region.Dx()/8)
	canvas := imaging.New(region.Dx()+2*margin, region.Dy()+2*margin, color.White)
	canvas = imaging.Paste(canvas, crop, image.Pt(margin, margin))

	bmp, err := gozxing.NewBinaryBitmapFromImage(canvas)
	if err != nil {
		return ""
	}
	res, err := qrcode.NewQRCodeReader().Decode(bmp, tryHarder)
	if err != nil {
		native.Logger().Debug("objdetect: decode failed", "region", region.String(), "err", err)
		return ""
	}
	return res.GetText()
}

func (e *zxingEngine) close() error { return nil }

// pad grows r by n pixels on every side.
func pad(r image.Rectangle, n int) image.Rectangle {
	return image.Rect(r.Min.X-n, r.Min.Y-n, r.Max.X+n, r.Max.Y+n)
}

// blank paints r white in img.
func blank(img *image.NRGBA, r image.Rectangle) *image.NRGBA {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return img
	}
	return imaging.Paste(img, imaging.New(r.Dx(), r.Dy(), color.White), r.Min)
}
