package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/cvbind/internal/config"
	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
	"github.com/ironsheep/cvbind/pixel"
)

// ErrUnavailable is returned by NewTextDetector when the package was built
// without Tesseract support.
var ErrUnavailable = errors.New("ocr: tesseract support not built in (use -tags tesseract)")

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// word is one recognized word with its box in image coordinates.
type word struct {
	text       string
	box        image.Rectangle
	confidence float64 // 0 to 1
}

// recognizer runs OCR on an encoded image.
type recognizer interface {
	recognize(encoded []byte) (text string, words []word, err error)
	close() error
}

// TextDetector finds and reads text with Tesseract. It holds native
// resources and must be released.
type TextDetector struct {
	obj           *native.Object
	rec           recognizer
	minConfidence float64
}

// NewTextDetector returns a detector for the given Tesseract language, or
// DefaultLanguage when lang is empty. Language data is looked up under
// CVBIND_TESSDATA_PREFIX when set.
func NewTextDetector(lang string) (*TextDetector, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	rec, err := newRecognizer(lang, config.Load().TessdataPrefix)
	if err != nil {
		return nil, err
	}
	return newTextDetector(rec), nil
}

func newTextDetector(rec recognizer) *TextDetector {
	return &TextDetector{
		obj: native.Acquire("TextDetector", rec.close),
		rec: rec,
	}
}

// SetMinConfidence sets the confidence, between 0 and 1, below which words
// are left out of the boxes.
func (d *TextDetector) SetMinConfidence(c float64) error {
	if err := d.obj.Check("SetMinConfidence"); err != nil {
		return err
	}
	if c < 0 || c > 1 {
		return fmt.Errorf("TextDetector.SetMinConfidence(%g): confidence must be in [0, 1]", c)
	}
	d.minConfidence = c
	return nil
}

// Detect finds the words in img. boxes becomes an N x 1 CV_32SC4 Mat of
// (x, y, width, height) per word, or empty when no word is found.
//
// img must be 8-bit with 1, 3 (BGR) or 4 (BGRA) channels.
func (d *TextDetector) Detect(img, boxes *mat.Mat) (bool, error) {
	_, words, err := d.run("Detect", img, image.Rectangle{})
	if err != nil {
		return false, err
	}
	return len(words) > 0, writeBoxes(boxes, words)
}

// DetectAndDecode reads all the text of img and fills boxes as Detect does.
func (d *TextDetector) DetectAndDecode(img, boxes *mat.Mat) (string, error) {
	text, words, err := d.run("DetectAndDecode", img, image.Rectangle{})
	if err != nil {
		return "", err
	}
	return text, writeBoxes(boxes, words)
}

// DetectAndDecodeRegion reads only the text inside region, which is clipped
// to the image. Boxes are given in the coordinates of the whole image.
func (d *TextDetector) DetectAndDecodeRegion(img *mat.Mat, region image.Rectangle, boxes *mat.Mat) (string, error) {
	if region.Empty() {
		return "", fmt.Errorf("TextDetector.DetectAndDecodeRegion: empty region %v", region)
	}
	text, words, err := d.run("DetectAndDecodeRegion", img, region)
	if err != nil {
		return "", err
	}
	return text, writeBoxes(boxes, words)
}

// Release frees the Tesseract client. A second call returns an error
// wrapping native.ErrDoubleRelease.
func (d *TextDetector) Release() error {
	return d.obj.Release()
}

// Live reports whether the detector has not been released.
func (d *TextDetector) Live() bool { return d.obj.Live() }

// run validates img, encodes it (cropped to region unless region is empty)
// and recognizes it.
func (d *TextDetector) run(op string, img *mat.Mat, region image.Rectangle) (text string, words []word, err error) {
	if err := d.obj.Check(op); err != nil {
		return "", nil, err
	}
	defer native.Recover(&err)

	const fn = "TextDetector::detect"
	if img.Empty() {
		native.Throw(native.StsAssert, fn, "Assertion failed: !frame.empty()")
	}
	cn := img.Channels()
	if img.Depth() != mat.U8 || (cn != 1 && cn != 3 && cn != 4) {
		native.Throw(native.StsAssert, fn, "Assertion failed: frame.depth() == CV_8U && (cn == 1 || cn == 3 || cn == 4)")
	}

	src, err := pixel.ToImage(img, pixel.BGR)
	if err != nil {
		return "", nil, err
	}
	var offset image.Point
	if !region.Empty() {
		region = region.Intersect(src.Bounds())
		if region.Empty() {
			return "", nil, nil
		}
		src = imaging.Crop(src, region)
		offset = region.Min
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return "", nil, fmt.Errorf("ocr: encode image: %w", err)
	}

	text, all, err := d.rec.recognize(buf.Bytes())
	if err != nil {
		return "", nil, fmt.Errorf("TextDetector.%s: %w", op, err)
	}
	for _, w := range all {
		if w.text == "" || w.confidence < d.minConfidence {
			continue
		}
		w.box = w.box.Add(offset)
		words = append(words, w)
	}
	native.Logger().Debug("ocr: recognized", "words", len(words), "dropped", len(all)-len(words))
	return text, words, nil
}

func writeBoxes(boxes *mat.Mat, words []word) error {
	if len(words) == 0 {
		return boxes.Create(0, 0, mat.CV32SC4)
	}
	if err := boxes.Create(len(words), 1, mat.CV32SC4); err != nil {
		return err
	}
	vals := make([]int32, 0, 4*len(words))
	for _, w := range words {
		vals = append(vals, int32(w.box.Min.X), int32(w.box.Min.Y), int32(w.box.Dx()), int32(w.box.Dy()))
	}
	return boxes.SetDataInt32(vals)
}
