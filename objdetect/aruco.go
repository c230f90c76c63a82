package objdetect

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/cvbind/native"
)

// ErrInvalidParameter is returned by parameter setters for values outside
// their valid range.
var ErrInvalidParameter = errors.New("objdetect: invalid parameter")

// arucoValues holds the tunables of the Aruco-based detector.
type arucoValues struct {
	minModuleSizeInPyramid   float32
	maxRotation              float32
	maxModuleSizeMismatch    float32
	maxTimingPatternMismatch float32
	maxPenalties             float32
	maxColorsMismatch        float32
	scaleTimingPatternScore  float32
}

var defaultArucoValues = arucoValues{
	minModuleSizeInPyramid:   4,
	maxRotation:              math.Pi / 12,
	maxModuleSizeMismatch:    1.75,
	maxTimingPatternMismatch: 2,
	maxPenalties:             0.4,
	maxColorsMismatch:        0.2,
	scaleTimingPatternScore:  0.9,
}

// QRCodeDetectorArucoParams is the parameter set of QRCodeDetectorAruco. It
// is a native object and must be released.
type QRCodeDetectorArucoParams struct {
	obj *native.Object
	v   arucoValues
}

// NewQRCodeDetectorArucoParams returns a parameter set with the default
// values.
func NewQRCodeDetectorArucoParams() *QRCodeDetectorArucoParams {
	return newArucoParams(defaultArucoValues)
}

func newArucoParams(v arucoValues) *QRCodeDetectorArucoParams {
	return &QRCodeDetectorArucoParams{
		obj: native.Acquire("QRCodeDetectorArucoParams", nil),
		v:   v,
	}
}

// Release frees the parameter set.
func (p *QRCodeDetectorArucoParams) Release() error { return p.obj.Release() }

// Live reports whether the parameter set has not been released.
func (p *QRCodeDetectorArucoParams) Live() bool { return p.obj.Live() }

// MinModuleSizeInPyramid is the smallest module size, in pixels, the
// pyramid search scales down to.
func (p *QRCodeDetectorArucoParams) MinModuleSizeInPyramid() float32 {
	p.obj.MustLive("MinModuleSizeInPyramid")
	return p.v.minModuleSizeInPyramid
}

// MaxRotation is the largest rotation, in radians, between the finder
// patterns of one code.
func (p *QRCodeDetectorArucoParams) MaxRotation() float32 {
	p.obj.MustLive("MaxRotation")
	return p.v.maxRotation
}

// MaxModuleSizeMismatch is the largest ratio between the module sizes of
// the finder patterns of one code.
func (p *QRCodeDetectorArucoParams) MaxModuleSizeMismatch() float32 {
	p.obj.MustLive("MaxModuleSizeMismatch")
	return p.v.maxModuleSizeMismatch
}

// MaxTimingPatternMismatch is the largest allowed deviation of the timing
// pattern from its expected module count.
func (p *QRCodeDetectorArucoParams) MaxTimingPatternMismatch() float32 {
	p.obj.MustLive("MaxTimingPatternMismatch")
	return p.v.maxTimingPatternMismatch
}

// MaxPenalties is the largest share of penalty points a candidate may score.
func (p *QRCodeDetectorArucoParams) MaxPenalties() float32 {
	p.obj.MustLive("MaxPenalties")
	return p.v.maxPenalties
}

// MaxColorsMismatch is the largest share of modules whose color may
// disagree with the finder patterns.
func (p *QRCodeDetectorArucoParams) MaxColorsMismatch() float32 {
	p.obj.MustLive("MaxColorsMismatch")
	return p.v.maxColorsMismatch
}

// ScaleTimingPatternScore weights the timing pattern score.
func (p *QRCodeDetectorArucoParams) ScaleTimingPatternScore() float32 {
	p.obj.MustLive("ScaleTimingPatternScore")
	return p.v.scaleTimingPatternScore
}

// SetMinModuleSizeInPyramid sets MinModuleSizeInPyramid. v must be positive.
func (p *QRCodeDetectorArucoParams) SetMinModuleSizeInPyramid(v float32) error {
	return p.set("SetMinModuleSizeInPyramid", &p.v.minModuleSizeInPyramid, v)
}

// SetMaxRotation sets MaxRotation. v must be positive.
func (p *QRCodeDetectorArucoParams) SetMaxRotation(v float32) error {
	return p.set("SetMaxRotation", &p.v.maxRotation, v)
}

// SetMaxModuleSizeMismatch sets MaxModuleSizeMismatch. v must be positive.
func (p *QRCodeDetectorArucoParams) SetMaxModuleSizeMismatch(v float32) error {
	return p.set("SetMaxModuleSizeMismatch", &p.v.maxModuleSizeMismatch, v)
}

// SetMaxTimingPatternMismatch sets MaxTimingPatternMismatch. v must be
// positive.
func (p *QRCodeDetectorArucoParams) SetMaxTimingPatternMismatch(v float32) error {
	return p.set("SetMaxTimingPatternMismatch", &p.v.maxTimingPatternMismatch, v)
}

// SetMaxPenalties sets MaxPenalties. v must be positive.
func (p *QRCodeDetectorArucoParams) SetMaxPenalties(v float32) error {
	return p.set("SetMaxPenalties", &p.v.maxPenalties, v)
}

// SetMaxColorsMismatch sets MaxColorsMismatch. v must be positive.
func (p *QRCodeDetectorArucoParams) SetMaxColorsMismatch(v float32) error {
	return p.set("SetMaxColorsMismatch", &p.v.maxColorsMismatch, v)
}

// SetScaleTimingPatternScore sets ScaleTimingPatternScore. v must be
// positive.
func (p *QRCodeDetectorArucoParams) SetScaleTimingPatternScore(v float32) error {
	return p.set("SetScaleTimingPatternScore", &p.v.scaleTimingPatternScore, v)
}

// set validates v and stores it in field. Non-positive, NaN and infinite
// values are rejected.
func (p *QRCodeDetectorArucoParams) set(op string, field *float32, v float32) error {
	if err := p.obj.Check(op); err != nil {
		return err
	}
	if !(v > 0) || math.IsInf(float64(v), 0) {
		return fmt.Errorf("QRCodeDetectorArucoParams.%s(%g): %w", op, v, ErrInvalidParameter)
	}
	*field = v
	return nil
}

// QRCodeDetectorAruco finds QR codes by their finder patterns over an image
// pyramid, which helps with large or noisy codes. It holds native resources
// and must be released.
type QRCodeDetectorAruco struct {
	detector
	pyr *pyramidEngine
}

// NewQRCodeDetectorAruco returns a detector with the default parameters.
func NewQRCodeDetectorAruco() *QRCodeDetectorAruco {
	return newAruco(defaultArucoValues)
}

// NewQRCodeDetectorArucoWithParams returns a detector configured from
// params. The detector keeps a copy; params may be released afterwards.
func NewQRCodeDetectorArucoWithParams(params *QRCodeDetectorArucoParams) (*QRCodeDetectorAruco, error) {
	if err := params.obj.Check("NewQRCodeDetectorAruco"); err != nil {
		return nil, err
	}
	return newAruco(params.v), nil
}

func newAruco(v arucoValues) *QRCodeDetectorAruco {
	pyr := &pyramidEngine{base: newEngine(), values: v}
	return &QRCodeDetectorAruco{
		detector: newDetector("QRCodeDetectorAruco", pyr),
		pyr:      pyr,
	}
}

// GetDetectorParameters returns a new parameter set holding the detector's
// current values. The caller owns it.
func (d *QRCodeDetectorAruco) GetDetectorParameters() (*QRCodeDetectorArucoParams, error) {
	if err := d.obj.Check("GetDetectorParameters"); err != nil {
		return nil, err
	}
	return newArucoParams(d.pyr.values), nil
}

// SetDetectorParameters copies the values of params into the detector.
func (d *QRCodeDetectorAruco) SetDetectorParameters(params *QRCodeDetectorArucoParams) error {
	if err := d.obj.Check("SetDetectorParameters"); err != nil {
		return err
	}
	if err := params.obj.Check("SetDetectorParameters"); err != nil {
		return err
	}
	d.pyr.values = params.v
	return nil
}

// pyramidEngine runs its base engine on successively halved copies of the
// image until the smallest possible code would have modules below
// minModuleSizeInPyramid pixels.
type pyramidEngine struct {
	base   engine
	values arucoValues
}

// scales returns the scale factors of the pyramid levels for an image of
// the given bounds, starting with 1.
func (e *pyramidEngine) scales(b image.Rectangle) []float64 {
	scales := []float64{1}
	minSide := float64(minCodeModules) * float64(e.values.minModuleSizeInPyramid)
	for s := 0.5; float64(min(b.Dx(), b.Dy()))*s >= minSide; s /= 2 {
		scales = append(scales, s)
	}
	return scales
}

// level returns img scaled by s.
func (e *pyramidEngine) level(img image.Image, s float64) image.Image {
	if s == 1 {
		return img
	}
	b := img.Bounds()
	return imaging.Resize(img, int(float64(b.Dx())*s), int(float64(b.Dy())*s), imaging.Box)
}

func (e *pyramidEngine) accept(q quad) bool {
	return q.squareEnough(float64(e.values.maxModuleSizeMismatch))
}

// detect stops at the first level holding a code; smaller levels are never
// built.
func (e *pyramidEngine) detect(img image.Image) (quad, bool) {
	for i, s := range e.scales(img.Bounds()) {
		if q, ok := e.base.detect(e.level(img, s)); ok && e.accept(q) {
			if i > 0 {
				native.Logger().Debug("objdetect: found code in pyramid", "level", i)
			}
			return q.scale(1 / s), true
		}
	}
	return quad{}, false
}

func (e *pyramidEngine) detectMulti(img image.Image) []quad {
	var found []quad
	for _, s := range e.scales(img.Bounds()) {
		for _, q := range e.base.detectMulti(e.level(img, s)) {
			if e.accept(q) {
				found = dedupe(found, q.scale(1/s))
			}
		}
	}
	return found
}

func (e *pyramidEngine) decode(img image.Image, q quad) string {
	return e.base.decode(img, q)
}

func (e *pyramidEngine) close() error {
	return e.base.close()
}
