package imgproc

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/histogram"

	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

// ThresholdType selects the thresholding rule. One of the basic types may be
// combined with ThresholdOtsu or ThresholdTriangle.
type ThresholdType int

const (
	// ThresholdBinary: dst = src > thresh ? maxval : 0.
	ThresholdBinary ThresholdType = 0
	// ThresholdBinaryInv: dst = src > thresh ? 0 : maxval.
	ThresholdBinaryInv ThresholdType = 1
	// ThresholdTrunc: dst = src > thresh ? thresh : src.
	ThresholdTrunc ThresholdType = 2
	// ThresholdToZero: dst = src > thresh ? src : 0.
	ThresholdToZero ThresholdType = 3
	// ThresholdToZeroInv: dst = src > thresh ? 0 : src.
	ThresholdToZeroInv ThresholdType = 4

	thresholdMask ThresholdType = 7

	// ThresholdOtsu picks the threshold that maximizes the between-class
	// variance. It needs a CV_8UC1 source.
	ThresholdOtsu ThresholdType = 8
	// ThresholdTriangle picks the threshold with the triangle method. It
	// needs a CV_8UC1 source.
	ThresholdTriangle ThresholdType = 16
)

// Threshold applies a fixed-level threshold to every value of src and
// returns the threshold used, which differs from thresh when Otsu or
// Triangle is requested.
//
// src may be CV_8U or CV_32F with any number of channels. For 8-bit sources
// thresh is floored and maxval is rounded.
func Threshold(src, dst *mat.Mat, thresh, maxval float64, typ ThresholdType) (t float64, err error) {
	defer native.Recover(&err)
	const fn = "threshold"

	assertf(!src.Empty(), fn, "!_src.empty()")
	automatic := typ &^ thresholdMask
	basic := typ & thresholdMask
	if basic > ThresholdToZeroInv || (automatic != 0 && automatic != ThresholdOtsu && automatic != ThresholdTriangle) {
		native.Throw(native.StsBadArg, fn, "Unknown threshold type %d", int(typ))
	}

	if automatic != 0 {
		assertf(src.Type() == mat.CV8UC1, fn, "src.type() == CV_8UC1")
		hist := grayHistogram(src)
		if automatic == ThresholdOtsu {
			thresh = otsuThreshold(hist)
		} else {
			thresh = triangleThreshold(hist)
		}
	}

	switch src.Depth() {
	case mat.U8:
		thresh = math.Floor(thresh)
		data := src.Data()
		res := make([]byte, len(data))
		th, mv := thresh, float64(clampU8(maxval))
		for i, v := range data {
			res[i] = clampU8(applyThreshold(float64(v), th, mv, basic))
		}
		return thresh, writeDst(dst, src.Rows(), src.Cols(), src.Type(), res)

	case mat.F32:
		vals, err := src.DataFloat32()
		if err != nil {
			return 0, err
		}
		for i, v := range vals {
			vals[i] = float32(applyThreshold(float64(v), thresh, maxval, basic))
		}
		if err := dst.Create(src.Rows(), src.Cols(), src.Type()); err != nil {
			return 0, err
		}
		return thresh, dst.SetDataFloat32(vals)
	}

	native.Throw(native.StsUnsupportedFormat, fn, "unsupported depth %s", src.Depth())
	return 0, nil
}

func applyThreshold(v, thresh, maxval float64, typ ThresholdType) float64 {
	above := v > thresh
	switch typ {
	case ThresholdBinary:
		if above {
			return maxval
		}
		return 0
	case ThresholdBinaryInv:
		if above {
			return 0
		}
		return maxval
	case ThresholdTrunc:
		if above {
			return thresh
		}
		return v
	case ThresholdToZero:
		if above {
			return v
		}
		return 0
	case ThresholdToZeroInv:
		if above {
			return 0
		}
		return v
	}
	return v
}

// grayHistogram counts the values of a CV_8UC1 Mat.
func grayHistogram(src *mat.Mat) []int {
	img := &image.Gray{
		Pix:    src.Data(),
		Stride: src.Cols(),
		Rect:   image.Rect(0, 0, src.Cols(), src.Rows()),
	}
	return histogram.NewRGBAHistogram(img).R.Bins
}

// otsuThreshold returns the level that maximizes the between-class variance.
func otsuThreshold(hist []int) float64 {
	var total, sum float64
	for i, c := range hist {
		total += float64(c)
		sum += float64(i * c)
	}

	var w0, sum0, best float64
	level := 0
	for i, c := range hist {
		w0 += float64(c)
		if w0 == 0 {
			continue
		}
		w1 := total - w0
		if w1 == 0 {
			break
		}
		sum0 += float64(i * c)
		m0 := sum0 / w0
		m1 := (sum - sum0) / w1
		between := w0 * w1 * (m0 - m1) * (m0 - m1)
		if between > best {
			best = between
			level = i
		}
	}
	return float64(level)
}

// triangleThreshold draws a line from the histogram peak to the far end of
// the occupied range and returns the level furthest below it.
func triangleThreshold(hist []int) float64 {
	left, right := 0, len(hist)-1
	for left < len(hist) && hist[left] == 0 {
		left++
	}
	for right > 0 && hist[right] == 0 {
		right--
	}
	if left >= right {
		return float64(left)
	}
	if left > 0 {
		left--
	}
	if right < len(hist)-1 {
		right++
	}

	peak := left
	for i := left; i <= right; i++ {
		if hist[i] > hist[peak] {
			peak = i
		}
	}

	// Work on the longer side of the peak, flipping when it is on the left.
	h := hist
	flipped := false
	if peak-left < right-peak {
		flipped = true
		h = make([]int, len(hist))
		for i := range hist {
			h[i] = hist[len(hist)-1-i]
		}
		left = len(hist) - 1 - right
		peak = len(hist) - 1 - peak
	}

	a := float64(h[peak])
	b := float64(left - peak)
	level := left
	var best float64
	for i := left + 1; i <= peak; i++ {
		d := a*float64(i) + b*float64(h[i])
		if d > best {
			best = d
			level = i
		}
	}
	level--

	if flipped {
		level = len(hist) - 1 - level
	}
	return float64(level)
}
