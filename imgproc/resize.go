package imgproc

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

// InterpolationFlags selects the resampling filter of Resize.
type InterpolationFlags int

const (
	InterpolationNearestNeighbor InterpolationFlags = 0
	InterpolationLinear          InterpolationFlags = 1
	InterpolationCubic           InterpolationFlags = 2
	InterpolationArea            InterpolationFlags = 3
	InterpolationLanczos4        InterpolationFlags = 4
	InterpolationDefault                            = InterpolationLinear
)

var resampleFilters = map[InterpolationFlags]imaging.ResampleFilter{
	InterpolationNearestNeighbor: imaging.NearestNeighbor,
	InterpolationLinear:          imaging.Linear,
	InterpolationCubic:           imaging.CatmullRom,
	InterpolationArea:            imaging.Box,
	InterpolationLanczos4:        imaging.Lanczos,
}

// Resize scales an 8-bit src to size, or by fx and fy when size is zero.
func Resize(src, dst *mat.Mat, size image.Point, fx, fy float64, interp InterpolationFlags) (err error) {
	defer native.Recover(&err)
	const fn = "resize"

	requireU8(fn, src)
	filter, ok := resampleFilters[interp]
	if !ok {
		native.Throw(native.StsBadArg, fn, "Unknown interpolation method %d", int(interp))
	}
	if size.X <= 0 || size.Y <= 0 {
		assertf(fx > 0 && fy > 0, fn, "!dsize.empty() || (inv_scale_x > 0 && inv_scale_y > 0)")
		size = image.Pt(
			int(math.Round(float64(src.Cols())*fx)),
			int(math.Round(float64(src.Rows())*fy)),
		)
	}
	assertf(size.X > 0 && size.Y > 0, fn, "!dsize.empty()")

	res, rows, cols := mapChannelGroups(src.Data(), src.Rows(), src.Cols(), src.Channels(), func(img *image.RGBA) image.Image {
		return imaging.Resize(img, size.X, size.Y, filter)
	})
	return writeDst(dst, rows, cols, src.Type(), res)
}
