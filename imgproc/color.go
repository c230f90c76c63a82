package imgproc

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

// ColorConversionCode selects the source and destination color spaces of
// CvtColor. Values match OpenCV's COLOR_* constants.
type ColorConversionCode int

const (
	ColorBGRToBGRA  ColorConversionCode = 0
	ColorBGRAToBGR  ColorConversionCode = 1
	ColorBGRToRGBA  ColorConversionCode = 2
	ColorRGBAToBGR  ColorConversionCode = 3
	ColorBGRToRGB   ColorConversionCode = 4
	ColorBGRAToRGBA ColorConversionCode = 5
	ColorBGRToGray  ColorConversionCode = 6
	ColorRGBToGray  ColorConversionCode = 7
	ColorGrayToBGR  ColorConversionCode = 8
	ColorGrayToBGRA ColorConversionCode = 9
	ColorBGRAToGray ColorConversionCode = 10
	ColorRGBAToGray ColorConversionCode = 11
	ColorBGRToHSV   ColorConversionCode = 40
	ColorRGBToHSV   ColorConversionCode = 41
	ColorBGRToLab   ColorConversionCode = 44
	ColorRGBToLab   ColorConversionCode = 45
	ColorHSVToBGR   ColorConversionCode = 54
	ColorHSVToRGB   ColorConversionCode = 55
	ColorLabToBGR   ColorConversionCode = 56
	ColorLabToRGB   ColorConversionCode = 57
)

// Aliases for conversions that share an OpenCV code.
const (
	ColorRGBToRGBA  = ColorBGRToBGRA
	ColorRGBAToRGB  = ColorBGRAToBGR
	ColorRGBToBGRA  = ColorBGRToRGBA
	ColorBGRAToRGB  = ColorRGBAToBGR
	ColorRGBToBGR   = ColorBGRToRGB
	ColorRGBAToBGRA = ColorBGRAToRGBA
	ColorGrayToRGB  = ColorGrayToBGR
	ColorGrayToRGBA = ColorGrayToBGRA
)

type space int

const (
	spaceGray space = iota
	spaceColor
	spaceHSV
	spaceLab
)

// layout describes one side of a conversion.
type layout struct {
	space space
	// blueFirst is set for BGR(A) channel order.
	blueFirst bool
	cn        int
}

var (
	grayLayout = layout{space: spaceGray, cn: 1}
	rgbLayout  = layout{space: spaceColor, cn: 3}
	bgrLayout  = layout{space: spaceColor, blueFirst: true, cn: 3}
	rgbaLayout = layout{space: spaceColor, cn: 4}
	bgraLayout = layout{space: spaceColor, blueFirst: true, cn: 4}
	hsvLayout  = layout{space: spaceHSV, cn: 3}
	labLayout  = layout{space: spaceLab, cn: 3}
)

var conversions = map[ColorConversionCode][2]layout{
	ColorBGRToBGRA:  {bgrLayout, bgraLayout},
	ColorBGRAToBGR:  {bgraLayout, bgrLayout},
	ColorBGRToRGBA:  {bgrLayout, rgbaLayout},
	ColorRGBAToBGR:  {rgbaLayout, bgrLayout},
	ColorBGRToRGB:   {bgrLayout, rgbLayout},
	ColorBGRAToRGBA: {bgraLayout, rgbaLayout},
	ColorBGRToGray:  {bgrLayout, grayLayout},
	ColorRGBToGray:  {rgbLayout, grayLayout},
	ColorGrayToBGR:  {grayLayout, bgrLayout},
	ColorGrayToBGRA: {grayLayout, bgraLayout},
	ColorBGRAToGray: {bgraLayout, grayLayout},
	ColorRGBAToGray: {rgbaLayout, grayLayout},
	ColorBGRToHSV:   {bgrLayout, hsvLayout},
	ColorRGBToHSV:   {rgbLayout, hsvLayout},
	ColorBGRToLab:   {bgrLayout, labLayout},
	ColorRGBToLab:   {rgbLayout, labLayout},
	ColorHSVToBGR:   {hsvLayout, bgrLayout},
	ColorHSVToRGB:   {hsvLayout, rgbLayout},
	ColorLabToBGR:   {labLayout, bgrLayout},
	ColorLabToRGB:   {labLayout, rgbLayout},
}

// CvtColor converts src from one color space to another and writes the
// result to dst. src must be 8-bit. Color inputs accept 3 or 4 channels; a
// missing alpha channel reads as 255.
//
// Gray uses the ITU-R BT.601 weights 0.299, 0.587, 0.114. 8-bit HSV stores
// H/2 so that hue fits in [0, 180). 8-bit Lab stores L*255/100, a+128, b+128.
// The 8-bit Lab round trip is lossy for strongly saturated colors.
func CvtColor(src, dst *mat.Mat, code ColorConversionCode) (err error) {
	defer native.Recover(&err)
	const fn = "cvtColor"

	conv, ok := conversions[code]
	if !ok {
		native.Throw(native.StsBadFlag, fn, "Unknown/unsupported color conversion code %d", int(code))
	}
	requireU8(fn, src)

	in, out := conv[0], conv[1]
	scn := src.Channels()
	if in.space == spaceColor {
		assertf(scn == 3 || scn == 4, fn, "scn == 3 || scn == 4")
	} else {
		assertf(scn == in.cn, fn, "scn == VScn::contains(scn)")
	}

	n := src.Total()
	data := src.Data()
	res := make([]byte, n*out.cn)
	for i := 0; i < n; i++ {
		r, g, b, a := decodePixel(in, data[i*scn:i*scn+scn])
		encodePixel(out, res[i*out.cn:i*out.cn+out.cn], r, g, b, a)
	}
	return writeDst(dst, src.Rows(), src.Cols(), mat.MakeType(mat.U8, out.cn), res)
}

func decodePixel(l layout, s []byte) (r, g, b, a uint8) {
	a = 0xff
	switch l.space {
	case spaceGray:
		return s[0], s[0], s[0], a
	case spaceColor:
		r, g, b = s[0], s[1], s[2]
		if l.blueFirst {
			r, b = b, r
		}
		if len(s) == 4 {
			a = s[3]
		}
		return r, g, b, a
	case spaceHSV:
		c := colorful.Hsv(float64(s[0])*2, float64(s[1])/255, float64(s[2])/255)
		r, g, b = c.Clamped().RGB255()
		return r, g, b, a
	case spaceLab:
		c := colorful.Lab(float64(s[0])/255, (float64(s[1])-128)/100, (float64(s[2])-128)/100)
		r, g, b = c.Clamped().RGB255()
		return r, g, b, a
	}
	return 0, 0, 0, a
}

func encodePixel(l layout, d []byte, r, g, b, a uint8) {
	switch l.space {
	case spaceGray:
		d[0] = grayBT601(r, g, b)
	case spaceColor:
		if l.blueFirst {
			d[0], d[1], d[2] = b, g, r
		} else {
			d[0], d[1], d[2] = r, g, b
		}
		if l.cn == 4 {
			d[3] = a
		}
	case spaceHSV:
		c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
		h, s, v := c.Hsv()
		hh := clampU8(h / 2)
		if hh >= 180 {
			hh = 0
		}
		d[0], d[1], d[2] = hh, clampU8(s*255), clampU8(v*255)
	case spaceLab:
		c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
		ll, aa, bb := c.Lab()
		d[0], d[1], d[2] = clampU8(ll*255), clampU8(aa*100+128), clampU8(bb*100+128)
	}
}

func grayBT601(r, g, b uint8) uint8 {
	return uint8(math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)))
}
