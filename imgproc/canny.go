package imgproc

import (
	"math"

	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

// Canny finds edges in an 8-bit image and writes a CV_8UC1 map of 0 and 255
// to dst.
//
// Multi-channel sources are reduced to luminance with the BT.601 weights
// first. Gradients come from 3x3 Sobel operators; the magnitude is |gx|+|gy|
// unless l2Gradient asks for sqrt(gx^2+gy^2). After non-maximum suppression
// pixels above high are edges and pixels above low are kept when connected
// to an edge. The thresholds are swapped if low > high.
func Canny(src, dst *mat.Mat, low, high float64, l2Gradient bool) (err error) {
	defer native.Recover(&err)
	const fn = "Canny"

	requireU8(fn, src)
	if low > high {
		low, high = high, low
	}

	rows, cols := src.Rows(), src.Cols()
	gray := luminance(src)

	gradX := make([]float64, rows*cols)
	gradY := make([]float64, rows*cols)
	magnitude := make([]float64, rows*cols)
	px := func(y, x int) float64 {
		return gray[clamp(y, 0, rows-1)*cols+clamp(x, 0, cols-1)]
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			gx := px(y-1, x+1) + 2*px(y, x+1) + px(y+1, x+1) -
				px(y-1, x-1) - 2*px(y, x-1) - px(y+1, x-1)
			gy := px(y+1, x-1) + 2*px(y+1, x) + px(y+1, x+1) -
				px(y-1, x-1) - 2*px(y-1, x) - px(y-1, x+1)
			i := y*cols + x
			gradX[i], gradY[i] = gx, gy
			if l2Gradient {
				magnitude[i] = math.Sqrt(gx*gx + gy*gy)
			} else {
				magnitude[i] = math.Abs(gx) + math.Abs(gy)
			}
		}
	}

	// Non-maximum suppression along the quantized gradient direction.
	const (
		none = iota
		weak
		strong
	)
	class := make([]uint8, rows*cols)
	var queue []int
	mag := func(y, x int) float64 {
		if y < 0 || y >= rows || x < 0 || x >= cols {
			return 0
		}
		return magnitude[y*cols+x]
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i := y*cols + x
			m := magnitude[i]
			if m <= low {
				continue
			}
			angle := math.Atan2(gradY[i], gradX[i])
			var n1, n2 float64
			switch {
			case math.Abs(angle) < math.Pi/8 || math.Abs(angle) >= 7*math.Pi/8:
				n1, n2 = mag(y, x-1), mag(y, x+1)
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = mag(y-1, x-1), mag(y+1, x+1)
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = mag(y-1, x), mag(y+1, x)
			default:
				n1, n2 = mag(y-1, x+1), mag(y+1, x-1)
			}
			// Ties go to the first pixel along the direction.
			if m > n1 && m >= n2 {
				if m > high {
					class[i] = strong
					queue = append(queue, i)
				} else {
					class[i] = weak
				}
			}
		}
	}

	// Hysteresis: grow strong edges through connected weak pixels.
	out := make([]byte, rows*cols)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if out[i] != 0 {
			continue
		}
		out[i] = 255
		y, x := i/cols, i%cols
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				ny, nx := y+dy, x+dx
				if ny < 0 || ny >= rows || nx < 0 || nx >= cols {
					continue
				}
				j := ny*cols + nx
				if class[j] != none && out[j] == 0 {
					queue = append(queue, j)
				}
			}
		}
	}
	return writeDst(dst, rows, cols, mat.CV8UC1, out)
}

// luminance returns the pixel values of an 8-bit Mat as one float plane.
// Color channels are taken in RGB(A) order.
func luminance(src *mat.Mat) []float64 {
	cn := src.Channels()
	n := src.Total()
	data := src.Data()
	gray := make([]float64, n)
	for i := 0; i < n; i++ {
		if cn < 3 {
			gray[i] = float64(data[i*cn])
			continue
		}
		gray[i] = float64(grayBT601(data[i*cn], data[i*cn+1], data[i*cn+2]))
	}
	return gray
}
