package imgproc

import (
	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

// Split copies each channel of src into its own single-channel Mat.
//
// dst is cleared (without releasing its previous elements) and receives one
// new Mat per channel; the caller owns them.
func Split(src *mat.Mat, dst *mat.Vector) (err error) {
	defer native.Recover(&err)
	const fn = "split"

	assertf(!src.Empty(), fn, "!src.empty()")
	if err := dst.Clear(); err != nil {
		return err
	}

	cn := src.Channels()
	es := src.Depth().Size()
	n := src.Total()
	data := src.Data()
	plane := mat.MakeType(src.Depth(), 1)
	for c := 0; c < cn; c++ {
		m, err := mat.NewMatWithSize(src.Rows(), src.Cols(), plane)
		if err != nil {
			return err
		}
		out := m.Data()
		for i := 0; i < n; i++ {
			copy(out[i*es:(i+1)*es], data[(i*cn+c)*es:(i*cn+c+1)*es])
		}
		if err := dst.PushBack(m); err != nil {
			_ = m.Release()
			return err
		}
	}
	return nil
}

// Merge interleaves the Mats in src into dst, whose channel count is the sum
// of theirs. Every input must share the size and depth of the first.
func Merge(src *mat.Vector, dst *mat.Mat) (err error) {
	defer native.Recover(&err)
	const fn = "merge"

	planes := src.Mats()
	assertf(len(planes) > 0, fn, "mv && n > 0")

	first := planes[0]
	rows, cols, depth := first.Rows(), first.Cols(), first.Depth()
	total := 0
	for _, p := range planes {
		if p.Rows() != rows || p.Cols() != cols {
			native.Throw(native.StsUnmatchedSizes, fn, "Input arrays must have the same size")
		}
		assertf(p.Depth() == depth, fn, "mv[i].size == mv[0].size && mv[i].depth() == depth")
		total += p.Channels()
	}
	assertf(total <= mat.MaxChannels, fn, "cn <= CV_CN_MAX")

	es := depth.Size()
	n := rows * cols
	out := make([]byte, n*total*es)
	c0 := 0
	for _, p := range planes {
		pcn := p.Channels()
		data := p.Data()
		for i := 0; i < n; i++ {
			copy(out[(i*total+c0)*es:(i*total+c0+pcn)*es], data[i*pcn*es:(i+1)*pcn*es])
		}
		c0 += pcn
	}
	return writeDst(dst, rows, cols, mat.MakeType(depth, total), out)
}
