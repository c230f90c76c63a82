package mat

import (
	"encoding/binary"
	"math"
)

var endian = binary.NativeEndian

// Ptr returns the bytes of row starting at column col (0 when omitted),
// extending to the end of the row. The slice aliases the storage.
//
// Ptr(r) and Ptr(r, 0) are equivalent.
func (m *Mat) Ptr(row int, col ...int) ([]byte, error) {
	idx := append([]int{row}, col...)
	if err := m.obj.Check("Ptr"); err != nil {
		return nil, err
	}
	c := 0
	switch len(col) {
	case 0:
	case 1:
		c = col[0]
	default:
		return nil, matErrorf("Ptr", idx, ErrIndexOutOfRange)
	}
	if row < 0 || row >= m.rows || c < 0 || c >= m.cols {
		return nil, matErrorf("Ptr", idx, ErrIndexOutOfRange)
	}

	step := m.cols * m.typ.ElemSize()
	start := row*step + c*m.typ.ElemSize()
	end := (row + 1) * step
	return m.blk.data[start:end:end], nil
}

// offset maps an index to a byte offset:
//
//	(i)        flat index over all channel values
//	(r, c)     first channel of element (r, c)
//	(r, c, ch) channel ch of element (r, c)
func (m *Mat) offset(op string, idx []int) (int, error) {
	cn := m.typ.Channels()
	size := m.typ.Depth().Size()

	switch len(idx) {
	case 1:
		i := idx[0]
		if i < 0 || i >= m.rows*m.cols*cn {
			return 0, matErrorf(op, idx, ErrIndexOutOfRange)
		}
		return i * size, nil
	case 2, 3:
		r, c, ch := idx[0], idx[1], 0
		if len(idx) == 3 {
			ch = idx[2]
		}
		if r < 0 || r >= m.rows || c < 0 || c >= m.cols || ch < 0 || ch >= cn {
			return 0, matErrorf(op, idx, ErrIndexOutOfRange)
		}
		return ((r*m.cols+c)*cn + ch) * size, nil
	}
	return 0, matErrorf(op, idx, ErrIndexOutOfRange)
}

func (m *Mat) typedOffset(op string, d Depth, idx []int) (int, error) {
	if err := m.obj.Check(op); err != nil {
		return 0, err
	}
	if m.typ.Depth() != d {
		return 0, matErrorf(op, idx, ErrTypeMismatch)
	}
	return m.offset(op, idx)
}

// At returns the value at idx converted to float64, whatever the depth.
// See Ptr for the index forms.
func (m *Mat) At(idx ...int) (float64, error) {
	if err := m.obj.Check("At"); err != nil {
		return 0, err
	}
	off, err := m.offset("At", idx)
	if err != nil {
		return 0, err
	}
	return m.readValue(off), nil
}

// SetAt stores v at idx, rounding and saturating for integer depths.
func (m *Mat) SetAt(v float64, idx ...int) error {
	if err := m.obj.Check("SetAt"); err != nil {
		return err
	}
	off, err := m.offset("SetAt", idx)
	if err != nil {
		return err
	}
	m.writeValue(off, v)
	return nil
}

// UcharAt reads a CV_8U value.
func (m *Mat) UcharAt(idx ...int) (uint8, error) {
	off, err := m.typedOffset("UcharAt", U8, idx)
	if err != nil {
		return 0, err
	}
	return m.blk.data[off], nil
}

// CharAt reads a CV_8S value.
func (m *Mat) CharAt(idx ...int) (int8, error) {
	off, err := m.typedOffset("CharAt", S8, idx)
	if err != nil {
		return 0, err
	}
	return int8(m.blk.data[off]), nil
}

// UshortAt reads a CV_16U value.
func (m *Mat) UshortAt(idx ...int) (uint16, error) {
	off, err := m.typedOffset("UshortAt", U16, idx)
	if err != nil {
		return 0, err
	}
	return endian.Uint16(m.blk.data[off:]), nil
}

// ShortAt reads a CV_16S value.
func (m *Mat) ShortAt(idx ...int) (int16, error) {
	off, err := m.typedOffset("ShortAt", S16, idx)
	if err != nil {
		return 0, err
	}
	return int16(endian.Uint16(m.blk.data[off:])), nil
}

// IntAt reads a CV_32S value.
func (m *Mat) IntAt(idx ...int) (int32, error) {
	off, err := m.typedOffset("IntAt", S32, idx)
	if err != nil {
		return 0, err
	}
	return int32(endian.Uint32(m.blk.data[off:])), nil
}

// FloatAt reads a CV_32F value.
func (m *Mat) FloatAt(idx ...int) (float32, error) {
	off, err := m.typedOffset("FloatAt", F32, idx)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(endian.Uint32(m.blk.data[off:])), nil
}

// DoubleAt reads a CV_64F value.
func (m *Mat) DoubleAt(idx ...int) (float64, error) {
	off, err := m.typedOffset("DoubleAt", F64, idx)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(endian.Uint64(m.blk.data[off:])), nil
}

// SetUcharAt writes a CV_8U value.
func (m *Mat) SetUcharAt(v uint8, idx ...int) error {
	off, err := m.typedOffset("SetUcharAt", U8, idx)
	if err != nil {
		return err
	}
	m.blk.data[off] = v
	return nil
}

// SetIntAt writes a CV_32S value.
func (m *Mat) SetIntAt(v int32, idx ...int) error {
	off, err := m.typedOffset("SetIntAt", S32, idx)
	if err != nil {
		return err
	}
	endian.PutUint32(m.blk.data[off:], uint32(v))
	return nil
}

// SetFloatAt writes a CV_32F value.
func (m *Mat) SetFloatAt(v float32, idx ...int) error {
	off, err := m.typedOffset("SetFloatAt", F32, idx)
	if err != nil {
		return err
	}
	endian.PutUint32(m.blk.data[off:], math.Float32bits(v))
	return nil
}

// SetDoubleAt writes a CV_64F value.
func (m *Mat) SetDoubleAt(v float64, idx ...int) error {
	off, err := m.typedOffset("SetDoubleAt", F64, idx)
	if err != nil {
		return err
	}
	endian.PutUint64(m.blk.data[off:], math.Float64bits(v))
	return nil
}

// DataInt32 returns a copy of a CV_32S Mat's values.
func (m *Mat) DataInt32() ([]int32, error) {
	if _, err := m.typedView("DataInt32", S32); err != nil {
		return nil, err
	}
	n := m.rows * m.cols * m.typ.Channels()
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(endian.Uint32(m.blk.data[i*4:]))
	}
	return out, nil
}

// DataFloat32 returns a copy of a CV_32F Mat's values.
func (m *Mat) DataFloat32() ([]float32, error) {
	if _, err := m.typedView("DataFloat32", F32); err != nil {
		return nil, err
	}
	n := m.rows * m.cols * m.typ.Channels()
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(endian.Uint32(m.blk.data[i*4:]))
	}
	return out, nil
}

// DataFloat64 returns a copy of a CV_64F Mat's values.
func (m *Mat) DataFloat64() ([]float64, error) {
	if _, err := m.typedView("DataFloat64", F64); err != nil {
		return nil, err
	}
	n := m.rows * m.cols * m.typ.Channels()
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(endian.Uint64(m.blk.data[i*8:]))
	}
	return out, nil
}

// SetDataInt32 overwrites a CV_32S Mat with vals, which must hold exactly
// rows*cols*channels values.
func (m *Mat) SetDataInt32(vals []int32) error {
	n, err := m.typedView("SetDataInt32", S32)
	if err != nil {
		return err
	}
	if len(vals) != n {
		return matErrorf("SetDataInt32", []int{len(vals)}, ErrSizeMismatch)
	}
	for i, v := range vals {
		endian.PutUint32(m.blk.data[i*4:], uint32(v))
	}
	return nil
}

// SetDataFloat32 overwrites a CV_32F Mat with vals, which must hold exactly
// rows*cols*channels values.
func (m *Mat) SetDataFloat32(vals []float32) error {
	n, err := m.typedView("SetDataFloat32", F32)
	if err != nil {
		return err
	}
	if len(vals) != n {
		return matErrorf("SetDataFloat32", []int{len(vals)}, ErrSizeMismatch)
	}
	for i, v := range vals {
		endian.PutUint32(m.blk.data[i*4:], math.Float32bits(v))
	}
	return nil
}

// typedView checks liveness and depth and returns the number of values.
func (m *Mat) typedView(op string, d Depth) (int, error) {
	if err := m.obj.Check(op); err != nil {
		return 0, err
	}
	if m.typ.Depth() != d {
		return 0, matErrorf(op, nil, ErrTypeMismatch)
	}
	return m.rows * m.cols * m.typ.Channels(), nil
}

func (m *Mat) readValue(off int) float64 {
	b := m.blk.data[off:]
	switch m.typ.Depth() {
	case U8:
		return float64(b[0])
	case S8:
		return float64(int8(b[0]))
	case U16:
		return float64(endian.Uint16(b))
	case S16:
		return float64(int16(endian.Uint16(b)))
	case S32:
		return float64(int32(endian.Uint32(b)))
	case F32:
		return float64(math.Float32frombits(endian.Uint32(b)))
	case F64:
		return math.Float64frombits(endian.Uint64(b))
	}
	return 0
}

func (m *Mat) writeValue(off int, v float64) {
	b := m.blk.data[off:]
	switch m.typ.Depth() {
	case U8:
		b[0] = uint8(saturate(v, 0, math.MaxUint8))
	case S8:
		b[0] = uint8(int8(saturate(v, math.MinInt8, math.MaxInt8)))
	case U16:
		endian.PutUint16(b, uint16(saturate(v, 0, math.MaxUint16)))
	case S16:
		endian.PutUint16(b, uint16(int16(saturate(v, math.MinInt16, math.MaxInt16))))
	case S32:
		endian.PutUint32(b, uint32(int32(saturate(v, math.MinInt32, math.MaxInt32))))
	case F32:
		endian.PutUint32(b, math.Float32bits(float32(v)))
	case F64:
		endian.PutUint64(b, math.Float64bits(v))
	}
}

// saturate rounds half to even and clamps to [lo, hi].
func saturate(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.RoundToEven(v)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
