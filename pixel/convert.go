package pixel

import (
	"fmt"
	"image"

	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

// ChannelOrder names the order of color channels in a 3- or 4-channel Mat.
type ChannelOrder int

const (
	// RGB stores red first (RGBA for 4 channels).
	RGB ChannelOrder = iota
	// BGR stores blue first (BGRA for 4 channels), as OpenCV does.
	BGR
)

// ToImage copies an 8-bit Mat into a new image. One channel becomes
// *image.Gray; three or four channels become *image.NRGBA, with alpha 255
// for three channels.
//
// A released m yields an error wrapping native.ErrUseAfterRelease.
func ToImage(m *mat.Mat, order ChannelOrder) (img image.Image, err error) {
	defer native.Recover(&err)

	if m.Empty() {
		return nil, fmt.Errorf("%w: empty Mat", ErrInvalidBuffer)
	}
	if m.Depth() != mat.U8 {
		return nil, fmt.Errorf("pixel: ToImage %s: %w", m.Type(), mat.ErrTypeMismatch)
	}

	w, h, cn := m.Cols(), m.Rows(), m.Channels()
	src := m.Data()

	switch cn {
	case 1:
		gray := image.NewGray(image.Rect(0, 0, w, h))
		copy(gray.Pix, src)
		return gray, nil
	case 3, 4:
		rgba := image.NewNRGBA(image.Rect(0, 0, w, h))
		r, b := 0, 2
		if order == BGR {
			r, b = 2, 0
		}
		for i := 0; i < w*h; i++ {
			s := src[i*cn : i*cn+cn]
			d := rgba.Pix[i*4 : i*4+4]
			d[0], d[1], d[2] = s[r], s[1], s[b]
			if cn == 4 {
				d[3] = s[3]
			} else {
				d[3] = 0xff
			}
		}
		return rgba, nil
	}
	return nil, fmt.Errorf("%w: %d channels", ErrInvalidBuffer, cn)
}

// FromMat returns a Buffer holding a copy of an 8-bit Mat's bytes.
func FromMat(m *mat.Mat) (b *Buffer, err error) {
	defer native.Recover(&err)

	data := make([]byte, len(m.Data()))
	copy(data, m.Data())
	return NewBuffer(m.Cols(), m.Rows(), m.Channels(), m.Depth(), data)
}
