package pixel

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/cvbind/mat"
)

var (
	// ErrInvalidBuffer indicates a shape or length that cannot describe an
	// image.
	ErrInvalidBuffer = errors.New("pixel: invalid buffer")

	// ErrTransferred is returned when a buffer whose bytes were already
	// handed to a Mat is used again.
	ErrTransferred = errors.New("pixel: buffer already transferred")
)

// Buffer is a decoded block of pixel bytes with its shape. Rows are packed
// with no padding and channels are interleaved.
//
// A Buffer owns its bytes until Wrap transfers them to a Mat. After the
// transfer the Buffer is empty and cannot be wrapped again.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Depth    mat.Depth

	data        []byte
	transferred bool
}

// NewBuffer validates the shape against data and returns a Buffer owning
// data. Width and height must be positive and channels must be 1, 3 or 4.
func NewBuffer(width, height, channels int, depth mat.Depth, data []byte) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidBuffer, width, height)
	}
	switch channels {
	case 1, 3, 4:
	default:
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidBuffer, channels)
	}
	if !depth.Valid() {
		return nil, fmt.Errorf("%w: depth %s", ErrInvalidBuffer, depth)
	}
	if want := width * height * channels * depth.Size(); len(data) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidBuffer, len(data), want)
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Depth:    depth,
		data:     data,
	}, nil
}

// FromImageData builds an 8-bit Buffer from raw interleaved bytes, the shape
// a browser ImageData or a decoder hands over. The channel count is implied
// by len(data) / (width*height).
func FromImageData(width, height int, data []byte) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidBuffer, width, height)
	}
	if len(data)%(width*height) != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %dx%d", ErrInvalidBuffer, len(data), width, height)
	}
	return NewBuffer(width, height, len(data)/(width*height), mat.U8, data)
}

// FromImage converts img to a 4-channel, non-premultiplied RGBA Buffer.
func FromImage(img image.Image) (*Buffer, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidBuffer)
	}
	nrgba := imaging.Clone(img)
	return NewBuffer(b.Dx(), b.Dy(), 4, mat.U8, nrgba.Pix)
}

// Type returns the Mat type the buffer wraps to.
func (b *Buffer) Type() mat.Type {
	return mat.MakeType(b.Depth, b.Channels)
}

// Bytes returns the pixel bytes, or nil after Wrap.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Transferred reports whether Wrap has handed the bytes to a Mat.
func (b *Buffer) Transferred() bool {
	return b.transferred
}

// Wrap transfers the bytes to a new Owned Mat with Height rows and Width
// columns. The Buffer is empty afterwards.
func (b *Buffer) Wrap() (*mat.Mat, error) {
	if b.transferred {
		return nil, ErrTransferred
	}
	m, err := mat.NewMatFromBytes(b.Height, b.Width, b.Type(), b.data)
	if err != nil {
		return nil, fmt.Errorf("pixel: wrap: %w", err)
	}
	b.data = nil
	b.transferred = true
	return m, nil
}
