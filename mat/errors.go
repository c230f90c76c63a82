package mat

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions indicates negative rows/cols or an invalid Type.
	ErrInvalidDimensions = errors.New("mat: invalid dimensions")

	// ErrIndexOutOfRange indicates a row, column, channel or flat index
	// outside the matrix.
	ErrIndexOutOfRange = errors.New("mat: index out of range")

	// ErrTypeMismatch indicates a typed accessor used on a matrix of another
	// depth.
	ErrTypeMismatch = errors.New("mat: element type mismatch")

	// ErrSizeMismatch indicates a byte buffer whose length does not match the
	// requested shape.
	ErrSizeMismatch = errors.New("mat: data size does not match shape")
)

// matErrorf wraps err with the Mat method and arguments that produced it.
func matErrorf(method string, idx []int, err error) error {
	return fmt.Errorf("Mat.%s%v: %w", method, idx, err)
}
