//go:build !tesseract

package ocr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTextDetector_Unavailable(t *testing.T) {
	d, err := NewTextDetector("")
	require.ErrorIs(t, err, ErrUnavailable)
	require.Nil(t, d)
	require.Empty(t, Version())
}
