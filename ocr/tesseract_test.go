//go:build tesseract

package ocr

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/cvbind/pixel"
)

// textImage renders s in black on white, scaled up for legibility.
func textImage(s string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 20+7*len(s), 30))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 20),
	}
	d.DrawString(s)
	return img
}

func TestTextDetector_Tesseract(t *testing.T) {
	d, err := NewTextDetector("eng")
	require.NoError(t, err)
	defer d.Release()
	require.NotEmpty(t, Version())

	buf, err := pixel.FromImage(textImage("HELLO"))
	require.NoError(t, err)
	img, err := buf.Wrap()
	require.NoError(t, err)
	defer img.Release()

	boxes := newBoxes(t)
	text, err := d.DetectAndDecode(img, boxes)
	require.NoError(t, err)
	require.Contains(t, strings.ToUpper(text), "HELLO")
	require.False(t, boxes.Empty())
}
