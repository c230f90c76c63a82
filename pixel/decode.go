package pixel

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/cvbind/native"
)

// Decode reads an encoded image and returns it as a 4-channel RGBA Buffer
// together with the format name reported by the decoder.
func Decode(r io.Reader) (*Buffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	buf, err := FromImage(img)
	if err != nil {
		return nil, "", err
	}
	native.Logger().Debug("pixel: decoded", "format", format, "width", buf.Width, "height", buf.Height)
	return buf, format, nil
}
