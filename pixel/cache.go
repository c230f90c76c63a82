package pixel

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ImageCache provides thread-safe caching of decoded images to avoid
// redundant disk reads.
//
// Images are keyed by the exact path string given to Load. Cached images
// remain in memory until Evict or Clear removes them.
//
// A cached image is never handed out as a Buffer directly: LoadBuffer copies
// it into a fresh Buffer on every call, so wrapping the result in a Mat can
// never alias the cache.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// LoadBuffer returns the image at path as a new RGBA Buffer.
func (c *ImageCache) LoadBuffer(path string) (*Buffer, error) {
	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	return FromImage(img)
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes the image cached under path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Info describes a loaded image file.
type Info struct {
	Width  int
	Height int
	// Format is derived from the file extension: "png", "jpeg", "gif",
	// "bmp", "tiff", "webp" or "unknown".
	Format string
	// Channels is the channel count the decoded color model carries
	// natively: 1 for gray, 3 for opaque color, 4 with alpha.
	Channels int
	// Depth is 16 for 16-bit color models, 8 otherwise.
	Depth         int
	FileSizeBytes int64
}

// LoadInfo loads the image at path into the cache and describes it.
func (c *ImageCache) LoadInfo(path string) (*Info, error) {
	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".bmp":
		format = "bmp"
	case ".tif", ".tiff":
		format = "tiff"
	case ".webp":
		format = "webp"
	}

	channels, depth := 3, 8
	switch img.(type) {
	case *image.Gray:
		channels = 1
	case *image.Gray16:
		channels, depth = 1, 16
	case *image.RGBA, *image.NRGBA, *image.Paletted:
		channels = 4
	case *image.RGBA64, *image.NRGBA64:
		channels, depth = 4, 16
	}

	b := img.Bounds()
	return &Info{
		Width:         b.Dx(),
		Height:        b.Dy(),
		Format:        format,
		Channels:      channels,
		Depth:         depth,
		FileSizeBytes: stat.Size(),
	}, nil
}
