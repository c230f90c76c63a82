package objdetect

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func square(x, y, side float64) quad {
	return quad{pt(x, y), pt(x+side, y), pt(x+side, y+side), pt(x, y+side)}
}

func TestQuad_Geometry(t *testing.T) {
	q := square(10.5, 20, 30)

	require.Equal(t, image.Rect(10, 20, 42, 51), q.bounds())
	require.Equal(t, pt(25.5, 35), q.center())
	require.InDelta(t, 30, q.side(), 1e-9)
	require.Equal(t, square(21, 40, 60), q.scale(2))
	require.Equal(t, square(11.5, 18, 30), q.translate(pt(1, -2)))
	require.Equal(t, q, quadFromFloats(q.floats()))
}

func TestQuad_SquareEnough(t *testing.T) {
	tests := []struct {
		name string
		q    quad
		want bool
	}{
		{"square", square(0, 0, 10), true},
		{"slightly stretched", quad{pt(0, 0), pt(12, 0), pt(12, 10), pt(0, 10)}, true},
		{"too stretched", quad{pt(0, 0), pt(20, 0), pt(20, 10), pt(0, 10)}, false},
		{"sheared", quad{pt(0, 0), pt(10, 0), pt(18, 10), pt(8, 10)}, false},
		{"degenerate", quad{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.q.squareEnough(defaultModuleMismatch))
		})
	}
}

func TestDedupe(t *testing.T) {
	var qs []quad
	qs = dedupe(qs, square(0, 0, 20))
	qs = dedupe(qs, square(3, 2, 20))
	qs = dedupe(qs, square(40, 0, 20))
	require.Len(t, qs, 2)
}

func TestPadAndBlank(t *testing.T) {
	require.Equal(t, image.Rect(-2, -2, 7, 7), pad(image.Rect(0, 0, 5, 5), 2))

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	out := blank(img, image.Rect(2, 2, 10, 10))
	require.Equal(t, uint8(0), out.NRGBAAt(1, 1).R)
	require.Equal(t, uint8(255), out.NRGBAAt(3, 3).R)
	require.Equal(t, uint8(255), out.NRGBAAt(3, 3).A)
}

func TestZXingEngine_DetectAndDecode(t *testing.T) {
	e := newZXingEngine()
	gray := grayFrame("test", qrRGBA(t, payload, 256))

	q, ok := e.detect(gray)
	require.True(t, ok)
	requireCentered(t, q, 256)
	require.Equal(t, payload, e.decode(gray, q))

	_, ok = e.detect(image.NewGray(image.Rect(0, 0, 64, 64)))
	require.False(t, ok)
	require.NoError(t, e.close())
}
