package ocr

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/cvbind/mat"
	"github.com/ironsheep/cvbind/native"
)

// fakeRecognizer returns canned words and records what it was given.
type fakeRecognizer struct {
	text   string
	words  []word
	err    error
	seen   image.Image
	closed int
}

func (f *fakeRecognizer) recognize(encoded []byte) (string, []word, error) {
	img, err := png.Decode(bytes.NewReader(encoded))
	if err != nil {
		return "", nil, err
	}
	f.seen = img
	return f.text, f.words, f.err
}

func (f *fakeRecognizer) close() error {
	f.closed++
	return nil
}

func newFake() *fakeRecognizer {
	return &fakeRecognizer{
		text: "HELLO WORLD\n",
		words: []word{
			{text: "HELLO", box: image.Rect(2, 3, 22, 13), confidence: 0.91},
			{text: "", box: image.Rect(0, 0, 1, 1), confidence: 0.99},
			{text: "WORLD", box: image.Rect(26, 3, 50, 13), confidence: 0.42},
		},
	}
}

func newImage(t *testing.T, rows, cols int, typ mat.Type) *mat.Mat {
	t.Helper()
	m, err := mat.Zeros(rows, cols, typ)
	require.NoError(t, err)
	t.Cleanup(func() {
		if m.Live() {
			_ = m.Release()
		}
	})
	return m
}

func newBoxes(t *testing.T) *mat.Mat {
	return newImage(t, 0, 0, mat.CV8UC1)
}

func boxesOf(t *testing.T, boxes *mat.Mat) [][4]int32 {
	t.Helper()
	if boxes.Empty() {
		return nil
	}
	require.Equal(t, mat.CV32SC4, boxes.Type())
	require.Equal(t, 1, boxes.Cols())
	vals, err := boxes.DataInt32()
	require.NoError(t, err)
	out := make([][4]int32, 0, len(vals)/4)
	for i := 0; i < len(vals); i += 4 {
		out = append(out, [4]int32{vals[i], vals[i+1], vals[i+2], vals[i+3]})
	}
	return out
}

func TestTextDetector_DetectAndDecode(t *testing.T) {
	fake := newFake()
	d := newTextDetector(fake)
	defer d.Release()

	img := newImage(t, 20, 60, mat.CV8UC3)
	boxes := newBoxes(t)

	text, err := d.DetectAndDecode(img, boxes)
	require.NoError(t, err)
	require.Equal(t, "HELLO WORLD\n", text)
	require.Equal(t, [][4]int32{{2, 3, 20, 10}, {26, 3, 24, 10}}, boxesOf(t, boxes))
	require.Equal(t, image.Rect(0, 0, 60, 20), fake.seen.Bounds())
}

func TestTextDetector_MinConfidence(t *testing.T) {
	d := newTextDetector(newFake())
	defer d.Release()

	require.NoError(t, d.SetMinConfidence(0.5))
	require.Error(t, d.SetMinConfidence(1.5))
	require.Error(t, d.SetMinConfidence(-0.1))

	boxes := newBoxes(t)
	ok, err := d.Detect(newImage(t, 20, 60, mat.CV8UC1), boxes)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, [][4]int32{{2, 3, 20, 10}}, boxesOf(t, boxes))
}

func TestTextDetector_NoWords(t *testing.T) {
	fake := &fakeRecognizer{}
	d := newTextDetector(fake)
	defer d.Release()

	boxes, err := mat.Ones(2, 1, mat.CV32SC4)
	require.NoError(t, err)
	defer boxes.Release()

	ok, err := d.Detect(newImage(t, 8, 8, mat.CV8UC4), boxes)
	require.NoError(t, err)
	require.False(t, ok)
	require.True(t, boxes.Empty())
}

func TestTextDetector_Region(t *testing.T) {
	fake := newFake()
	d := newTextDetector(fake)
	defer d.Release()

	img := newImage(t, 40, 100, mat.CV8UC1)
	boxes := newBoxes(t)

	_, err := d.DetectAndDecodeRegion(img, image.Rect(30, 10, 200, 35), boxes)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 70, 25), fake.seen.Bounds())
	require.Equal(t, [][4]int32{{32, 13, 20, 10}, {56, 13, 24, 10}}, boxesOf(t, boxes))

	_, err = d.DetectAndDecodeRegion(img, image.Rectangle{}, boxes)
	require.Error(t, err)
}

func TestTextDetector_RecognizerError(t *testing.T) {
	boom := errors.New("tesseract exploded")
	d := newTextDetector(&fakeRecognizer{err: boom})
	defer d.Release()

	_, err := d.DetectAndDecode(newImage(t, 4, 4, mat.CV8UC1), newBoxes(t))
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "TextDetector.DetectAndDecode")
}

func TestTextDetector_MalformedImage(t *testing.T) {
	d := newTextDetector(newFake())
	defer d.Release()

	for name, img := range map[string]*mat.Mat{
		"empty":       newImage(t, 0, 0, mat.CV8UC1),
		"float":       newImage(t, 4, 4, mat.CV32FC1),
		"two channel": newImage(t, 4, 4, mat.CV8UC2),
	} {
		_, err := d.Detect(img, newBoxes(t))
		var e *native.Exception
		require.ErrorAs(t, err, &e, name)
		require.Equal(t, native.StsAssert, e.Code)
	}
}

func TestTextDetector_Lifecycle(t *testing.T) {
	fake := newFake()
	before := native.Live("TextDetector")
	d := newTextDetector(fake)
	require.Equal(t, before+1, native.Live("TextDetector"))

	require.NoError(t, d.Release())
	require.Equal(t, 1, fake.closed)
	require.False(t, d.Live())
	require.ErrorIs(t, d.Release(), native.ErrDoubleRelease)
	require.Equal(t, 1, fake.closed)

	_, err := d.Detect(newImage(t, 4, 4, mat.CV8UC1), newBoxes(t))
	require.ErrorIs(t, err, native.ErrUseAfterRelease)
	require.ErrorIs(t, d.SetMinConfidence(0.5), native.ErrUseAfterRelease)
}
