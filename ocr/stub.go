//go:build !tesseract

package ocr

func newRecognizer(lang, tessdata string) (recognizer, error) {
	return nil, ErrUnavailable
}

// Version returns "" when Tesseract support is not built in.
func Version() string { return "" }
