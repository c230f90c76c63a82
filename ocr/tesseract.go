//go:build tesseract

package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// tesseract recognizes text with a gosseract client.
type tesseract struct {
	client *gosseract.Client
}

func newRecognizer(lang, tessdata string) (recognizer, error) {
	client := gosseract.NewClient()
	if tessdata != "" {
		if err := client.SetTessdataPrefix(tessdata); err != nil {
			client.Close()
			return nil, fmt.Errorf("ocr: set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, fmt.Errorf("ocr: set language: %w", err)
	}
	return &tesseract{client: client}, nil
}

func (t *tesseract) recognize(encoded []byte) (string, []word, error) {
	if err := t.client.SetImageFromBytes(encoded); err != nil {
		return "", nil, fmt.Errorf("set image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", nil, fmt.Errorf("recognize: %w", err)
	}

	// Word boxes are best effort: the text stands on its own.
	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return text, nil, nil
	}
	words := make([]word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, word{
			text:       b.Word,
			box:        b.Box,
			confidence: b.Confidence / 100,
		})
	}
	return text, words, nil
}

func (t *tesseract) close() error {
	return t.client.Close()
}

// Version returns the version of the linked Tesseract library.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}
