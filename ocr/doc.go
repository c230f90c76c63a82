// Package ocr provides TextDetector, a native object that finds and reads
// text with the Tesseract engine through gosseract.
//
// Tesseract support needs cgo and the Tesseract libraries, so it is built
// only with the tesseract tag:
//
//	go build -tags tesseract ./...
//
// Without it NewTextDetector returns ErrUnavailable. Language data is read
// from CVBIND_TESSDATA_PREFIX when set, otherwise from Tesseract's default
// location.
package ocr
