// Package objdetect provides the QR code detectors: QRCodeDetector and
// QRCodeDetectorAruco, with its parameter set QRCodeDetectorArucoParams.
//
// Detectors, like parameter sets, are native objects: create them with their
// constructor and call Release exactly once. Using one after Release returns
// an error wrapping native.ErrUseAfterRelease; a second Release returns
// native.ErrDoubleRelease.
//
// Input images are 8-bit Mats with one (gray), three (BGR) or four (BGRA)
// channels. Corner sets are CV_32FC2 Mats with one row of four corners per
// code, ordered top-left, top-right, bottom-right, bottom-left.
//
// The default engine is a pure Go ZXing port. Building with the gocv tag
// switches to OpenCV's detector through gocv.
package objdetect
