// Package imgproc implements the image processing functions used with
// cvbind matrices: color conversion, smoothing, thresholding, edge and
// contour extraction, channel split and merge, and resizing.
//
// Every function takes its output as a dst argument, reallocating it when
// its shape or type does not match, and reports failures the way native
// code does: a *native.Exception carrying an error code and the name of the
// failing function. A released input yields native.ErrUseAfterRelease.
package imgproc
